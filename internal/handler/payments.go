package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/n-OlegS/dnrbot/internal/config"
)

// handlePay starts a Telegram Stars top-up for the group balance.
func (h *Handler) handlePay(ctx context.Context, b *bot.Bot, update *models.Update, args string) {
	chatID := update.Message.Chat.ID

	amount, err := strconv.Atoi(args)
	if err != nil || !h.validAmount(amount) {
		h.reply(ctx, b, update, fmt.Sprintf(
			"Invalid amount! Specify a number between %d and %d stars.",
			config.MinPaymentStars, config.MaxPaymentStars))
		return
	}

	_, err = b.SendInvoice(ctx, &bot.SendInvoiceParams{
		ChatID:      chatID,
		Title:       "Top up account",
		Description: "Top up your group balance!",
		Payload:     fmt.Sprintf("topup:%d", chatID),
		Currency:    "XTR",
		Prices: []models.LabeledPrice{
			{Label: fmt.Sprintf("%d Stars", amount), Amount: amount},
		},
	})
	if err != nil {
		slog.Error("send invoice", "chat_id", chatID, "error", err)
		h.reply(ctx, b, update, "Something went wrong, try again later.")
	}
}

func (h *Handler) validAmount(amount int) bool {
	if h.cfg.Debug {
		return amount > 0
	}
	return amount >= config.MinPaymentStars && amount <= config.MaxPaymentStars
}

// HandlePreCheckout approves the pre-checkout query; amount validation
// already happened when the invoice was created.
func (h *Handler) HandlePreCheckout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.PreCheckoutQuery == nil {
		return
	}
	b.AnswerPreCheckoutQuery(ctx, &bot.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: update.PreCheckoutQuery.ID,
		OK:                 true,
	})
}

func (h *Handler) handleSuccessfulPayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	payment := update.Message.SuccessfulPayment

	gidStr, ok := strings.CutPrefix(payment.InvoicePayload, "topup:")
	if !ok {
		slog.Error("unexpected invoice payload", "payload", payment.InvoicePayload)
		return
	}
	groupID, err := strconv.ParseInt(gidStr, 10, 64)
	if err != nil {
		slog.Error("parse invoice payload", "payload", payment.InvoicePayload, "error", err)
		return
	}

	stars := int64(payment.TotalAmount)
	if h.cfg.Debug && stars == 1 {
		// Test payments are 1 star; inflate so debug flows exercise billing.
		stars = 100
	}

	balance, err := h.billing.TopUp(ctx, groupID, stars)
	if err != nil {
		slog.Error("top up after payment", "group_id", groupID, "stars", stars, "error", err)
		return
	}

	slog.Info("payment received", "group_id", groupID, "stars", stars, "balance", balance)
	h.reply(ctx, b, update, fmt.Sprintf("✅ Payment received: %d⭐\nEnjoy!", payment.TotalAmount))
}
