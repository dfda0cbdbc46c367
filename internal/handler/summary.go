package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/n-OlegS/dnrbot/internal/domain"
)

func (h *Handler) handleSummary(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	if update.Message.From == nil {
		return
	}
	actorID := update.Message.From.ID

	decision, err := h.admission.RequestSummary(ctx, chatID, actorID)
	if err != nil {
		slog.Error("request summary", "chat_id", chatID, "actor_id", actorID, "error", err)
		h.reply(ctx, b, update, "Something went wrong, try again later.")
		return
	}

	if decision.Accepted {
		slog.Info("summary request accepted", "chat_id", chatID, "actor_id", actorID,
			"lookback_seconds", decision.LookbackSeconds)
		h.reply(ctx, b, update, "⚡ Generating summary...")
		return
	}

	text := "Timeout! Use /show to show the previous summary."
	if decision.NextEligibleAt > 0 {
		next := time.Unix(decision.NextEligibleAt, 0)
		text = fmt.Sprintf("Timeout! Next summary at %s.\nUse /show to show the previous one.",
			next.Format("15:04"))
	}
	h.reply(ctx, b, update, text)
}

func (h *Handler) handleShow(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	summary, err := h.admission.GetCachedSummary(ctx, chatID)
	if err != nil {
		slog.Error("get cached summary", "chat_id", chatID, "error", err)
		h.reply(ctx, b, update, "Something went wrong, try again later.")
		return
	}

	if err := h.sender.SendSummary(ctx, chatID, summary); err != nil {
		slog.Error("send cached summary", "chat_id", chatID, "error", err)
	}
}

// handleText appends a plain group message to the chat log.
func (h *Handler) handleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.From == nil {
		return
	}

	displayName := msg.From.FirstName
	if msg.From.LastName != "" {
		displayName += " " + msg.From.LastName
	}

	err := h.admission.NewMessage(ctx, domain.Message{
		GroupID:     msg.Chat.ID,
		ID:          int64(msg.ID),
		UserID:      msg.From.ID,
		DisplayName: displayName,
		Text:        msg.Text,
		TS:          int64(msg.Date),
	})
	if err != nil {
		slog.Error("store message", "chat_id", msg.Chat.ID, "error", err)
	}
}
