package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/n-OlegS/dnrbot/internal/domain"
)

func (h *Handler) handleTier(ctx context.Context, b *bot.Bot, update *models.Update, args string) {
	chatID := update.Message.Chat.ID

	tier, err := domain.ParseTierName(args)
	if err != nil {
		h.reply(ctx, b, update, "Invalid tier. Choose from: free, basic, plus, pro, max, elite")
		return
	}

	switch err := h.billing.ChangeTier(ctx, chatID, tier); {
	case errors.Is(err, domain.ErrTierUnchanged):
		h.reply(ctx, b, update, "Already on that tier!")
	case err != nil:
		slog.Error("change tier", "chat_id", chatID, "tier", tier, "error", err)
		h.reply(ctx, b, update, "Something went wrong, try again later.")
	default:
		h.reply(ctx, b, update, "Success!")
	}
}
