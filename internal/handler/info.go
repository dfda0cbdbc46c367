package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"

	"github.com/n-OlegS/dnrbot/internal/config"
	"github.com/n-OlegS/dnrbot/internal/domain"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.reply(ctx, b, update, "Hello! I summarize group chats on demand. Use /help to see what I can do.")
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	g, err := h.admission.GetStatus(ctx, chatID)
	if err != nil {
		slog.Error("get status", "chat_id", chatID, "error", err)
		h.reply(ctx, b, update, "Something went wrong, try again later.")
		return
	}

	payed := "never"
	if g.PayedAt > 0 {
		payed = time.Unix(g.PayedAt, 0).Format("02-01-06 15:04")
	}

	dollars := decimal.NewFromInt(g.Balance).
		Mul(decimal.NewFromFloat(config.XTRToDollarRate))

	h.reply(ctx, b, update, fmt.Sprintf(
		"Active: %t\nBalance: %d ⭐ (~$%s)\nTier: %s (%d)\nInterval: %dm\nPayed: %s",
		g.Active,
		g.Balance,
		dollars.StringFixed(2),
		domain.TierName(g.Tier),
		g.Tier,
		g.IntervalSeconds/60,
		payed,
	))
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.reply(ctx, b, update,
		"/summary — generate a summary\n"+
			"/show — show the last summary\n"+
			"/status — group subscription status\n"+
			"/pay X — top up X stars\n"+
			"/tier NAME — switch to a tier\n"+
			"/help — this text\n\n"+
			"Tiers available — free, basic, plus, pro, max\n"+
			"name | price/month | timeout(min)\n"+
			"free | 0 | 1440\n"+
			"basic | 250 | 180\n"+
			"plus | 500 | 60\n"+
			"pro | 1000 | 15\n"+
			"max | 2000 | 15")
}
