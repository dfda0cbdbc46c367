package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleSponsor marks an actor as a paying sponsor (or revokes it with
// "off"). Operator-only.
func (h *Handler) handleSponsor(ctx context.Context, b *bot.Bot, update *models.Update, args string) {
	if update.Message.From == nil || !h.cfg.IsAdmin(update.Message.From.ID) {
		return
	}

	fields := strings.Fields(args)
	if len(fields) == 0 {
		h.reply(ctx, b, update, "Usage: /sponsor <userID> [off]")
		return
	}

	actorID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		h.reply(ctx, b, update, "Invalid user ID")
		return
	}

	paying := !(len(fields) > 1 && fields[1] == "off")

	if err := h.admission.SetSponsorPaying(ctx, actorID, paying); err != nil {
		slog.Error("set sponsor paying", "actor_id", actorID, "error", err)
		h.reply(ctx, b, update, "Something went wrong, try again later.")
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("Sponsor %d paying=%t", actorID, paying))
}
