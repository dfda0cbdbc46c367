package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/n-OlegS/dnrbot/internal/config"
	"github.com/n-OlegS/dnrbot/internal/service"
	"github.com/n-OlegS/dnrbot/internal/telegram"
)

// Handler holds all dependencies needed by command handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	admission *service.AdmissionService
	billing   *service.BillingService
	sender    *telegram.Sender
	parser    *Parser
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	Cfg         *config.Config
	Admission   *service.AdmissionService
	Billing     *service.BillingService
	Sender      *telegram.Sender
	BotUsername string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		admission: deps.Admission,
		billing:   deps.Billing,
		sender:    deps.Sender,
		parser:    NewParser(deps.BotUsername),
	}
}

// HandleUpdate is the single entry point for all updates: it routes
// payment callbacks, commands and plain chat text.
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.PreCheckoutQuery != nil {
		h.HandlePreCheckout(ctx, b, update)
		return
	}
	if update.Message == nil {
		return
	}
	if update.Message.SuccessfulPayment != nil {
		h.handleSuccessfulPayment(ctx, b, update)
		return
	}
	if update.Message.Text == "" {
		return
	}

	if strings.HasPrefix(update.Message.Text, "/") {
		cmd, ok := h.parser.Parse(update.Message.Text)
		if !ok {
			// Addressed to another bot.
			return
		}
		h.dispatch(ctx, b, update, cmd)
		return
	}

	h.handleText(ctx, b, update)
}

func (h *Handler) dispatch(ctx context.Context, b *bot.Bot, update *models.Update, cmd Command) {
	switch cmd.Name {
	case CmdStart:
		h.handleStart(ctx, b, update)
	case CmdSummary:
		h.handleSummary(ctx, b, update)
	case CmdShow:
		h.handleShow(ctx, b, update)
	case CmdStatus:
		h.handleStatus(ctx, b, update)
	case CmdHelp:
		h.handleHelp(ctx, b, update)
	case CmdTier:
		h.handleTier(ctx, b, update, cmd.Args)
	case CmdPay:
		h.handlePay(ctx, b, update, cmd.Args)
	case CmdSponsor:
		h.handleSponsor(ctx, b, update, cmd.Args)
	default:
		h.reply(ctx, b, update, "Unknown command")
	}
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID: update.Message.ID,
		},
	})
}
