package handlers

import (
	"context"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/pkg/logger"
	"github.com/futig/fund-faq/internal/telegram/keyboard"
	"github.com/futig/fund-faq/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Handler answers chat messages. It keeps no per user state.
type Handler struct {
	api       API
	assistant Assistant
	catalog   CatalogSource
	keyboard  *keyboard.Builder
	sender    *MessageSender
	logger    *zap.Logger
}

func NewHandler(api API, assistant Assistant, catalog CatalogSource, kb *keyboard.Builder, logger *zap.Logger) *Handler {
	return &Handler{
		api:       api,
		assistant: assistant,
		catalog:   catalog,
		keyboard:  kb,
		sender:    NewMessageSender(api, logger),
		logger:    logger,
	}
}

// HandleCommand serves /start, /help and /schemes
func (h *Handler) HandleCommand(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "command_"+msg.Command)

	switch msg.Command {
	case "start":
		return h.sender.Send(msg.ChatID, render.MsgWelcome, nil)
	case "help":
		return h.sender.Send(msg.ChatID, render.MsgHelp, nil)
	case "schemes":
		return h.showSchemes(ctx, msg.ChatID)
	default:
		return h.sender.Send(msg.ChatID, render.ErrUnknownCommand, nil)
	}
}

// HandleText treats free text as a question
func (h *Handler) HandleText(ctx context.Context, msg *Message) error {
	if strings.TrimSpace(msg.Text) == "" {
		return h.sender.Send(msg.ChatID, render.ErrTextOnly, nil)
	}
	return h.ask(ctx, msg.ChatID, msg.Text)
}

// HandleCallback walks the scheme then field keyboards and asks the composed question
func (h *Handler) HandleCallback(ctx context.Context, msg *Message) error {
	ctx = logger.WithAction(ctx, "callback")

	cb, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err), zap.String("data", msg.CallbackData))
		h.sender.Answer(msg.CallbackID, render.ErrStaleButton)
		return nil
	}
	h.sender.Answer(msg.CallbackID, "")

	switch cb.Action {
	case keyboard.ActionBack:
		return h.showSchemes(ctx, msg.ChatID)

	case keyboard.ActionScheme:
		scheme, ok := h.schemeBySlug(cb.Value)
		if !ok {
			return h.sender.Send(msg.ChatID, render.ErrStaleButton, nil)
		}
		return h.sender.Send(msg.ChatID, render.PickField(scheme), h.keyboard.FieldsKeyboard(scheme))

	case keyboard.ActionField:
		slug, rawField, err := keyboard.SplitFieldValue(cb.Value)
		if err != nil {
			return h.sender.Send(msg.ChatID, render.ErrStaleButton, nil)
		}
		scheme, ok := h.schemeBySlug(slug)
		field, ferr := entity.ParseFieldName(rawField)
		if !ok || ferr != nil {
			return h.sender.Send(msg.ChatID, render.ErrStaleButton, nil)
		}
		return h.ask(ctx, msg.ChatID, render.FieldQuestion(scheme.Name, field))

	default:
		ctxzap.Warn(ctx, "unknown callback action", zap.String("action", cb.Action))
		return h.sender.Send(msg.ChatID, render.ErrStaleButton, nil)
	}
}

func (h *Handler) ask(ctx context.Context, chatID int64, question string) error {
	typing := NewTypingNotifier(h.api, chatID, h.logger)
	typing.Start(ctx)
	ans := h.assistant.Ask(ctx, question)
	typing.Stop()

	return h.sender.Send(chatID, render.Answer(ans), nil)
}

func (h *Handler) showSchemes(ctx context.Context, chatID int64) error {
	schemes := h.catalog.Catalog().Schemes()
	if len(schemes) == 0 {
		ctxzap.Warn(ctx, "scheme catalog is empty")
		return h.sender.Send(chatID, render.MsgNoSchemes, nil)
	}
	return h.sender.Send(chatID, render.MsgPickScheme, h.keyboard.SchemesKeyboard(schemes))
}

// schemeBySlug resolves against the current catalog, so buttons survive index reloads
func (h *Handler) schemeBySlug(slug string) (entity.Scheme, bool) {
	for _, s := range h.catalog.Catalog().Schemes() {
		if entity.Slugify(s.Name) == slug {
			return s, true
		}
	}
	return entity.Scheme{}, false
}
