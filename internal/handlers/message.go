package handlers

import (
	"context"

	"filmnights-bot/internal/conversation"
	"filmnights-bot/internal/locales"

	"github.com/mymmrac/telego"
	log "github.com/sirupsen/logrus"
)

// HandleMessage processes a non-command message.
// Main menu buttons always start over, anything else is fed to the conversation of the sender.
func (h *MessageHandler) HandleMessage(ctx context.Context, message telego.Message) error {
	if message.From == nil {
		return nil
	}
	if !h.isAdmin(ctx) {
		return h.denyMessage(ctx, message)
	}

	switch message.Text {
	case BtnNewPost:
		return h.startPostFlow(ctx, message)
	case BtnMoviePost:
		return h.startMovieFlow(ctx, message)
	case BtnManageTypes:
		return h.HandleAdmin(ctx, message)
	case BtnStats:
		return h.HandleStats(ctx, message)
	case BtnCancel:
		return h.HandleCancel(ctx, message)
	}

	loc := h.getLocalizer(message.From)
	chatID := message.Chat.ID

	s, err := h.sessions.Get(ctx, message.From.ID)
	if err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	s.ChatID = chatID

	handled, err := h.machine.Fire(ctx, s, conversation.MessageEvent(&message))
	if err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	if !handled {
		log.WithFields(log.Fields{"user_id": message.From.ID, "state": s.State}).Debug("message does not match the current state")
		return h.sendText(ctx, chatID, locales.GetMessage(loc, "MsgUseMenu", nil, nil), mainMenuKeyboard())
	}
	if err := h.saveSession(ctx, s); err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	return nil
}

// HandleCallbackQuery processes inline button presses.
// The query is acknowledged first. Navigation buttons work from any state, the rest
// are resolved by the conversation of the sender.
func (h *MessageHandler) HandleCallbackQuery(ctx context.Context, query telego.CallbackQuery) error {
	if !h.isAdmin(ctx) {
		return h.denyCallback(ctx, query)
	}
	h.answerCallback(ctx, query)

	loc := h.getLocalizer(&query.From)
	chatID := callbackChatID(&query)

	s, err := h.sessions.Get(ctx, query.From.ID)
	if err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	s.ChatID = chatID

	switch query.Data {
	case CallbackBackToMainMenu:
		return h.backToMainMenu(ctx, s, &query)
	case CallbackBackToAdminMenu:
		return h.backToAdminMenu(ctx, s, &query)
	case CallbackViewPostTypes:
		return h.viewPostTypes(ctx, s, &query)
	case CallbackAddPostType:
		return h.askTypeName(ctx, s, &query)
	case CallbackDeletePostType:
		return h.askDeleteName(ctx, s, &query)
	case CallbackCancelAction:
		return h.cancelFromButton(ctx, s, &query)
	}

	handled, err := h.machine.Fire(ctx, s, conversation.CallbackEvent(&query))
	if err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	if !handled {
		log.WithFields(log.Fields{"user_id": query.From.ID, "data": query.Data, "state": s.State}).Debug("stale callback query ignored")
		return nil
	}
	if err := h.saveSession(ctx, s); err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	return nil
}

func (h *MessageHandler) backToMainMenu(ctx context.Context, s *conversation.Session, query *telego.CallbackQuery) error {
	loc := h.getLocalizer(&query.From)
	s.Reset()
	if err := h.saveSession(ctx, s); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}
	if err := h.editOrSend(ctx, query, locales.GetMessage(loc, "BtnBackToMainMenu", nil, nil), nil); err != nil {
		log.WithError(err).Warn("failed to update message on back to main menu")
	}
	return h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgMainMenu", nil, nil), mainMenuKeyboard())
}

// cancelFromButton handles the "no" button of the confirm keyboards.
func (h *MessageHandler) cancelFromButton(ctx context.Context, s *conversation.Session, query *telego.CallbackQuery) error {
	loc := h.getLocalizer(&query.From)
	log.WithFields(log.Fields{"user_id": query.From.ID, "state": s.State}).Info("flow cancelled")
	s.Reset()
	if err := h.saveSession(ctx, s); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}
	if err := h.editOrSend(ctx, query, locales.GetMessage(loc, "MsgCancelled", nil, nil), nil); err != nil {
		log.WithError(err).Warn("failed to update message on cancel")
	}
	return h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgBackToMainMenu", nil, nil), mainMenuKeyboard())
}
