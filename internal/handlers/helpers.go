package handlers

import (
	"bytes"
	"context"

	"filmnights-bot/internal/auth"
	"filmnights-bot/internal/conversation"
	"filmnights-bot/internal/locales"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// getLocalizer picks the user's language when it is known and falls back to the bot default.
func (h *MessageHandler) getLocalizer(user *telego.User) *i18n.Localizer {
	if user != nil && user.LanguageCode != "" {
		return locales.NewLocalizer(user.LanguageCode, h.defaultLang)
	}
	return locales.NewLocalizer(h.defaultLang)
}

func (h *MessageHandler) eventLocalizer(ev conversation.Event) *i18n.Localizer {
	return h.getLocalizer(eventUser(ev))
}

func (h *MessageHandler) isAdmin(ctx context.Context) bool {
	return auth.CapabilityFrom(ctx).Admin
}

// denyMessage tells a non-admin that the command is not available to them.
func (h *MessageHandler) denyMessage(ctx context.Context, message telego.Message) error {
	var userID int64
	if message.From != nil {
		userID = message.From.ID
	}
	log.WithFields(log.Fields{"user_id": userID, "text": message.Text}).Warn("non-admin user attempted a restricted action")
	loc := h.getLocalizer(message.From)
	return h.sendText(ctx, message.Chat.ID, locales.GetMessage(loc, "MsgErrorRequiresAdmin", nil, nil), nil)
}

func (h *MessageHandler) denyCallback(ctx context.Context, query telego.CallbackQuery) error {
	log.WithFields(log.Fields{"user_id": query.From.ID, "data": query.Data}).Warn("non-admin user pressed an inline button")
	loc := h.getLocalizer(&query.From)
	err := h.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
		Text:            locales.GetMessage(loc, "MsgErrorRequiresAdminAlert", nil, nil),
		ShowAlert:       true,
	})
	return errors.Wrap(err, "failed to answer callback query")
}

// answerCallback stops the loading indicator on the pressed button.
func (h *MessageHandler) answerCallback(ctx context.Context, query telego.CallbackQuery) {
	if err := h.bot.AnswerCallbackQuery(ctx, &telego.AnswerCallbackQueryParams{CallbackQueryID: query.ID}); err != nil {
		log.WithError(err).WithField("query_id", query.ID).Warn("failed to answer callback query")
	}
}

// sendText sends a plain text message. markup may be nil.
func (h *MessageHandler) sendText(ctx context.Context, chatID int64, text string, markup telego.ReplyMarkup) error {
	params := tu.Message(tu.ID(chatID), text)
	if markup != nil {
		params = params.WithReplyMarkup(markup)
	}
	_, err := h.bot.SendMessage(ctx, params)
	return errors.Wrapf(err, "failed to send message to chat %d", chatID)
}

// sendPhotoBytes uploads an in-memory photo with a caption and an inline keyboard.
func (h *MessageHandler) sendPhotoBytes(ctx context.Context, chatID int64, fileName string, data []byte, caption string, markup *telego.InlineKeyboardMarkup) error {
	params := tu.Photo(tu.ID(chatID), tu.File(tu.NameReader(bytes.NewReader(data), fileName))).WithCaption(caption)
	if markup != nil {
		params = params.WithReplyMarkup(markup)
	}
	_, err := h.bot.SendPhoto(ctx, params)
	return errors.Wrapf(err, "failed to send photo to chat %d", chatID)
}

// sendError sends the generic error message to the user and returns the original error
// so the update loop can log and report it.
func (h *MessageHandler) sendError(ctx context.Context, chatID int64, loc *i18n.Localizer, originalErr error) error {
	log.WithError(originalErr).WithField("chat_id", chatID).Error("handler failed")
	if sendErr := h.sendText(ctx, chatID, locales.GetMessage(loc, "MsgErrorGeneral", nil, nil), nil); sendErr != nil {
		log.WithError(sendErr).WithField("chat_id", chatID).Error("failed to send error message")
	}
	return originalErr
}

// editOrSend replaces the text of the message holding the pressed button.
// When the message cannot be edited (e.g. it is a photo) the text is sent as a new message.
func (h *MessageHandler) editOrSend(ctx context.Context, query *telego.CallbackQuery, text string, markup *telego.InlineKeyboardMarkup) error {
	chatID := callbackChatID(query)
	if query.Message != nil {
		_, err := h.bot.EditMessageText(ctx, &telego.EditMessageTextParams{
			ChatID:      tu.ID(chatID),
			MessageID:   query.Message.GetMessageID(),
			Text:        text,
			ReplyMarkup: markup,
		})
		if err == nil {
			return nil
		}
		log.WithError(err).WithField("chat_id", chatID).Debug("edit failed, sending a new message")
		h.removeMarkup(ctx, query)
	}
	if markup != nil {
		return h.sendText(ctx, chatID, text, markup)
	}
	return h.sendText(ctx, chatID, text, nil)
}

// removeMarkup drops the inline keyboard from the message holding the pressed button.
func (h *MessageHandler) removeMarkup(ctx context.Context, query *telego.CallbackQuery) {
	if query == nil || query.Message == nil {
		return
	}
	chatID := callbackChatID(query)
	_, err := h.bot.EditMessageReplyMarkup(ctx, &telego.EditMessageReplyMarkupParams{
		ChatID:    tu.ID(chatID),
		MessageID: query.Message.GetMessageID(),
	})
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Warn("failed to remove inline keyboard")
	}
}

// saveSession persists an active session and forgets an idle one.
func (h *MessageHandler) saveSession(ctx context.Context, s *conversation.Session) error {
	if s.Idle() {
		return errors.Wrap(h.sessions.Delete(ctx, s.UserID), "failed to delete session")
	}
	return errors.Wrap(h.sessions.Save(ctx, s), "failed to save session")
}

func callbackChatID(query *telego.CallbackQuery) int64 {
	if query.Message != nil {
		return query.Message.GetChat().ID
	}
	return query.From.ID
}

func eventUser(ev conversation.Event) *telego.User {
	switch {
	case ev.Message != nil:
		return ev.Message.From
	case ev.Query != nil:
		return &ev.Query.From
	}
	return nil
}
