package handlers

import (
	"context"
	"strings"

	"filmnights-bot/internal/conversation"
	"filmnights-bot/internal/locales"
	"filmnights-bot/internal/publisher"

	"github.com/mymmrac/telego"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// startPostFlow lists the post types as inline buttons.
func (h *MessageHandler) startPostFlow(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	chatID := message.Chat.ID

	types, err := h.postTypes.ListPostTypes(ctx)
	if err != nil {
		return h.sendError(ctx, chatID, loc, errors.Wrap(err, "failed to list post types"))
	}

	s := conversation.NewSession(message.From.ID)
	s.ChatID = chatID
	if len(types) == 0 {
		if err := h.saveSession(ctx, s); err != nil {
			log.WithError(err).Warn("failed to reset session")
		}
		return h.sendText(ctx, chatID, locales.GetMessage(loc, "MsgNoPostTypes", nil, nil), mainMenuKeyboard())
	}

	if err := h.sendText(ctx, chatID, locales.GetMessage(loc, "MsgSelectPostType", nil, nil), postTypesKeyboard(loc, types)); err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	s.State = conversation.StatePostSelectingType
	if err := h.saveSession(ctx, s); err != nil {
		return h.sendError(ctx, chatID, loc, err)
	}
	return nil
}

func (h *MessageHandler) onPostTypeSelected(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	if !strings.HasPrefix(ev.Data, CallbackPostTypePrefix) {
		return s.State, nil
	}
	name := strings.TrimPrefix(ev.Data, CallbackPostTypePrefix)
	loc := h.eventLocalizer(ev)

	s.Set(keyPostType, name)
	text := locales.GetMessage(loc, "MsgPostTypeSelected", map[string]interface{}{"Type": name}, nil)
	if err := h.editOrSend(ctx, ev.Query, text, nil); err != nil {
		return s.State, err
	}
	return conversation.StatePostAwaitingText, nil
}

// onPostText previews the post with the banner of its type when one exists.
func (h *MessageHandler) onPostText(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	name := s.Get(keyPostType)
	if ev.Data == "" {
		text := locales.GetMessage(loc, "MsgPostTypeSelected", map[string]interface{}{"Type": name}, nil)
		return s.State, h.sendText(ctx, s.ChatID, text, nil)
	}
	s.Set(keyText, ev.Data)
	s.Set(keyBannerPath, "")

	data := map[string]interface{}{"Text": ev.Data}
	if !h.banners.Exists(name) {
		text := locales.GetMessage(loc, "MsgPreviewNoBanner", data, nil)
		if err := h.sendText(ctx, s.ChatID, text, confirmKeyboard(loc)); err != nil {
			return s.State, err
		}
		return conversation.StatePostAwaitingConfirm, nil
	}

	caption := locales.GetMessage(loc, "MsgPreviewWithBanner", data, nil)
	banner, err := h.banners.Read(name)
	if err == nil {
		err = h.sendPhotoBytes(ctx, s.ChatID, name+".jpg", banner, caption, confirmKeyboard(loc))
	}
	if err == nil {
		s.Set(keyBannerPath, h.banners.Path(name))
		return conversation.StatePostAwaitingConfirm, nil
	}

	log.WithError(err).WithField("post_type", name).Error("failed to send banner preview")
	text := locales.GetMessage(loc, "MsgPreviewBannerError", data, nil)
	if err := h.sendText(ctx, s.ChatID, text, confirmKeyboard(loc)); err != nil {
		return s.State, err
	}
	return conversation.StatePostAwaitingConfirm, nil
}

// onPostConfirm publishes the post to the channel and ends the flow.
func (h *MessageHandler) onPostConfirm(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	if ev.Data != CallbackConfirmSend {
		return s.State, nil
	}
	loc := h.eventLocalizer(ev)
	h.removeMarkup(ctx, ev.Query)
	if err := h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgSendingPost", nil, nil), nil); err != nil {
		log.WithError(err).Warn("failed to send progress message")
	}

	post := publisher.Post{
		Category:       s.Get(keyPostType),
		Text:           s.Get(keyText),
		BannerPath:     s.Get(keyBannerPath),
		SenderID:       ev.Query.From.ID,
		SenderUsername: ev.Query.From.Username,
	}
	msgID := "MsgPostSent"
	if !h.publisher.Publish(ctx, post) {
		msgID = "MsgPostSendFailed"
	}
	log.WithFields(log.Fields{
		"action":    ActionPublishPost,
		"user_id":   post.SenderID,
		"post_type": post.Category,
		"banner":    post.BannerPath != "",
		"success":   msgID == "MsgPostSent",
	}).Info("post flow finished")

	if err := h.sendText(ctx, s.ChatID, locales.GetMessage(loc, msgID, nil, nil), mainMenuKeyboard()); err != nil {
		log.WithError(err).Warn("failed to send publication result")
	}
	return conversation.StateIdle, nil
}
