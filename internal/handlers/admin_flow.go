package handlers

import (
	"context"
	"strings"

	"filmnights-bot/internal/banners"
	"filmnights-bot/internal/conversation"
	"filmnights-bot/internal/database"
	"filmnights-bot/internal/locales"

	"github.com/mymmrac/telego"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// enterPanelState resets the collected values and moves the session to an admin panel state.
func (h *MessageHandler) enterPanelState(ctx context.Context, s *conversation.Session, state conversation.State) error {
	chatID := s.ChatID
	s.Reset()
	s.ChatID = chatID
	s.State = state
	return h.saveSession(ctx, s)
}

func (h *MessageHandler) backToAdminMenu(ctx context.Context, s *conversation.Session, query *telego.CallbackQuery) error {
	loc := h.getLocalizer(&query.From)
	if err := h.enterPanelState(ctx, s, conversation.StateAdminMenu); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}
	return h.editOrSend(ctx, query, locales.GetMessage(loc, "MsgAdminPanel", nil, nil), adminPanelKeyboard(loc))
}

func (h *MessageHandler) viewPostTypes(ctx context.Context, s *conversation.Session, query *telego.CallbackQuery) error {
	loc := h.getLocalizer(&query.From)
	types, err := h.postTypes.ListPostTypes(ctx)
	if err != nil {
		return h.sendError(ctx, s.ChatID, loc, errors.Wrap(err, "failed to list post types"))
	}
	if err := h.enterPanelState(ctx, s, conversation.StateAdminMenu); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}

	if len(types) == 0 {
		return h.editOrSend(ctx, query, locales.GetMessage(loc, "MsgAdminNoTypes", nil, nil), backToAdminKeyboard(loc))
	}
	lines := make([]string, 0, len(types))
	for _, pt := range types {
		lines = append(lines, "- "+pt.Name)
	}
	text := locales.GetMessage(loc, "MsgAdminTypeList", map[string]interface{}{
		"List": strings.Join(lines, "\n"),
	}, nil)
	return h.editOrSend(ctx, query, text, backToAdminKeyboard(loc))
}

func (h *MessageHandler) askTypeName(ctx context.Context, s *conversation.Session, query *telego.CallbackQuery) error {
	loc := h.getLocalizer(&query.From)
	if err := h.enterPanelState(ctx, s, conversation.StateAdminAwaitingTypeName); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}
	return h.editOrSend(ctx, query, locales.GetMessage(loc, "MsgAskTypeName", nil, nil), nil)
}

func (h *MessageHandler) askDeleteName(ctx context.Context, s *conversation.Session, query *telego.CallbackQuery) error {
	loc := h.getLocalizer(&query.From)
	types, err := h.postTypes.ListPostTypes(ctx)
	if err != nil {
		return h.sendError(ctx, s.ChatID, loc, errors.Wrap(err, "failed to list post types"))
	}
	if len(types) == 0 {
		if err := h.enterPanelState(ctx, s, conversation.StateAdminMenu); err != nil {
			return h.sendError(ctx, s.ChatID, loc, err)
		}
		return h.editOrSend(ctx, query, locales.GetMessage(loc, "MsgNothingToDelete", nil, nil), backToAdminKeyboard(loc))
	}
	if err := h.enterPanelState(ctx, s, conversation.StateAdminAwaitingDeleteName); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}
	return h.editOrSend(ctx, query, locales.GetMessage(loc, "MsgAskDeleteName", nil, nil), nil)
}

// onTypeName validates the new type name and asks for its banner.
// Duplicates are rejected here so the admin does not upload a banner for nothing.
func (h *MessageHandler) onTypeName(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	name := strings.TrimSpace(ev.Data)
	if !banners.ValidName(name) || len(name) > maxPostTypeNameBytes {
		return s.State, h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgInvalidTypeName", nil, nil), nil)
	}

	_, err := h.postTypes.GetPostType(ctx, name)
	switch {
	case err == nil:
		text := locales.GetMessage(loc, "MsgTypeExists", map[string]interface{}{"Name": name}, nil)
		return conversation.StateAdminMenu, h.sendText(ctx, s.ChatID, text, adminPanelKeyboard(loc))
	case !errors.Is(err, database.ErrPostTypeNotFound):
		return s.State, errors.Wrapf(err, "failed to look up post type %q", name)
	}

	s.Set(keyTypeName, name)
	if err := h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgAskTypeBanner", nil, nil), nil); err != nil {
		return s.State, err
	}
	return conversation.StateAdminAwaitingTypeBanner, nil
}

// onTypeBanner downloads the banner, creates the post type and stores the banner file.
// The post type is removed again when the banner cannot be written.
func (h *MessageHandler) onTypeBanner(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	name := s.Get(keyTypeName)
	photos := ev.Message.Photo
	photo := photos[len(photos)-1]

	file, err := h.bot.GetFile(ctx, &telego.GetFileParams{FileID: photo.FileID})
	if err != nil {
		return s.State, errors.Wrap(err, "failed to get banner file info")
	}
	data, err := h.downloadFile(h.bot.FileDownloadURL(file.FilePath))
	if err != nil {
		return s.State, errors.Wrap(err, "failed to download banner")
	}

	err = h.postTypes.AddPostType(ctx, name, h.banners.Path(name))
	if errors.Is(err, database.ErrPostTypeExists) {
		text := locales.GetMessage(loc, "MsgTypeExists", map[string]interface{}{"Name": name}, nil)
		return conversation.StateAdminMenu, h.sendText(ctx, s.ChatID, text, adminPanelKeyboard(loc))
	}
	if err != nil {
		return s.State, errors.Wrapf(err, "failed to add post type %q", name)
	}

	if _, err := h.banners.Write(name, data); err != nil {
		if rbErr := h.postTypes.DeletePostType(ctx, name); rbErr != nil {
			log.WithError(rbErr).WithField("post_type", name).Error("failed to roll back post type")
		}
		return s.State, errors.Wrapf(err, "failed to store banner for %q", name)
	}

	log.WithFields(log.Fields{
		"action":    ActionAddPostType,
		"user_id":   s.UserID,
		"post_type": name,
		"bytes":     len(data),
	}).Info("post type added")
	text := locales.GetMessage(loc, "MsgTypeAdded", map[string]interface{}{"Name": name}, nil)
	return conversation.StateAdminMenu, h.sendText(ctx, s.ChatID, text, adminPanelKeyboard(loc))
}

func (h *MessageHandler) onTypeBannerNotPhoto(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	return s.State, h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgRequirePhoto", nil, nil), nil)
}

func (h *MessageHandler) onDeleteName(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	name := strings.TrimSpace(ev.Data)
	data := map[string]interface{}{"Name": name}

	err := h.postTypes.DeletePostType(ctx, name)
	if errors.Is(err, database.ErrPostTypeNotFound) {
		text := locales.GetMessage(loc, "MsgTypeNotFound", data, nil)
		return conversation.StateAdminMenu, h.sendText(ctx, s.ChatID, text, adminPanelKeyboard(loc))
	}
	if err != nil {
		return s.State, errors.Wrapf(err, "failed to delete post type %q", name)
	}
	if err := h.banners.Delete(name); err != nil {
		log.WithError(err).WithField("post_type", name).Warn("failed to delete banner file")
	}

	log.WithFields(log.Fields{
		"action":    ActionDeletePostType,
		"user_id":   s.UserID,
		"post_type": name,
	}).Info("post type deleted")
	text := locales.GetMessage(loc, "MsgTypeDeleted", data, nil)
	return conversation.StateAdminMenu, h.sendText(ctx, s.ChatID, text, adminPanelKeyboard(loc))
}
