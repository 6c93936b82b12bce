package handlers

import (
	"context"

	"filmnights-bot/internal/caption"
	"filmnights-bot/internal/conversation"
	"filmnights-bot/internal/locales"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (h *MessageHandler) startMovieFlow(ctx context.Context, message telego.Message) error {
	loc := h.getLocalizer(message.From)
	s := conversation.NewSession(message.From.ID)
	s.ChatID = message.Chat.ID
	s.State = conversation.StateMovieAwaitingPoster

	if err := h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgMovieIntro", nil, nil), nil); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}
	if err := h.saveSession(ctx, s); err != nil {
		return h.sendError(ctx, s.ChatID, loc, err)
	}
	return nil
}

// onMoviePoster extracts the movie fields from the poster caption and previews the display post.
func (h *MessageHandler) onMoviePoster(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	if ev.Data == "" {
		return s.State, h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgMovieNeedCaption", nil, nil), nil)
	}

	photos := ev.Message.Photo
	photoID := photos[len(photos)-1].FileID
	info := caption.Extract(ev.Data)
	display := caption.RenderDisplay(info)
	fileCaption := caption.RenderFilePost(info)

	s.Set(keyPhotoID, photoID)
	s.Set(keyDisplayCaption, display)
	s.Set(keyFileCaption, fileCaption)

	preview := locales.GetMessage(loc, "MsgMovieFirstPreview", map[string]interface{}{"Caption": display}, nil)
	_, err := h.bot.SendPhoto(ctx, tu.Photo(tu.ID(s.ChatID), tu.FileFromID(photoID)).
		WithCaption(preview).
		WithReplyMarkup(confirmKeyboard(loc)))
	if err != nil {
		return s.State, errors.Wrap(err, "failed to send poster preview")
	}
	log.WithFields(log.Fields{"user_id": s.UserID, "movie": info.Name}).Debug("movie poster received")
	return conversation.StateMovieAwaitingFirstConfirm, nil
}

func (h *MessageHandler) onMovieNotPhoto(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	return s.State, h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgMovieNeedPhoto", nil, nil), nil)
}

func (h *MessageHandler) onMovieFirstConfirm(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	if ev.Data != CallbackConfirmSend {
		return s.State, nil
	}
	loc := h.eventLocalizer(ev)
	h.removeMarkup(ctx, ev.Query)
	text := locales.GetMessage(loc, "MsgMovieFirstConfirmed", map[string]interface{}{
		"FileCaption": s.Get(keyFileCaption),
	}, nil)
	if err := h.sendText(ctx, s.ChatID, text, nil); err != nil {
		return s.State, err
	}
	return conversation.StateMovieAwaitingFile, nil
}

// onMovieFile previews the file post. When the file cannot be re-sent the preview falls back to text.
func (h *MessageHandler) onMovieFile(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	var fileID, kind string
	switch {
	case ev.Message.Document != nil:
		fileID, kind = ev.Message.Document.FileID, fileKindDocument
	case ev.Message.Video != nil:
		fileID, kind = ev.Message.Video.FileID, fileKindVideo
	default:
		return h.onMovieNotFile(ctx, s, ev)
	}
	s.Set(keyFileID, fileID)
	s.Set(keyFileKind, kind)

	data := map[string]interface{}{"FileCaption": s.Get(keyFileCaption)}
	preview := locales.GetMessage(loc, "MsgMovieSecondPreview", data, nil)
	err := h.sendMovieFile(ctx, s.ChatID, kind, fileID, preview, confirmKeyboard(loc))
	if err == nil {
		return conversation.StateMovieAwaitingFinalConfirm, nil
	}

	log.WithError(err).WithField("file_kind", kind).Warn("failed to preview movie file")
	fallback := locales.GetMessage(loc, "MsgMovieSecondPreviewFallback", data, nil)
	if err := h.sendText(ctx, s.ChatID, fallback, confirmKeyboard(loc)); err != nil {
		return s.State, err
	}
	return conversation.StateMovieAwaitingFinalConfirm, nil
}

func (h *MessageHandler) onMovieNotFile(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	loc := h.eventLocalizer(ev)
	return s.State, h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgMovieNeedFile", nil, nil), nil)
}

// onMovieFinalConfirm sends both posts to the admin's chat so they can be forwarded to the channel.
func (h *MessageHandler) onMovieFinalConfirm(ctx context.Context, s *conversation.Session, ev conversation.Event) (conversation.State, error) {
	if ev.Data != CallbackConfirmSend {
		return s.State, nil
	}
	loc := h.eventLocalizer(ev)
	h.removeMarkup(ctx, ev.Query)
	if err := h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgMoviePreparing", nil, nil), nil); err != nil {
		log.WithError(err).Warn("failed to send progress message")
	}

	logger := log.WithFields(log.Fields{"action": ActionMoviePosts, "user_id": s.UserID})
	if err := h.deliverMoviePosts(ctx, s); err != nil {
		logger.WithError(err).Error("failed to prepare movie posts")
		text := locales.GetMessage(loc, "MsgMovieError", map[string]interface{}{"Error": err.Error()}, nil)
		if sendErr := h.sendText(ctx, s.ChatID, text, mainMenuKeyboard()); sendErr != nil {
			logger.WithError(sendErr).Error("failed to report movie post error")
		}
		return conversation.StateIdle, nil
	}

	if err := h.sendText(ctx, s.ChatID, locales.GetMessage(loc, "MsgMovieReady", nil, nil), mainMenuKeyboard()); err != nil {
		logger.WithError(err).Warn("failed to send ready message")
	}
	logger.Info("movie posts created")
	return conversation.StateIdle, nil
}

func (h *MessageHandler) deliverMoviePosts(ctx context.Context, s *conversation.Session) error {
	_, err := h.bot.SendPhoto(ctx, tu.Photo(tu.ID(s.ChatID), tu.FileFromID(s.Get(keyPhotoID))).
		WithCaption(s.Get(keyDisplayCaption)))
	if err != nil {
		return errors.Wrap(err, "failed to send display post")
	}
	return h.sendMovieFile(ctx, s.ChatID, s.Get(keyFileKind), s.Get(keyFileID), s.Get(keyFileCaption), nil)
}

// sendMovieFile re-sends an uploaded document or video by its file id. markup may be nil.
func (h *MessageHandler) sendMovieFile(ctx context.Context, chatID int64, kind, fileID, text string, markup *telego.InlineKeyboardMarkup) error {
	if kind == fileKindDocument {
		params := tu.Document(tu.ID(chatID), tu.FileFromID(fileID)).WithCaption(text)
		if markup != nil {
			params = params.WithReplyMarkup(markup)
		}
		_, err := h.bot.SendDocument(ctx, params)
		return errors.Wrap(err, "failed to send document")
	}
	params := tu.Video(tu.ID(chatID), tu.FileFromID(fileID)).WithCaption(text)
	if markup != nil {
		params = params.WithReplyMarkup(markup)
	}
	_, err := h.bot.SendVideo(ctx, params)
	return errors.Wrap(err, "failed to send video")
}
