// Package publisher delivers finished posts to the target channel and records them in the post log.
package publisher

import (
	"context"
	"os"
	"time"

	"filmnights-bot/internal/database"
	"filmnights-bot/internal/database/models"
	telegoapi "filmnights-bot/pkg/telegoapi"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Post is a publication request coming out of the post flow.
type Post struct {
	Category       string
	Text           string
	BannerPath     string
	SenderID       int64
	SenderUsername string
}

type Publisher struct {
	bot       telegoapi.BotAPI
	channelID int64
	postLog   database.PostLogger
}

func New(bot telegoapi.BotAPI, channelID int64, postLog database.PostLogger) *Publisher {
	return &Publisher{bot: bot, channelID: channelID, postLog: postLog}
}

// Send posts caption to the channel as HTML, as a photo when bannerPath is set.
// Failures are logged and reported as false. Nothing is retried.
func (p *Publisher) Send(ctx context.Context, caption, bannerPath string) bool {
	l := log.WithFields(log.Fields{
		"channel_id": p.channelID,
		"banner":     bannerPath,
	})
	if p.channelID == 0 {
		l.Error("target channel is not configured")
		return false
	}
	if err := p.send(ctx, caption, bannerPath); err != nil {
		l.WithError(err).Error("failed to send post to channel")
		return false
	}
	l.Info("post sent to channel")
	return true
}

func (p *Publisher) send(ctx context.Context, caption, bannerPath string) error {
	if bannerPath == "" {
		_, err := p.bot.SendMessage(ctx, tu.Message(tu.ID(p.channelID), caption).
			WithParseMode(telego.ModeHTML))
		return errors.Wrap(err, "failed to send message")
	}
	f, err := os.Open(bannerPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open banner %s", bannerPath)
	}
	defer f.Close()
	_, err = p.bot.SendPhoto(ctx, tu.Photo(tu.ID(p.channelID), tu.File(f)).
		WithCaption(caption).
		WithParseMode(telego.ModeHTML))
	return errors.Wrap(err, "failed to send photo")
}

// Publish sends the post and records it in the post log when delivery succeeded.
// A log write failure does not turn a delivered post into a failure.
func (p *Publisher) Publish(ctx context.Context, post Post) bool {
	if !p.Send(ctx, post.Text, post.BannerPath) {
		return false
	}
	if p.postLog == nil {
		return true
	}
	err := p.postLog.LogPublishedPost(ctx, models.PostLog{
		Category:       post.Category,
		Content:        post.Text,
		SenderID:       post.SenderID,
		SenderUsername: post.SenderUsername,
		MediaRef:       post.BannerPath,
		SentAt:         time.Now(),
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"category":  post.Category,
			"sender_id": post.SenderID,
		}).Error("failed to record published post")
		sentry.CaptureException(errors.Wrap(err, "post log write failed"))
	}
	return true
}
