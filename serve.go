package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	telegoBot "filmnights-bot/bot"
	"filmnights-bot/internal/auth"
	"filmnights-bot/internal/banners"
	"filmnights-bot/internal/config"
	"filmnights-bot/internal/database"
	"filmnights-bot/internal/handlers"
	"filmnights-bot/internal/locales"
	"filmnights-bot/internal/publisher"

	"github.com/getsentry/sentry-go"
	"github.com/mymmrac/telego"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func makeServeCMD() cli.Command {
	serveCMD := cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Runs the bot with long polling",
		Action:  serve,
	}
	configureServe(&serveCMD)
	return serveCMD
}

func configureServe(c *cli.Command) {
	c.Flags = config.RegisterFlags(c.Flags)
}

func serve(c *cli.Context) error {
	cfg, err := config.FromContext(c)
	if err != nil {
		return err
	}
	setupLogging(cfg)

	if err := locales.Init(cfg.DefaultLanguage); err != nil {
		return errors.Wrap(err, "failed to init locales")
	}

	err = sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.AppEnv,
		Release:     cfg.Version,
		Debug:       cfg.Debug,
	})
	if err != nil {
		return errors.Wrap(err, "failed to init sentry")
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Error("failed to close database")
		}
	}()
	if err := database.Seed(ctx, store, cfg.AdminIDs, database.DefaultPostTypes); err != nil {
		sentry.CaptureException(err)
		return err
	}

	bannerStore, err := banners.New(cfg.BannersDir)
	if err != nil {
		return err
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		return err
	}
	defer closeSessions()

	bot, err := telego.NewBot(cfg.BotToken, telego.WithLogger(log.StandardLogger()))
	if err != nil {
		sentry.CaptureException(err)
		return errors.Wrap(err, "failed to create telego bot")
	}
	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		sentry.CaptureException(err)
		return errors.Wrap(err, "failed to start long polling")
	}

	messageHandler, err := handlers.NewMessageHandler(handlers.HandlerDeps{
		Bot:             bot,
		PostTypes:       store,
		Stats:           store,
		Admins:          store,
		Banners:         bannerStore,
		Publisher:       publisher.New(bot, cfg.ChannelID, store),
		Sessions:        sessions,
		DefaultLanguage: cfg.DefaultLanguage,
		Version:         cfg.Version,
	})
	if err != nil {
		return err
	}

	appBot, err := telegoBot.New(telegoBot.BotDeps{
		Bot:          bot,
		UpdatesChan:  updates,
		Handler:      messageHandler,
		AdminChecker: auth.NewAdminChecker(cfg.AdminIDs, store),
		RateLimit:    cfg.RateLimit,
		Debug:        cfg.Debug,
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"env":     cfg.AppEnv,
		"version": cfg.Version,
		"driver":  cfg.DBDriver,
	}).Info("bot started")
	appBot.Start(ctx)
	log.Info("Bot shutdown complete.")
	return nil
}
