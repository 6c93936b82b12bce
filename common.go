package main

import (
	"context"

	"filmnights-bot/internal/config"
	"filmnights-bot/internal/conversation"

	log "github.com/sirupsen/logrus"
)

func setupLogging(cfg *config.Config) {
	log.SetLevel(cfg.Level())
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// newSessionStore keeps sessions in Redis when REDIS_URL is set and in memory otherwise.
func newSessionStore(ctx context.Context, cfg *config.Config) (conversation.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("using in-memory session store")
		return conversation.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	}
	client, err := conversation.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis session store")
	return conversation.NewRedisStore(client, cfg.SessionTTL), func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis client")
		}
	}, nil
}
