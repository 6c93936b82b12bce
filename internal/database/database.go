package database

import (
	"context"
	"strings"

	"filmnights-bot/internal/config"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrPostTypeExists is returned when adding a post type whose name is taken.
	ErrPostTypeExists = errors.New("post type already exists")
	// ErrPostTypeNotFound is returned when a post type does not exist.
	ErrPostTypeNotFound = errors.New("post type not found")
)

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Postgres)(nil)
	_ Store = (*MongoStore)(nil)
)

// DefaultPostTypes are created on first start.
var DefaultPostTypes = []string{"text", "photo", "video", "document", "audio", "sticker", "animation"}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Open connects to the backend selected by cfg.DBDriver and prepares its schema.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case DriverSQLite, "":
		return NewSQLite(ctx, cfg.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresURL)
	case DriverMongo:
		return NewMongoStore(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase)
	default:
		return nil, errors.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

// Seed registers the configured admins and creates missing default post types.
func Seed(ctx context.Context, store Store, adminIDs []int64, postTypes []string) error {
	for _, id := range adminIDs {
		if err := store.AddAdmin(ctx, id, ""); err != nil {
			return errors.Wrapf(err, "failed to seed admin %d", id)
		}
	}
	created := 0
	for _, name := range postTypes {
		err := store.AddPostType(ctx, name, "")
		if errors.Is(err, ErrPostTypeExists) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "failed to seed post type %q", name)
		}
		created++
	}
	log.WithFields(log.Fields{
		"admins":     len(adminIDs),
		"post_types": created,
	}).Info("database seeded")
	return nil
}
