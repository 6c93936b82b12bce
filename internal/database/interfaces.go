package database

import (
	"context"

	"filmnights-bot/internal/database/models"
)

// PostTypeRepository manages post categories.
type PostTypeRepository interface {
	// ListPostTypes returns all post types ordered by name.
	ListPostTypes(ctx context.Context) ([]models.PostType, error)
	// GetPostType returns ErrPostTypeNotFound when no type has the given name.
	GetPostType(ctx context.Context, name string) (*models.PostType, error)
	// AddPostType returns ErrPostTypeExists when the name is taken.
	AddPostType(ctx context.Context, name, bannerPath string) error
	// DeletePostType returns ErrPostTypeNotFound when no type has the given name.
	DeletePostType(ctx context.Context, name string) error
}

// PostLogger defines the interface for logging published posts.
type PostLogger interface {
	// LogPublishedPost logs information about a post published to the channel.
	LogPublishedPost(ctx context.Context, log models.PostLog) error
}

// AdminRepository stores the admins allowed to operate the bot.
type AdminRepository interface {
	AddAdmin(ctx context.Context, userID int64, username string) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
}

// StatsProvider aggregates the post log.
type StatsProvider interface {
	// PostStats returns per-category counts ordered by count, highest first.
	PostStats(ctx context.Context) ([]models.CategoryStats, error)
}

// Store is implemented by every storage backend.
type Store interface {
	PostTypeRepository
	PostLogger
	AdminRepository
	StatsProvider
	Close() error
}
