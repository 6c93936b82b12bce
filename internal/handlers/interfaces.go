package handlers

import (
	"context"

	"filmnights-bot/internal/publisher"
)

// BannerStore is the banner file storage used by the post and admin flows.
type BannerStore interface {
	Path(name string) string
	Exists(name string) bool
	Read(name string) ([]byte, error)
	Write(name string, data []byte) (string, error)
	Delete(name string) error
}

// PostPublisher delivers a post to the channel and records it.
type PostPublisher interface {
	Publish(ctx context.Context, post publisher.Post) bool
}
