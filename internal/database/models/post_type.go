package models

import "time"

// PostType is a named category of channel posts, optionally backed by a banner image.
type PostType struct {
	tableName struct{} `pg:"post_types"`

	ID         int64     `bson:"-" pg:"id,pk"`
	Name       string    `bson:"name" pg:"name"`
	BannerPath string    `bson:"banner_path,omitempty" pg:"banner_path"`
	CreatedAt  time.Time `bson:"created_at" pg:"created_at"`
}

// Admin is a user allowed to operate the bot.
type Admin struct {
	tableName struct{} `pg:"admins"`

	UserID   int64     `bson:"user_id" pg:"user_id,pk"`
	Username string    `bson:"username,omitempty" pg:"username"`
	AddedAt  time.Time `bson:"added_at" pg:"added_at"`
}
