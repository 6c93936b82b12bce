package models

import "time"

// PostLog stores information about a post published to the channel.
type PostLog struct {
	tableName struct{} `pg:"post_logs"`

	ID             int64     `bson:"-" pg:"id,pk"`
	Category       string    `bson:"category" pg:"category"`
	Content        string    `bson:"content" pg:"content"`
	SenderID       int64     `bson:"sender_id" pg:"sender_id"`
	SenderUsername string    `bson:"sender_username,omitempty" pg:"sender_username"`
	MediaRef       string    `bson:"media_ref,omitempty" pg:"media_ref"` // banner path or telegram file id
	SentAt         time.Time `bson:"sent_at" pg:"sent_at"`
}

// CategoryStats aggregates the post log of one category.
type CategoryStats struct {
	Category   string    `bson:"_id" pg:"category"`
	Posts      int64     `bson:"posts" pg:"posts"`
	LastSentAt time.Time `bson:"last_sent_at" pg:"last_sent_at"`
}
