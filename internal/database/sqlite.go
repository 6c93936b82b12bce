package database

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"time"

	"filmnights-bot/internal/database/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

//go:embed schema.sql
var sqliteSchema string

// SQLite is a Store backed by a local sqlite3 database file.
// Timestamps are stored as unix seconds.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, filePath string) (*SQLite, error) {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating sqlite3 directory")
		}
	}

	db, err := sql.Open("sqlite3", filePath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite3 database")
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	client := &SQLite{db: db}
	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "initializing sqlite3 database")
	}
	return client, nil
}

func (c *SQLite) Close() error {
	return c.db.Close()
}

func (c *SQLite) ListPostTypes(ctx context.Context) ([]models.PostType, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, name, banner_path, created_at FROM post_types ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "selecting post types")
	}
	defer rows.Close()

	types := []models.PostType{}
	for rows.Next() {
		var (
			pt      models.PostType
			created int64
		)
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.BannerPath, &created); err != nil {
			return nil, errors.Wrap(err, "scanning post type")
		}
		pt.CreatedAt = time.Unix(created, 0)
		types = append(types, pt)
	}
	return types, errors.Wrap(rows.Err(), "iterating post types")
}

func (c *SQLite) GetPostType(ctx context.Context, name string) (*models.PostType, error) {
	var (
		pt      models.PostType
		created int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT id, name, banner_path, created_at FROM post_types WHERE name = ?", name,
	).Scan(&pt.ID, &pt.Name, &pt.BannerPath, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostTypeNotFound
		}
		return nil, errors.Wrapf(err, "selecting post type %q", name)
	}
	pt.CreatedAt = time.Unix(created, 0)
	return &pt, nil
}

func (c *SQLite) AddPostType(ctx context.Context, name, bannerPath string) error {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO post_types (name, banner_path, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(name) DO NOTHING`,
		name, bannerPath, time.Now().Unix(),
	)
	if err != nil {
		return errors.Wrapf(err, "inserting post type %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "getting affected rows")
	}
	if n == 0 {
		return ErrPostTypeExists
	}
	return nil
}

func (c *SQLite) DeletePostType(ctx context.Context, name string) error {
	res, err := c.db.ExecContext(ctx, "DELETE FROM post_types WHERE name = ?", name)
	if err != nil {
		return errors.Wrapf(err, "deleting post type %q", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "getting affected rows")
	}
	if n == 0 {
		return ErrPostTypeNotFound
	}
	return nil
}

func (c *SQLite) LogPublishedPost(ctx context.Context, entry models.PostLog) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO post_logs (
			category, content, sender_id, sender_username, media_ref, sent_at
		) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Category, entry.Content, entry.SenderID, entry.SenderUsername, entry.MediaRef, entry.SentAt.Unix(),
	)
	return errors.Wrap(err, "inserting post log")
}

func (c *SQLite) AddAdmin(ctx context.Context, userID int64, username string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO admins (user_id, username, added_at)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id) DO UPDATE
				SET username = CASE WHEN excluded.username = '' THEN admins.username ELSE excluded.username END`,
		userID, username, time.Now().Unix(),
	)
	return errors.Wrapf(err, "upserting admin %d", userID)
}

func (c *SQLite) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx, "SELECT 1 FROM admins WHERE user_id = ?", userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.Wrapf(err, "selecting admin %d", userID)
	}
	return true, nil
}

func (c *SQLite) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT user_id, username, added_at FROM admins ORDER BY user_id")
	if err != nil {
		return nil, errors.Wrap(err, "selecting admins")
	}
	defer rows.Close()

	admins := []models.Admin{}
	for rows.Next() {
		var (
			a     models.Admin
			added int64
		)
		if err := rows.Scan(&a.UserID, &a.Username, &added); err != nil {
			return nil, errors.Wrap(err, "scanning admin")
		}
		a.AddedAt = time.Unix(added, 0)
		admins = append(admins, a)
	}
	return admins, errors.Wrap(rows.Err(), "iterating admins")
}

func (c *SQLite) PostStats(ctx context.Context) ([]models.CategoryStats, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT category, COUNT(*) AS posts, MAX(sent_at) AS last_sent_at
			FROM post_logs
			GROUP BY category
			ORDER BY posts DESC, category`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting post stats")
	}
	defer rows.Close()

	stats := []models.CategoryStats{}
	for rows.Next() {
		var (
			s    models.CategoryStats
			last int64
		)
		if err := rows.Scan(&s.Category, &s.Posts, &last); err != nil {
			return nil, errors.Wrap(err, "scanning post stats")
		}
		s.LastSentAt = time.Unix(last, 0)
		stats = append(stats, s)
	}
	return stats, errors.Wrap(rows.Err(), "iterating post stats")
}
