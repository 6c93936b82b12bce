package database

import (
	"context"
	"time"

	"filmnights-bot/internal/database/models"

	"github.com/go-pg/migrations/v8"
	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Postgres is a Store backed by PostgreSQL through the go-pg ORM.
type Postgres struct {
	db *pg.DB
}

func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("postgres url is required")
	}
	opt, err := pg.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse postgres url")
	}
	db := pg.Connect(opt)
	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func migrate(db *pg.DB) error {
	col := migrations.NewCollection(pgMigrations...)
	col.DisableSQLAutodiscover(true)
	if _, _, err := col.Run(db, "init"); err != nil {
		return errors.Wrap(err, "failed to init DB migrations")
	}
	oldVersion, newVersion, err := col.Run(db, "up")
	if err != nil {
		return errors.Wrapf(err, "failed to perform migration from %v to %v", oldVersion, newVersion)
	}
	if newVersion != oldVersion {
		log.Infof("DB migrated from version %d to %d", oldVersion, newVersion)
	} else {
		log.Infof("DB migration version is %d", oldVersion)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) ListPostTypes(ctx context.Context) ([]models.PostType, error) {
	types := []models.PostType{}
	err := p.db.ModelContext(ctx, &types).Order("name ASC").Select()
	if err != nil {
		return nil, errors.Wrap(err, "failed to select post types")
	}
	return types, nil
}

func (p *Postgres) GetPostType(ctx context.Context, name string) (*models.PostType, error) {
	pt := new(models.PostType)
	err := p.db.ModelContext(ctx, pt).Where("name = ?", name).Limit(1).Select()
	if errors.Is(err, pg.ErrNoRows) {
		return nil, ErrPostTypeNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to select post type %q", name)
	}
	return pt, nil
}

func (p *Postgres) AddPostType(ctx context.Context, name, bannerPath string) error {
	pt := &models.PostType{
		Name:       name,
		BannerPath: bannerPath,
		CreatedAt:  time.Now(),
	}
	_, err := p.db.ModelContext(ctx, pt).Insert()
	if isIntegrityViolation(err) {
		return ErrPostTypeExists
	}
	return errors.Wrapf(err, "failed to insert post type %q", name)
}

func (p *Postgres) DeletePostType(ctx context.Context, name string) error {
	res, err := p.db.ModelContext(ctx, (*models.PostType)(nil)).
		Where("name = ?", name).
		Delete()
	if err != nil {
		return errors.Wrapf(err, "failed to delete post type %q", name)
	}
	if res.RowsAffected() == 0 {
		return ErrPostTypeNotFound
	}
	return nil
}

func (p *Postgres) LogPublishedPost(ctx context.Context, entry models.PostLog) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	_, err := p.db.ModelContext(ctx, &entry).Insert()
	return errors.Wrap(err, "failed to insert post log")
}

func (p *Postgres) AddAdmin(ctx context.Context, userID int64, username string) error {
	a := &models.Admin{
		UserID:   userID,
		Username: username,
		AddedAt:  time.Now(),
	}
	_, err := p.db.ModelContext(ctx, a).
		OnConflict("(user_id) DO UPDATE").
		Set("username = COALESCE(NULLIF(EXCLUDED.username, ''), admin.username)").
		Insert()
	return errors.Wrapf(err, "failed to upsert admin %d", userID)
}

func (p *Postgres) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	exists, err := p.db.ModelContext(ctx, (*models.Admin)(nil)).
		Where("user_id = ?", userID).
		Exists()
	if err != nil {
		return false, errors.Wrap(err, "failed to check admin")
	}
	return exists, nil
}

func (p *Postgres) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	admins := []models.Admin{}
	if err := p.db.ModelContext(ctx, &admins).Order("user_id ASC").Select(); err != nil {
		return nil, errors.Wrap(err, "failed to select admins")
	}
	return admins, nil
}

func (p *Postgres) PostStats(ctx context.Context) ([]models.CategoryStats, error) {
	stats := []models.CategoryStats{}
	_, err := p.db.QueryContext(ctx, &stats, `
		SELECT category, count(*) AS posts, max(sent_at) AS last_sent_at
		FROM post_logs
		GROUP BY category
		ORDER BY posts DESC, category`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select post stats")
	}
	return stats, nil
}

func isIntegrityViolation(err error) bool {
	var pgErr pg.Error
	return errors.As(err, &pgErr) && pgErr.IntegrityViolation()
}
