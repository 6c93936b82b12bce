package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	AppEnvFlag          = "app-env"
	DebugFlag           = "debug"
	VersionFlag         = "version-tag"
	LogLevelFlag        = "log-level"
	BotTokenFlag        = "bot-token"
	ChannelIDFlag       = "channel-id"
	AdminIDsFlag        = "admin-ids"
	SentryDSNFlag       = "sentry-dsn"
	LanguageFlag        = "language"
	DBDriverFlag        = "db-driver"
	SQLitePathFlag      = "sqlite-path"
	PostgresURLFlag     = "postgres-url"
	MongoDBURIFlag      = "mongodb-uri"
	MongoDBDatabaseFlag = "mongodb-database"
	BannersDirFlag      = "banners-dir"
	RedisURLFlag        = "redis-url"
	SessionTTLFlag      = "session-ttl"
	RateLimitFlag       = "rate-limit"
)

// ErrMissingToken is returned when no bot token is configured.
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is required")

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	LogLevel        string
	BotToken        string
	ChannelID       int64
	AdminIDs        []int64
	SentryDSN       string
	DefaultLanguage string
	DBDriver        string
	SQLitePath      string
	PostgresURL     string
	MongoDBURI      string
	MongoDBDatabase string
	BannersDir      string
	RedisURL        string
	SessionTTL      time.Duration
	RateLimit       int
}

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   AppEnvFlag,
			Usage:  "application environment",
			Value:  "development",
			EnvVar: "APP_ENV",
		},
		cli.BoolFlag{
			Name:   DebugFlag,
			Usage:  "enable debug logging",
			EnvVar: "DEBUG",
		},
		cli.StringFlag{
			Name:   VersionFlag,
			Usage:  "release version",
			Value:  "dev",
			EnvVar: "VERSION",
		},
		cli.StringFlag{
			Name:   LogLevelFlag,
			Usage:  "log level (debug, info, warn, error)",
			Value:  "info",
			EnvVar: "LOG_LEVEL",
		},
		cli.StringFlag{
			Name:   BotTokenFlag,
			Usage:  "telegram bot token",
			EnvVar: "TELEGRAM_BOT_TOKEN",
		},
		cli.Int64Flag{
			Name:   ChannelIDFlag,
			Usage:  "target channel id for publishing",
			EnvVar: "TARGET_CHANNEL_ID",
		},
		cli.StringFlag{
			Name:   AdminIDsFlag,
			Usage:  "comma-separated admin user ids",
			EnvVar: "ADMIN_USER_ID",
		},
		cli.StringFlag{
			Name:   SentryDSNFlag,
			Usage:  "sentry dsn",
			EnvVar: "SENTRY_DSN",
		},
		cli.StringFlag{
			Name:   LanguageFlag,
			Usage:  "default bot language",
			Value:  "fa",
			EnvVar: "BOT_LANGUAGE",
		},
		cli.StringFlag{
			Name:   DBDriverFlag,
			Usage:  "database driver (sqlite, postgres, mongo)",
			Value:  "sqlite",
			EnvVar: "DB_DRIVER",
		},
		cli.StringFlag{
			Name:   SQLitePathFlag,
			Usage:  "sqlite database file",
			Value:  "data/database/bot.db",
			EnvVar: "SQLITE_PATH",
		},
		cli.StringFlag{
			Name:   PostgresURLFlag,
			Usage:  "postgres connection url",
			EnvVar: "POSTGRES_URL",
		},
		cli.StringFlag{
			Name:   MongoDBURIFlag,
			Usage:  "mongodb connection uri",
			EnvVar: "MONGODB_URI",
		},
		cli.StringFlag{
			Name:   MongoDBDatabaseFlag,
			Usage:  "mongodb database name",
			Value:  "filmnights",
			EnvVar: "MONGODB_DATABASE",
		},
		cli.StringFlag{
			Name:   BannersDirFlag,
			Usage:  "directory with post type banners",
			Value:  "data/banners",
			EnvVar: "BANNERS_DIR",
		},
		cli.StringFlag{
			Name:   RedisURLFlag,
			Usage:  "redis url for conversation sessions (in-memory when empty)",
			EnvVar: "REDIS_URL",
		},
		cli.DurationFlag{
			Name:   SessionTTLFlag,
			Usage:  "conversation session expiry",
			Value:  30 * time.Minute,
			EnvVar: "SESSION_TTL",
		},
		cli.IntFlag{
			Name:   RateLimitFlag,
			Usage:  "processed updates per second",
			Value:  20,
			EnvVar: "RATE_LIMIT",
		},
	)
}

// FromContext builds the configuration from parsed flags and validates it.
func FromContext(c *cli.Context) (*Config, error) {
	adminIDs, err := ParseAdminIDs(c.String(AdminIDsFlag))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		AppEnv:          c.String(AppEnvFlag),
		Debug:           c.Bool(DebugFlag),
		Version:         c.String(VersionFlag),
		LogLevel:        c.String(LogLevelFlag),
		BotToken:        c.String(BotTokenFlag),
		ChannelID:       c.Int64(ChannelIDFlag),
		AdminIDs:        adminIDs,
		SentryDSN:       c.String(SentryDSNFlag),
		DefaultLanguage: c.String(LanguageFlag),
		DBDriver:        strings.ToLower(c.String(DBDriverFlag)),
		SQLitePath:      c.String(SQLitePathFlag),
		PostgresURL:     c.String(PostgresURLFlag),
		MongoDBURI:      c.String(MongoDBURIFlag),
		MongoDBDatabase: c.String(MongoDBDatabaseFlag),
		BannersDir:      c.String(BannersDirFlag),
		RedisURL:        c.String(RedisURLFlag),
		SessionTTL:      c.Duration(SessionTTLFlag),
		RateLimit:       c.Int(RateLimitFlag),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values and logs warnings for optional ones.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return ErrMissingToken
	}
	switch c.DBDriver {
	case "sqlite", "":
	case "postgres":
		if c.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required for the postgres driver")
		}
	case "mongo":
		if c.MongoDBURI == "" {
			return errors.New("MONGODB_URI is required for the mongo driver")
		}
		if c.MongoDBDatabase == "" {
			return errors.New("MONGODB_DATABASE is required for the mongo driver")
		}
	default:
		return errors.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimit <= 0 {
		return errors.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.SessionTTL <= 0 {
		return errors.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.ChannelID == 0 {
		log.Warn("TARGET_CHANNEL_ID is not set, publishing to the channel will fail")
	}
	if len(c.AdminIDs) == 0 {
		log.Warn("ADMIN_USER_ID is not set, only admins stored in the database can use the bot")
	}
	if c.SentryDSN == "" {
		log.Warn("SENTRY_DSN is not set, error tracking disabled")
	}
	return nil
}

// ParseAdminIDs parses a comma-separated list of user ids. Blank entries are skipped.
func ParseAdminIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid ADMIN_USER_ID entry %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Level returns the logrus level for the configured LOG_LEVEL. Debug mode forces debug.
func (c *Config) Level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
