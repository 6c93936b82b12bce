package config

import (
	"os"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

var envKeys = []string{
	"APP_ENV", "DEBUG", "VERSION", "LOG_LEVEL", "TELEGRAM_BOT_TOKEN", "TARGET_CHANNEL_ID",
	"ADMIN_USER_ID", "SENTRY_DSN", "BOT_LANGUAGE", "DB_DRIVER", "SQLITE_PATH", "POSTGRES_URL",
	"MONGODB_URI", "MONGODB_DATABASE", "BANNERS_DIR", "REDIS_URL", "SESSION_TTL", "RATE_LIMIT",
}

// clearEnv unsets every configuration variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		if val, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, val) })
		}
	}
}

func runWithArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	app := cli.NewApp()
	app.Flags = RegisterFlags(nil)

	var (
		cfg    *Config
		cfgErr error
	)
	app.Action = func(c *cli.Context) error {
		cfg, cfgErr = FromContext(c)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"filmnights-bot"}, args...)))
	return cfg, cfgErr
}

func TestFromContext_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := runWithArgs(t, "--bot-token", "123:abc")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "dev", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Zero(t, cfg.ChannelID)
	assert.Empty(t, cfg.AdminIDs)
	assert.Equal(t, "fa", cfg.DefaultLanguage)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "data/database/bot.db", cfg.SQLitePath)
	assert.Equal(t, "filmnights", cfg.MongoDBDatabase)
	assert.Equal(t, "data/banners", cfg.BannersDir)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 20, cfg.RateLimit)
}

func TestFromContext_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("TARGET_CHANNEL_ID", "-1001234567890")
	t.Setenv("ADMIN_USER_ID", "11, 22,,33")
	t.Setenv("DB_DRIVER", "MONGO")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("RATE_LIMIT", "5")

	cfg, err := runWithArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.BotToken)
	assert.Equal(t, int64(-1001234567890), cfg.ChannelID)
	assert.Equal(t, []int64{11, 22, 33}, cfg.AdminIDs)
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 5, cfg.RateLimit)
}

func TestFromContext_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "missing token", args: nil, is: ErrMissingToken},
		{name: "bad admin id", args: []string{"--bot-token", "t", "--admin-ids", "12,abc"}},
		{name: "postgres without url", args: []string{"--bot-token", "t", "--db-driver", "postgres"}},
		{name: "unknown driver", args: []string{"--bot-token", "t", "--db-driver", "oracle"}},
		{name: "zero rate limit", args: []string{"--bot-token", "t", "--rate-limit", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := runWithArgs(t, tt.args...)
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestParseAdminIDs(t *testing.T) {
	ids, err := ParseAdminIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = ParseAdminIDs(" 1 ,2")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	_, err = ParseAdminIDs("1;2")
	assert.Error(t, err)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, log.WarnLevel, (&Config{LogLevel: "warn"}).Level())
	assert.Equal(t, log.InfoLevel, (&Config{LogLevel: "loud"}).Level())
	assert.Equal(t, log.DebugLevel, (&Config{LogLevel: "error", Debug: true}).Level())
}
