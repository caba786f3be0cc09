package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/file-share-bot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	TelegramBotToken string        `koanf:"telegram_bot_token"`
	AdminIDs         []int64       `koanf:"-"`
	SourceChannelID  int64         `koanf:"source_channel_id"`
	LogChannelID     int64         `koanf:"log_channel_id"`
	StorageDriver    StorageDriver `koanf:"storage_driver"`
	StoragePath      string        `koanf:"storage_path"`
	MongoDBURL       string        `koanf:"mongodb_url"`
	MongoDBDatabase  string        `koanf:"mongodb_database"`
	HTTPPort         string        `koanf:"http_port"`
	DeliveryDelay    time.Duration `koanf:"delivery_delay"`
	CleanupInterval  string        `koanf:"cleanup_interval"`
	APIID            int           `koanf:"api_id"`
	APIHash          string        `koanf:"api_hash"`
	FeedToken        string        `koanf:"feed_token"`
	LogLevel         string        `koanf:"log_level"`
	AppEnv           AppEnv        `koanf:"app_env"`
}

// IsAdmin reports whether userID is one of the configured administrators.
func (c *Config) IsAdmin(userID int64) bool {
	return lo.Contains(c.AdminIDs, userID)
}

// MTProtoEnabled reports whether the deletion watcher has credentials.
func (c *Config) MTProtoEnabled() bool {
	return c.APIID != 0 && c.APIHash != ""
}

func Load() (*Config, error) {
	// .env never overrides variables already present in the environment
	_ = godotenv.Load()

	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	defaults := map[string]any{
		"storage_driver":   "mongo",
		"storage_path":     "./data",
		"mongodb_database": "file_share_bot",
		"http_port":        "8080",
		"delivery_delay":   "1s",
		"cleanup_interval": "@every 30s",
		"log_level":        "info",
		"app_env":          "production",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	adminIDs, err := parseAdminIDs(k.Get("admin_ids"))
	if err != nil {
		return nil, err
	}
	cfg.AdminIDs = adminIDs

	driver, err := ParseStorageDriver(k.String("storage_driver"))
	if err != nil {
		return nil, oops.With("storage_driver", k.String("storage_driver")).Wrap(err)
	}
	cfg.StorageDriver = driver

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.TelegramBotToken == "":
		return errors.ErrMissingBotToken
	case len(c.AdminIDs) == 0:
		return errors.ErrMissingAdminIDs
	case c.SourceChannelID == 0:
		return errors.ErrMissingSourceChannel
	case c.StorageDriver == StorageDriverMongo && c.MongoDBURL == "":
		return errors.ErrMissingMongoURL
	case c.DeliveryDelay < 0:
		return oops.With("delivery_delay", c.DeliveryDelay).Errorf("delivery delay must not be negative")
	}
	return nil
}

func parseAdminIDs(raw any) ([]int64, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return ParseIDs(v)
	case []any:
		ids := make([]int64, 0, len(v))
		for _, item := range v {
			id, err := parseAdminID(item)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	default:
		id, err := parseAdminID(v)
		if err != nil {
			return nil, err
		}
		return []int64{id}, nil
	}
}

func parseAdminID(item any) (int64, error) {
	switch val := item.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, oops.With("admin_id", val).Wrapf(err, "invalid telegram id")
		}
		return id, nil
	default:
		return 0, oops.With("admin_id", item).Errorf("unsupported admin_ids format")
	}
}

// ParseIDs parses a comma-separated list of Telegram ids.
// Any malformed element is an error.
func ParseIDs(s string) ([]int64, error) {
	parts := lo.Filter(strings.Split(s, ","), func(part string, _ int) bool {
		return strings.TrimSpace(part) != ""
	})

	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, oops.With("id", part).Wrapf(err, "invalid telegram id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
