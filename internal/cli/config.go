package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/marcusm117/mctk/pkg/cache"
)

// Config is the on-disk configuration, loaded from a TOML file.
type Config struct {
	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the verdict-cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", "mongo", or "none".
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// TTLHours bounds how long entries are retained. 0 means keep forever.
	TTLHours int `toml:"ttl_hours"`

	RedisURL string `toml:"redis_url"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// defaultConfig returns the configuration used when no config file exists.
func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend:         "file",
			TTLHours:        0,
			MongoDatabase:   appName,
			MongoCollection: "verdicts",
		},
	}
}

// defaultConfigPath returns the per-user config file location, e.g.
// ~/.config/mctk/config.toml on Linux.
func defaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// loadConfig reads the TOML config at path. An empty path means the default
// location; a missing file yields the defaults without error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ttl converts the configured retention into a duration for cache.Set.
func (c CacheConfig) ttl() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// cacheDir returns the directory for the file cache backend.
func cacheDir(cfg CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// openCache constructs the configured cache backend.
func openCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "file":
		dir, err := cacheDir(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case "redis":
		if cfg.RedisURL == "" {
			return nil, errors.New("cache backend redis requires redis_url")
		}
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, errors.New("cache backend mongo requires mongo_uri")
		}
		return cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case "none":
		return cache.NewNullCache(), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
