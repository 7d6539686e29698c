package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application config, constructed once at process
// start and passed into each component. No component reads ambient globals.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Cache    CacheConfig    `koanf:"cache"`
	Auth     AuthConfig     `koanf:"auth"`
	Prewarm  PrewarmConfig  `koanf:"prewarm"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	DB       int    `koanf:"db"`
	Password string `koanf:"password"`
}

type CacheConfig struct {
	TTLSeconds int    `koanf:"ttl_seconds"`
	KeyPrefix  string `koanf:"key_prefix"`
}

// AuthConfig carries the shared secret. It may be empty: the check happens per
// request, where a missing secret yields HTTP 500 rather than failing startup.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
}

type PrewarmConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency"`
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}

	if strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("redis.addr is required")
	}

	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be > 0")
	}
	if strings.TrimSpace(c.Cache.KeyPrefix) == "" {
		return fmt.Errorf("cache.key_prefix is required")
	}

	if c.Prewarm.Enabled && c.Prewarm.Concurrency <= 0 {
		return fmt.Errorf("prewarm.concurrency must be > 0 when prewarm is enabled")
	}

	return nil
}

// Load parses config from defaults, an optional yaml file and VENDAS_-prefixed
// environment variables, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8083,
		"server.host":             "0.0.0.0",
		"server.mode":             "release",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"redis.addr":              "localhost:6379",
		"redis.db":                0,
		"redis.password":          "",
		"cache.ttl_seconds":       300,
		"cache.key_prefix":        "vendas_realtime",
		"auth.secret_key":         "",
		"prewarm.enabled":         true,
		"prewarm.concurrency":     2,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("VENDAS_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "VENDAS_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
