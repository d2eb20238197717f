package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// MemoryDatabase as DATABASE_URL selects the in-process store.
const MemoryDatabase = "memory"

type Config struct {
	Environment string         `koanf:"environment"`
	Server      ServerConfig   `koanf:"server"`
	Database    DatabaseConfig `koanf:"database"`
	JWT         JWTConfig      `koanf:"jwt"`
	Redis       RedisConfig    `koanf:"redis"`
	Receipts    ReceiptsConfig `koanf:"receipts"`
	CORS        CORSConfig     `koanf:"cors"`
	Log         LogConfig      `koanf:"log"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL          string `koanf:"url"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
	Issuer string        `koanf:"issuer"`

	// Ephemeral is set when Secret was generated at startup.
	Ephemeral bool `koanf:"-"`
}

type RedisConfig struct {
	URL string `koanf:"url"`
}

type ReceiptsConfig struct {
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

var defaults = map[string]any{
	"environment": "development",

	"server.port":             5000,
	"server.shutdown_timeout": "10s",

	"database.max_open_conns": 10,
	"database.max_idle_conns": 5,
	"database.auto_migrate":   true,

	"jwt.ttl":    "1h",
	"jwt.issuer": "salon-pos",

	"receipts.region": "us-east-1",

	"cors.allowed_origins": []string{},

	"log.level":  "info",
	"log.format": "json",
}

var envKeyMap = map[string]string{
	"ENVIRONMENT":           "environment",
	"PORT":                  "server.port",
	"SHUTDOWN_TIMEOUT":      "server.shutdown_timeout",
	"DATABASE_URL":          "database.url",
	"DB_MAX_OPEN_CONNS":     "database.max_open_conns",
	"DB_MAX_IDLE_CONNS":     "database.max_idle_conns",
	"DB_AUTO_MIGRATE":       "database.auto_migrate",
	"JWT_SECRET":            "jwt.secret",
	"JWT_TTL":               "jwt.ttl",
	"JWT_ISSUER":            "jwt.issuer",
	"REDIS_URL":             "redis.url",
	"RECEIPTS_BUCKET":       "receipts.bucket",
	"RECEIPTS_REGION":       "receipts.region",
	"RECEIPTS_ENDPOINT":     "receipts.endpoint",
	"AWS_ACCESS_KEY_ID":     "receipts.access_key",
	"AWS_SECRET_ACCESS_KEY": "receipts.secret_key",
	"CORS_ALLOWED_ORIGINS":  "cors.allowed_origins",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
}

func envKeyReplacer(s string) string {
	return envKeyMap[s]
}

// Load reads an optional .env file, then the process environment, over the
// defaults above.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load()
}

func load() (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORS.AllowedOrigins = splitList(cfg.CORS.AllowedOrigins)

	if cfg.JWT.Secret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		secret, err := randomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.JWT.Secret = secret
		cfg.JWT.Ephemeral = true
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required (use %q for the in-process store)", MemoryDatabase)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Server.Port)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			return errors.New("CORS wildcard '*' cannot be used with credentials")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) UsesMemoryStore() bool {
	return c.Database.URL == MemoryDatabase
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
