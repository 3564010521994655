// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"

	StorageLocal = "local"
)

var (
	ErrInvalidStoreType   = errors.New("STORE_TYPE must be postgres, sqlite or memory")
	ErrInvalidStorageType = errors.New("STORAGE_TYPE must be local")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres store")
)

type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	StoreType      string
	SQLitePath     string
	StorageType    string
	UploadDir      string
	BaseURL        string
	PublicOrigin   string
	AllowedOrigins []string
	LogLevel       string
	LogJSON        bool
	ThemesDir      string
	MaxUploadBytes int64
}

// Load reads the environment. Outside production a .env file in the working
// directory is loaded first; variables already set win over it.
func Load() (*Config, error) {
	// Production injects env vars through infra (K8s secrets, etc.)
	if os.Getenv("APP_ENV") != "production" {
		godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8083")
	v.SetDefault("SQLITE_PATH", "./showcase.db")
	v.SetDefault("STORAGE_TYPE", StorageLocal)
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("PUBLIC_ORIGIN", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("MAX_UPLOAD_BYTES", 5*1024*1024)

	cfg := &Config{
		AppEnv:         v.GetString("APP_ENV"),
		Port:           v.GetString("PORT"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		StoreType:      strings.ToLower(v.GetString("STORE_TYPE")),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		StorageType:    strings.ToLower(v.GetString("STORAGE_TYPE")),
		UploadDir:      v.GetString("UPLOAD_DIR"),
		BaseURL:        v.GetString("BASE_URL"),
		PublicOrigin:   v.GetString("PUBLIC_ORIGIN"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogJSON:        v.GetBool("LOG_JSON"),
		ThemesDir:      v.GetString("THEMES_DIR"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
	}

	if cfg.StoreType == "" {
		cfg.StoreType = StoreSQLite
		if cfg.DatabaseURL != "" {
			cfg.StoreType = StorePostgres
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.PublicOrigin = strings.TrimRight(cfg.PublicOrigin, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreType {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("%w, got %q", ErrInvalidStoreType, c.StoreType)
	}
	if c.StorageType != StorageLocal {
		return fmt.Errorf("%w, got %q", ErrInvalidStorageType, c.StorageType)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// NewLogger builds the root logger from LOG_LEVEL and LOG_JSON.
func (c *Config) NewLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "showcase",
		Level:      hclog.LevelFromString(c.LogLevel),
		JSONFormat: c.LogJSON,
		Output:     os.Stderr,
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
