package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"gopkg.in/yaml.v2"
)

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type FeedConfig struct {
	URI string `yaml:"uri"`
	// Timeout ограничивает загрузку фида по HTTP; 0 означает без ограничения
	Timeout time.Duration `yaml:"timeout"`
}

type SyncConfig struct {
	BatchSize int `yaml:"batch_size"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Feed     FeedConfig     `yaml:"feed"`
	Sync     SyncConfig     `yaml:"sync"`
	Log      LogConfig      `yaml:"log"`
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:      "postgres://localhost:5432/xml-parser?sslmode=disable",
			User:     "postgres",
			Password: "password",
		},
		Feed: FeedConfig{
			URI: "https://expro.ru/bitrix/catalog_export/export_Sai.xml",
		},
		Sync: SyncConfig{BatchSize: 500},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

// GetConnectionString строит DSN для lib/pq: URL плюс user/password
func (db *DatabaseConfig) GetConnectionString() (string, error) {
	dsn, err := pq.ParseURL(db.URL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if db.User != "" {
		dsn += " user=" + quoteValue(db.User)
	}
	if db.Password != "" {
		dsn += " password=" + quoteValue(db.Password)
	}
	return strings.TrimSpace(dsn), nil
}

func quoteValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// LoadConfig читает .env, YAML-файл (если есть) и переменные окружения.
// Переменные окружения имеют приоритет над файлом.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.URL, "DB_URL")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Feed.URI, "XML_URI")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("FEED_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("FEED_TIMEOUT: %w", err)
		}
		c.Feed.Timeout = d
	}
	if v := os.Getenv("SYNC_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SYNC_BATCH_SIZE: %w", err)
		}
		c.Sync.BatchSize = n
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Feed.URI) == "" {
		return errors.New("config: feed uri is empty")
	}
	if c.Feed.Timeout < 0 {
		return fmt.Errorf("config: feed timeout must not be negative, got %s", c.Feed.Timeout)
	}
	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("config: batch size must be positive, got %d", c.Sync.BatchSize)
	}
	if _, err := c.Database.GetConnectionString(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func GetDefaultConfigPath() string {
	dir, _ := os.Getwd()
	return filepath.Join(dir, "config.yaml")
}
