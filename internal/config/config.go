// Package config loads the adapter configuration from the environment, with
// optional .env file support for local development.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/canvas2notion/notion-sync/pkg/client"
	"github.com/canvas2notion/notion-sync/pkg/reconcile"
)

// Properties configures the Notion property mapping. An empty property name
// drops that field from created pages.
type Properties struct {
	Name      string `env:"PROPERTY_NAME" env-default:"Name"`
	Category  string `env:"PROPERTY_CATEGORY" env-default:"Category"`
	Course    string `env:"PROPERTY_COURSE" env-default:"Course"`
	URL       string `env:"PROPERTY_URL" env-default:"URL"`
	Status    string `env:"PROPERTY_STATUS" env-default:"Status"`
	Available string `env:"PROPERTY_AVAILABLE" env-default:"Reminder"`
	Due       string `env:"PROPERTY_DUE" env-default:"Due"`
	Span      string `env:"PROPERTY_SPAN" env-default:"Date Span"`

	CategoryValue string `env:"VALUE_CATEGORY" env-default:"Canvas"`
	StatusValue   string `env:"VALUE_STATUS" env-default:"To Do"`
}

// Config is the full adapter configuration.
type Config struct {
	NotionKey        string `env:"NOTION_KEY"`
	NotionDatabaseID string `env:"NOTION_DATABASE_ID"`
	NotionBaseURL    string `env:"NOTION_BASE_URL"`

	RedisURL      string `env:"REDIS_URL" env-default:"localhost:6379"`
	StoragePrefix string `env:"STORAGE_PREFIX" env-default:"notion-sync"`

	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogPretty bool   `env:"LOG_PRETTY" env-default:"false"`

	Port         string        `env:"PORT" env-default:"8080"`
	SyncInterval time.Duration `env:"SYNC_INTERVAL" env-default:"15m"`

	TimeZone string `env:"TIMEZONE" env-default:"Pacific/Auckland"`

	Properties Properties
}

// Load reads the configuration from a .env file (if present) and the
// environment. Environment variables win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	return &cfg, nil
}

// ReconcileConfig maps the environment configuration onto a reconciler
// configuration.
func (c *Config) ReconcileConfig() reconcile.Config {
	return reconcile.Config{
		Client: client.Config{
			Auth:    c.NotionKey,
			BaseURL: c.NotionBaseURL,
		},
		DatabaseID: c.NotionDatabaseID,
		Properties: reconcile.Properties{
			TimeZone: c.TimeZone,
			Names: reconcile.PropertyNames{
				Name:      c.Properties.Name,
				Category:  c.Properties.Category,
				Course:    c.Properties.Course,
				URL:       c.Properties.URL,
				Status:    c.Properties.Status,
				Available: c.Properties.Available,
				Due:       c.Properties.Due,
				Span:      c.Properties.Span,
			},
			Values: reconcile.PropertyValues{
				CategoryCanvas: c.Properties.CategoryValue,
				StatusToDo:     c.Properties.StatusValue,
			},
		},
	}
}
