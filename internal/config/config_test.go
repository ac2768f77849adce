package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RedisURL != "localhost:6379" {
		t.Errorf("Expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.TimeZone != "Pacific/Auckland" {
		t.Errorf("Expected default time zone, got %s", cfg.TimeZone)
	}
	if cfg.SyncInterval != 15*time.Minute {
		t.Errorf("Expected default sync interval, got %s", cfg.SyncInterval)
	}
	if cfg.Properties.Available != "Reminder" {
		t.Errorf("Expected default available property, got %s", cfg.Properties.Available)
	}
	if cfg.Properties.Span != "Date Span" {
		t.Errorf("Expected default span property, got %s", cfg.Properties.Span)
	}
	if cfg.Properties.StatusValue != "To Do" {
		t.Errorf("Expected default status value, got %s", cfg.Properties.StatusValue)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NOTION_KEY", "secret_test")
	t.Setenv("NOTION_DATABASE_ID", "db-123")
	t.Setenv("PROPERTY_CATEGORY", "")
	t.Setenv("SYNC_INTERVAL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.NotionKey != "secret_test" {
		t.Errorf("Expected notion key from env, got %s", cfg.NotionKey)
	}
	if cfg.Properties.Category != "" {
		t.Errorf("Expected empty category property, got %s", cfg.Properties.Category)
	}
	if cfg.SyncInterval != time.Hour {
		t.Errorf("Expected 1h sync interval, got %s", cfg.SyncInterval)
	}
}

func TestReconcileConfig(t *testing.T) {
	t.Setenv("NOTION_KEY", "secret_test")
	t.Setenv("NOTION_DATABASE_ID", "db-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	rc := cfg.ReconcileConfig()
	if rc.Client.Auth != "secret_test" {
		t.Errorf("Expected credential mapped onto client config, got %s", rc.Client.Auth)
	}
	if rc.DatabaseID != "db-123" {
		t.Errorf("Expected database id mapped, got %s", rc.DatabaseID)
	}
	if rc.Properties.Names.Name != "Name" {
		t.Errorf("Expected default name property mapped, got %s", rc.Properties.Names.Name)
	}
	if rc.Properties.Values.CategoryCanvas != "Canvas" {
		t.Errorf("Expected default category value mapped, got %s", rc.Properties.Values.CategoryCanvas)
	}
}
