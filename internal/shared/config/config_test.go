package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	t.Setenv("TOKENS_DIR", "/etc/starsync/tokens")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Tokens.Dir != "/etc/starsync/tokens" {
		t.Errorf("Tokens.Dir = %q, want %q", cfg.Tokens.Dir, "/etc/starsync/tokens")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Starling.WindowDays != 7 {
		t.Errorf("Starling.WindowDays = %d, want 7", cfg.Starling.WindowDays)
	}
	if cfg.Starling.Window() != 7*24*time.Hour {
		t.Errorf("Starling.Window() = %v, want %v", cfg.Starling.Window(), 7*24*time.Hour)
	}
	if cfg.Mongo.Database != "starling_client" {
		t.Errorf("Mongo.Database = %q, want %q", cfg.Mongo.Database, "starling_client")
	}
}

func TestLoad_MissingTokensDir(t *testing.T) {
	t.Setenv("TOKENS_DIR", "")
	os.Unsetenv("TOKENS_DIR")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing TOKENS_DIR, got nil")
	}
}

func TestLoad_InvalidWindowDays(t *testing.T) {
	t.Setenv("TOKENS_DIR", "/tmp/tokens")
	t.Setenv("STARLING_WINDOW_DAYS", "zero")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for non-numeric STARLING_WINDOW_DAYS, got nil")
	}

	t.Setenv("STARLING_WINDOW_DAYS", "-3")
	if _, err := Load(); err == nil {
		t.Error("Load() expected error for negative STARLING_WINDOW_DAYS, got nil")
	}
}

func TestLoad_DeviceTokens(t *testing.T) {
	t.Setenv("TOKENS_DIR", "/tmp/tokens")
	t.Setenv("FCM_DEVICE_TOKENS", "dev-1, dev-2 ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(cfg.Firebase.DeviceTokens) != 2 {
		t.Fatalf("Firebase.DeviceTokens = %v, want 2 entries", cfg.Firebase.DeviceTokens)
	}
	if cfg.Firebase.DeviceTokens[1] != "dev-2" {
		t.Errorf("DeviceTokens[1] = %q, want %q", cfg.Firebase.DeviceTokens[1], "dev-2")
	}
}
