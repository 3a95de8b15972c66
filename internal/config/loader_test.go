package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var hotelEnv = []string{
	"HOTEL_HTTP_PORT",
	"HOTEL_STORAGE",
	"HOTEL_SQLITE_DSN",
	"HOTEL_ROOM_COUNT",
	"HOTEL_LOG_LEVEL",
	"HOTEL_LOG_FORMAT",
	"HOTEL_METRICS_ENABLED",
	"HOTEL_METRICS_PATH",
	"HOTEL_SHUTDOWN_TIMEOUT",
	"HOTEL_TIMEZONE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range hotelEnv {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader(t *testing.T) {
	t.Run("applies defaults when nothing is set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg != Default() {
			t.Fatalf("expected defaults, got %+v", cfg)
		}
		if cfg.Addr() != ":8080" {
			t.Fatalf("unexpected address %q", cfg.Addr())
		}
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		clearEnv(t)

		if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		clearEnv(t)

		path := filepath.Join(t.TempDir(), "hotel.toml")
		content := "http_port = 9000\nstorage = \"memory\"\nroom_count = 20\nshutdown_timeout = \"5s\"\ntimezone = \"UTC\"\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv("HOTEL_HTTP_PORT", "9090")
		t.Setenv("HOTEL_LOG_FORMAT", "TEXT")
		t.Setenv("HOTEL_METRICS_ENABLED", "false")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 || cfg.Storage != StorageMemory || cfg.RoomCount != 20 {
			t.Fatalf("unexpected config %+v", cfg)
		}
		if cfg.ShutdownTimeout.Duration != 5*time.Second || cfg.LogFormat != "text" || cfg.MetricsEnabled {
			t.Fatalf("unexpected config %+v", cfg)
		}
		loc, err := cfg.Location()
		if err != nil || loc != time.UTC {
			t.Fatalf("expected UTC location, got %v (%v)", loc, err)
		}
	})

	t.Run("reports every invalid value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HOTEL_HTTP_PORT", "eighty")
		t.Setenv("HOTEL_ROOM_COUNT", "101")
		t.Setenv("HOTEL_STORAGE", "postgres")
		t.Setenv("HOTEL_TIMEZONE", "Mars/Olympus")

		_, err := Load("")
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		expected := "config: invalid values: HOTEL_HTTP_PORT, storage, room_count, timezone"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		clearEnv(t)

		path := filepath.Join(t.TempDir(), "hotel.toml")
		if err := os.WriteFile(path, []byte("http_port = [\n"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("expected decode error")
		}
	})
}
