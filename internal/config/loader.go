package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config captures the settings of the hotel service. Values come from defaults, then an
// optional TOML file, then HOTEL_* environment variables.
type Config struct {
	HTTPPort        int      `toml:"http_port"`
	Storage         string   `toml:"storage"`
	SQLiteDSN       string   `toml:"sqlite_dsn"`
	RoomCount       int      `toml:"room_count"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"`
	MetricsEnabled  bool     `toml:"metrics_enabled"`
	MetricsPath     string   `toml:"metrics_path"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	Timezone        string   `toml:"timezone"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPPort:        8080,
		Storage:         StorageSQLite,
		SQLiteDSN:       "data/hotel.db",
		RoomCount:       100,
		LogLevel:        "info",
		LogFormat:       "json",
		MetricsEnabled:  true,
		MetricsPath:     "/metrics",
		ShutdownTimeout: Duration{15 * time.Second},
		Timezone:        "Local",
	}
}

// Load builds the configuration. path names an optional TOML file; an empty path or a missing
// file is not an error. Every invalid value is reported in a single error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := env("HOTEL_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil {
			invalid = append(invalid, "HOTEL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}
	if storage := env("HOTEL_STORAGE"); storage != "" {
		cfg.Storage = strings.ToLower(storage)
	}
	if dsn := env("HOTEL_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}
	if countValue := env("HOTEL_ROOM_COUNT"); countValue != "" {
		count, err := strconv.Atoi(countValue)
		if err != nil {
			invalid = append(invalid, "HOTEL_ROOM_COUNT")
		} else {
			cfg.RoomCount = count
		}
	}
	if level := env("HOTEL_LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if format := env("HOTEL_LOG_FORMAT"); format != "" {
		cfg.LogFormat = strings.ToLower(format)
	}
	if enabledValue := env("HOTEL_METRICS_ENABLED"); enabledValue != "" {
		enabled, err := strconv.ParseBool(enabledValue)
		if err != nil {
			invalid = append(invalid, "HOTEL_METRICS_ENABLED")
		} else {
			cfg.MetricsEnabled = enabled
		}
	}
	if metricsPath := env("HOTEL_METRICS_PATH"); metricsPath != "" {
		cfg.MetricsPath = metricsPath
	}
	if timeoutValue := env("HOTEL_SHUTDOWN_TIMEOUT"); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil {
			invalid = append(invalid, "HOTEL_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = Duration{timeout}
		}
	}
	if tz := env("HOTEL_TIMEZONE"); tz != "" {
		cfg.Timezone = tz
	}

	invalid = append(invalid, cfg.validate()...)
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("config: invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.HTTPPort)
}

func (c Config) validate() []string {
	var invalid []string
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, "http_port")
	}
	switch c.Storage {
	case StorageSQLite:
		if strings.TrimSpace(c.SQLiteDSN) == "" {
			invalid = append(invalid, "sqlite_dsn")
		}
	case StorageMemory:
	default:
		invalid = append(invalid, "storage")
	}
	if c.RoomCount < 1 || c.RoomCount > 100 {
		invalid = append(invalid, "room_count")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "log_level")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		invalid = append(invalid, "log_format")
	}
	if c.MetricsEnabled && !strings.HasPrefix(c.MetricsPath, "/") {
		invalid = append(invalid, "metrics_path")
	}
	if c.ShutdownTimeout.Duration <= 0 {
		invalid = append(invalid, "shutdown_timeout")
	}
	if _, err := c.Location(); err != nil {
		invalid = append(invalid, "timezone")
	}
	return invalid
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
