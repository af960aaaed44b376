package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all agent configuration
type Config struct {
	Env string `yaml:"env" env:"APP_ENV" env-default:"local"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
	} `yaml:"log"`

	// StoragePath is the SQLite database file. Empty means the
	// per-user default under the OS config directory.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`

	Server struct {
		Enabled bool `yaml:"enabled" env:"SERVER_ENABLED" env-default:"true"`
		Port    int  `yaml:"port" env:"SERVER_PORT" env-default:"8753"`
	} `yaml:"server"`

	Tray struct {
		Enabled bool `yaml:"enabled" env:"TRAY_ENABLED" env-default:"false"`
	} `yaml:"tray"`

	Notifications struct {
		// Desktop controls whether notifications go to the OS
		// notification center or only to the log.
		Desktop bool `yaml:"desktop" env:"NOTIFICATIONS_DESKTOP" env-default:"true"`
	} `yaml:"notifications"`
}

// LoadConfig reads configuration from the YAML file at path, falling back
// to environment variables and defaults when the file does not exist.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	}

	if cfg.StoragePath == "" {
		defaultPath, err := DefaultStoragePath()
		if err != nil {
			return nil, err
		}
		cfg.StoragePath = defaultPath
	}

	return &cfg, nil
}

// DefaultStoragePath returns <user config dir>/work-logger/work-logger.db
func DefaultStoragePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "work-logger", "work-logger.db"), nil
}
