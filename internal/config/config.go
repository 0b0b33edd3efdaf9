package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Inventory InventoryConfig
	Log       LogConfig
	Console   ConsoleConfig
}

// InventoryConfig locates the backing inventory file.
type InventoryConfig struct {
	FilePath string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string
	Output string
}

// ConsoleConfig holds options for the interactive menu.
type ConsoleConfig struct {
	MenuTitle string
}

var validLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine; the environment can carry everything.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Inventory: InventoryConfig{
			FilePath: getenvWithDefault("INVENTORY_FILE", "inventory.txt"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getenvWithDefault("LOG_LEVEL", "info")),
			Output: getenvWithDefault("LOG_OUTPUT", "stderr"),
		},
		Console: ConsoleConfig{
			MenuTitle: getenvWithDefault("MENU_TITLE", "NIKE WAREHOUSE MENU"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if strings.TrimSpace(c.Inventory.FilePath) == "" {
		return errors.New("INVENTORY_FILE must not be empty")
	}

	if _, ok := validLevels[c.Log.Level]; !ok {
		return fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Log.Level)
	}

	if c.Log.Output == "" {
		return errors.New("LOG_OUTPUT must not be empty")
	}

	if c.Console.MenuTitle == "" {
		c.Console.MenuTitle = "NIKE WAREHOUSE MENU"
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
