// Package config resolves budjet settings from viper and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath   = "database.path"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyCurrencySymbol = "display.currency_symbol"
	KeyTheme          = "display.theme"
)

// DefaultCurrencySymbol prefixes rendered amounts.
const DefaultCurrencySymbol = "$"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyCurrencySymbol, DefaultCurrencySymbol)
	v.SetDefault(KeyTheme, "default")
	v.SetDefault("sheets.spreadsheet_name", "Budjet")
}

// DefaultDatabasePath returns the XDG data location of the expense database.
func DefaultDatabasePath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "budjet", "budjet.db")
	}
	return filepath.Join("~", ".local", "share", "budjet", "budjet.db")
}

// DefaultConfigDir returns the directory searched for config.yaml.
func DefaultConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "budjet")
	}
	return ExpandPath(filepath.Join("~", ".config", "budjet"))
}

// DatabasePath returns the configured database location with ~ and $VARS expanded.
func DatabasePath(v *viper.Viper) string {
	return ExpandPath(v.GetString(KeyDatabasePath))
}

// CurrencySymbol returns the configured currency symbol.
func CurrencySymbol(v *viper.Viper) string {
	symbol := strings.TrimSpace(v.GetString(KeyCurrencySymbol))
	if symbol == "" {
		return DefaultCurrencySymbol
	}
	return symbol
}

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}
