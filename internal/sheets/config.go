// Package sheets publishes monthly expense reports to Google Sheets.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/budjet/internal/common"
)

// AuthMethod is how the writer obtains Google credentials.
type AuthMethod int

// Supported authentication methods.
const (
	AuthNone AuthMethod = iota
	AuthOAuth
	AuthServiceAccount
)

func (a AuthMethod) String() string {
	switch a {
	case AuthOAuth:
		return "oauth2"
	case AuthServiceAccount:
		return "service_account"
	default:
		return "none"
	}
}

// Config holds the spreadsheet destination and the credentials used to reach it.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  "Budjet",
		EnableFormatting: true,
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// Auth reports which credentials are configured.
// Partial OAuth2 settings count as none.
func (c *Config) Auth() AuthMethod {
	oauth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	switch {
	case oauth && c.ServiceAccountPath == "":
		return AuthOAuth
	case !oauth && c.ServiceAccountPath != "":
		return AuthServiceAccount
	default:
		return AuthNone
	}
}

// Validate checks that exactly one authentication method is configured and
// the tuning values are usable.
func (c *Config) Validate() error {
	if c.Auth() == AuthNone {
		if c.ServiceAccountPath != "" {
			return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
		}
		return fmt.Errorf("%w: no authentication method configured; run `budjet auth sheets` or set sheets.service_account_path", common.ErrMissingConfig)
	}

	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	case c.RetryAttempts < 0:
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
