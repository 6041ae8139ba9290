package tui

import (
	"time"

	"github.com/Veraticus/budjet/internal/service"
	"github.com/Veraticus/budjet/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme          themes.Theme
	Store          service.ExpenseStore
	Now            func() time.Time
	CurrencySymbol string
	Width          int
	Height         int
	ShowHelp       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:          themes.Default,
		Now:            time.Now,
		CurrencySymbol: "$",
		Width:          80,
		Height:         24,
		ShowHelp:       true,
	}
}

// WithStore sets the expense store.
func WithStore(store service.ExpenseStore) Option {
	return func(c *Config) {
		c.Store = store
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCurrencySymbol sets the symbol prefixed to amounts.
func WithCurrencySymbol(symbol string) Option {
	return func(c *Config) {
		if symbol != "" {
			c.CurrencySymbol = symbol
		}
	}
}

// WithClock overrides the clock used for the initial period and new expense dates.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}
