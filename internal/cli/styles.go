// Package cli renders budjet's command output with lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette shared by every command.
var (
	PrimaryColor = lipgloss.Color("#2EC4B6")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
)

var (
	// TitleStyle is used for report headings.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtleStyle formats hints and empty states.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoldStyle is used for group headers and totals.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// AmountStyle formats money columns.
	AmountStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(InfoColor)

	// BarStyle renders the filled part of a share bar.
	BarStyle = lipgloss.NewStyle().Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	WalletIcon  = "💸"
)

type messageKind struct {
	icon  string
	style lipgloss.Style
}

var (
	successMessage = messageKind{SuccessIcon, lipgloss.NewStyle().Foreground(SuccessColor)}
	warningMessage = messageKind{WarningIcon, lipgloss.NewStyle().Foreground(WarningColor)}
	infoMessage    = messageKind{InfoIcon, lipgloss.NewStyle().Foreground(InfoColor)}
)

func (k messageKind) format(message string) string {
	return k.style.Render(k.icon + " " + message)
}

// FormatSuccess reports a completed change.
func FormatSuccess(message string) string { return successMessage.format(message) }

// FormatWarning flags something the user should notice.
func FormatWarning(message string) string { return warningMessage.format(message) }

// FormatInfo prints neutral progress information.
func FormatInfo(message string) string { return infoMessage.format(message) }

// FormatTitle formats a heading with the wallet icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(WalletIcon + " " + title)
}
