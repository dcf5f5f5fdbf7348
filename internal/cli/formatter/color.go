package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleRedBold    = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SeverityStyle returns the style for a compliance or safety severity.
func SeverityStyle(s domain.Severity) lipgloss.Style {
	switch s {
	case domain.SeverityCritical, domain.SeverityDanger:
		return StyleRedBold
	case domain.SeverityWarning:
		return StyleYellow
	case domain.SeverityCaution:
		return StyleYellowBold
	case domain.SeverityInfo:
		return StyleBlue
	default:
		return StyleDim
	}
}

// SeverityBadge returns a colored marker such as "▲ CRITICAL".
func SeverityBadge(s domain.Severity) string {
	marker := "●"
	switch s {
	case domain.SeverityCritical, domain.SeverityDanger:
		marker = "▲"
	case domain.SeverityInfo:
		marker = "○"
	}
	return SeverityStyle(s).Render(fmt.Sprintf("%s %s", marker, strings.ToUpper(string(s))))
}

// FlagTypeBadge renders the flag type in purple.
func FlagTypeBadge(t domain.FlagType) string {
	if t == "" {
		return StyleDim.Render("--")
	}
	return StylePurple.Render(string(t))
}

// SourceBadge marks where a research snippet came from.
func SourceBadge(s domain.SnippetSource) string {
	if s == domain.SourceLLM {
		return StylePurple.Render("AI")
	}
	return StyleBlue.Render("KB")
}

// WorkOrderStatusPill returns a colored status indicator for a work order.
func WorkOrderStatusPill(status domain.WorkOrderStatus) string {
	switch status {
	case domain.WorkOrderPending:
		return StyleBlue.Render("○ Pending")
	case domain.WorkOrderScheduled:
		return StyleYellow.Render("◷ Scheduled")
	case domain.WorkOrderInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.WorkOrderComplete:
		return StyleDim.Render("✔ Complete")
	default:
		return StyleDim.Render(string(status))
	}
}

// PriorityBadge colors a work-order priority.
func PriorityBadge(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("high")
	case domain.PriorityLow:
		return StyleDim.Render("low")
	default:
		return StyleFg.Render(string(domain.PriorityMedium))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
