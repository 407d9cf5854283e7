package formatter

import (
	"os"
	"strings"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
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
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ApplyColorProfile picks the color profile for this run. NO_COLOR and
// output that is not a terminal render plain text.
func ApplyColorProfile(interactive bool) {
	if !interactive || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}

// RoleStyle colors a member role by how much it can see.
func RoleStyle(role domain.Role) lipgloss.Style {
	switch role {
	case domain.RoleOwner, domain.RoleAdmin:
		return StyleRed
	case domain.RoleManager:
		return StyleYellow
	case domain.RoleEmployee:
		return StyleGreen
	default:
		return StyleDim
	}
}

// RoleBadge returns a colored role indicator such as "● manager".
func RoleBadge(role domain.Role) string {
	return RoleStyle(role).Render("● " + string(role))
}

// LevelLabel returns a readable name for a rate level.
func LevelLabel(level domain.RateLevel) string {
	switch level {
	case domain.RateLevelProjectMember:
		return "project member"
	case domain.RateLevelProject:
		return "project"
	case domain.RateLevelOrganizationMember:
		return "organization member"
	case domain.RateLevelOrganization:
		return "organization"
	default:
		return string(level)
	}
}
