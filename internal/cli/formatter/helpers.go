package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
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

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatHours renders seconds as decimal hours with two places, "1.50h".
func FormatHours(seconds int64) string {
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).StringFixed(2) + "h"
}

// FormatDuration renders seconds as "2h 05m", or minutes alone below an hour.
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return "0m"
	}
	minutes := seconds / 60
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

// FormatCost renders a whole-unit cost with its currency. Hidden costs
// render as a dim dash.
func FormatCost(cost int64, currency string, visible bool) string {
	if !visible {
		return Dim("—")
	}
	return fmt.Sprintf("%d %s", cost, currency)
}

// FormatRate renders an hourly rate, or "no rate" for nil.
func FormatRate(rate *decimal.Decimal, currency string) string {
	if rate == nil {
		return Dim("no rate")
	}
	return fmt.Sprintf("%s %s/h", rate.String(), currency)
}

// FormatRange renders a report window such as "Jan 1, 2024 → Jan 31, 2024".
func FormatRange(start, end *time.Time) string {
	switch {
	case start == nil && end == nil:
		return "all time"
	case start == nil:
		return "until " + end.Format("Jan 2, 2006")
	case end == nil:
		return "since " + start.Format("Jan 2, 2006")
	default:
		return start.Format("Jan 2, 2006") + " → " + end.Format("Jan 2, 2006")
	}
}
