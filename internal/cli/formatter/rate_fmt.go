package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
)

// FormatRateChange summarises an applied rate change.
func FormatRateChange(subject string, res *app.RateChangeResult, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s rate for %s: %s → %s\n",
		strings.ToUpper(LevelLabel(res.Level)[:1])+LevelLabel(res.Level)[1:],
		Bold(subject),
		FormatRate(res.OldRate, currency),
		StyleGreen.Render(FormatRate(res.NewRate, currency)),
	)
	switch res.UpdatedEntries {
	case 0:
		b.WriteString(Dim("No existing entries changed.") + "\n")
	case 1:
		b.WriteString("1 existing entry repriced.\n")
	default:
		fmt.Fprintf(&b, "%d existing entries repriced.\n", res.UpdatedEntries)
	}
	return b.String()
}

// FormatEntry renders a one-line summary of a time entry.
func FormatEntry(e *domain.TimeEntry, currency string) string {
	var b strings.Builder
	b.WriteString(TruncID(e.ID) + "  ")
	b.WriteString(e.Start.Format("2006-01-02 15:04"))
	if e.End != nil {
		b.WriteString(" → " + e.End.Format("15:04") + "  " + FormatDuration(e.DurationSeconds()))
	} else {
		b.WriteString("  " + StyleYellowBold.Render("▶ running"))
	}
	if e.Billable {
		b.WriteString("  " + StyleGreen.Render("$ ") + FormatRate(e.BillableRate, currency))
	} else {
		b.WriteString("  " + Dim("non-billable"))
	}
	if e.Description != "" {
		b.WriteString("  " + e.Description)
	}
	return b.String()
}
