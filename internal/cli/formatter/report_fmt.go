package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	shareWidth       = 12
	descriptionWidth = 72
)

// FormatReport renders an assembled report: a tree of groups with time,
// cost and share of the total, followed by the totals.
func FormatReport(title string, resp *app.ReportResponse) string {
	var b strings.Builder
	b.WriteString(Header(title) + "\n")
	b.WriteString(Dim(FormatRange(resp.Start, resp.End)))
	if len(resp.Groups) > 0 {
		b.WriteString(Dim("  ·  by " + joinKeys(resp.Groups)))
	}
	b.WriteString("\n\n")

	if len(resp.GroupedData) == 0 {
		b.WriteString(Dim("No time recorded.") + "\n")
	} else {
		items := make([]TreeItem, 0, len(resp.GroupedData))
		flattenGroups(&items, resp.GroupedData, 0, resp)
		b.WriteString(RenderTree(items))
	}

	b.WriteString("\n")
	b.WriteString(Bold("Total") + "  " + FormatDuration(resp.Seconds) + "  " +
		FormatCost(resp.Cost, resp.Currency, resp.CostVisible) + "\n")
	return b.String()
}

// FormatHistory renders the per-day series as a table.
func FormatHistory(history []domain.Group, currency string, costVisible bool) string {
	var total int64
	for _, g := range history {
		total += g.Seconds
	}
	rows := make([][]string, 0, len(history))
	for _, g := range history {
		day := g.Name
		if g.Seconds == 0 {
			day = Dim(day)
		}
		rows = append(rows, []string{
			day,
			FormatHours(g.Seconds),
			FormatCost(g.Cost, currency, costVisible),
			RenderShare(g.Seconds, total, shareWidth),
		})
	}
	return RenderTable([]string{"DATE", "HOURS", "COST", "SHARE"}, rows)
}

// FormatPublicReport renders a shared report with its name and expiry.
func FormatPublicReport(pub *app.PublicReport) string {
	var b strings.Builder
	if pub.Description != "" {
		b.WriteString(RenderMarkdown(pub.Description, descriptionWidth) + "\n")
	}
	if pub.PublicUntil != nil {
		b.WriteString(Dim("shared until "+pub.PublicUntil.Format("Jan 2, 2006 15:04 MST")) + "\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String() + FormatReport(pub.Name, pub.Data)
}

func flattenGroups(items *[]TreeItem, groups []domain.Group, level int, resp *app.ReportResponse) {
	for i, g := range groups {
		*items = append(*items, TreeItem{
			Title:  g.Name,
			Level:  level,
			IsLast: i == len(groups)-1,
			Muted:  g.Seconds == 0,
			Detail: groupDetail(g, resp),
		})
		if len(g.GroupedData) > 0 {
			flattenGroups(items, g.GroupedData, level+1, resp)
		}
	}
}

func groupDetail(g domain.Group, resp *app.ReportResponse) string {
	return fmt.Sprintf("%s  %s  %s",
		padLeft(FormatDuration(g.Seconds), 8),
		padLeft(FormatCost(g.Cost, resp.Currency, resp.CostVisible), 10),
		RenderShare(g.Seconds, resp.Seconds, shareWidth),
	)
}

func joinKeys(keys []domain.GroupKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, " › ")
}

// padLeft right-aligns s in width visible columns.
func padLeft(s string, width int) string {
	return strings.Repeat(" ", max(width-lipgloss.Width(s), 0)) + s
}
