package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// stripANSI removes escape codes so assertions are terminal-independent.
func stripANSI(s string) string {
	return ansi.Strip(s)
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0.00h", FormatHours(0))
	assert.Equal(t, "1.50h", FormatHours(5400))
	assert.Equal(t, "0.33h", FormatHours(1200))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{1800, "30m"},
		{3600, "1h 00m"},
		{5400 + 300, "1h 35m"},
		{26 * 3600, "26h 00m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "300 EUR", FormatCost(300, "EUR", true))
	assert.Equal(t, "—", stripANSI(FormatCost(300, "EUR", false)))
}

func TestFormatRate(t *testing.T) {
	rate := decimal.RequireFromString("99.5")
	assert.Equal(t, "99.5 EUR/h", FormatRate(&rate, "EUR"))
	assert.Equal(t, "no rate", stripANSI(FormatRate(nil, "EUR")))
}

func TestFormatRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "Jan 1, 2024 → Jan 31, 2024", FormatRange(&start, &end))
	assert.Equal(t, "since Jan 1, 2024", FormatRange(&start, nil))
	assert.Equal(t, "until Jan 31, 2024", FormatRange(nil, &end))
	assert.Equal(t, "all time", FormatRange(nil, nil))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"NAME", "HOURS"},
		[][]string{{Bold("Website"), "1.00h"}, {"QA", "12.50h"}},
	))
	assert.Equal(t, "NAME     HOURS\n───────  ──────\nWebsite  1.00h\nQA       12.50h\n", out)
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Website", Level: 0},
		{Title: "Ada", Level: 1},
		{Title: "Bob", Level: 1, IsLast: true},
		{Title: "Internal", Level: 0, IsLast: true},
		{Title: "Bob", Level: 1, IsLast: true, Detail: "x"},
	}))
	assert.Contains(t, out, "Website\n")
	assert.Contains(t, out, "├─ Ada\n")
	assert.Contains(t, out, "└─ Bob\n")
	assert.Contains(t, out, "└─ Bob    x\n")
}

func TestRoleBadge(t *testing.T) {
	assert.Equal(t, "● manager", stripANSI(RoleBadge(domain.RoleManager)))
	assert.Equal(t, "project member", LevelLabel(domain.RateLevelProjectMember))
}
