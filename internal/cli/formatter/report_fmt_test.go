package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleReport(costVisible bool) *app.ReportResponse {
	members := domain.GroupMembers
	projects := domain.GroupProjects
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 23, 59, 59, 0, time.UTC)
	return &app.ReportResponse{
		Seconds:     10800,
		Cost:        300,
		GroupedType: &projects,
		GroupedData: []domain.Group{
			{Key: "p1", Name: "Website", Seconds: 9000, Cost: 300, GroupedType: &members, GroupedData: []domain.Group{
				{Key: "m1", Name: "Ada", Seconds: 3600, Cost: 120},
				{Key: "m2", Name: "Bob", Seconds: 5400, Cost: 180},
			}},
			{Key: "p2", Name: "Internal", Seconds: 1800, GroupedType: &members, GroupedData: []domain.Group{
				{Key: "m2", Name: "Bob", Seconds: 1800},
			}},
		},
		Currency:    "EUR",
		Start:       &start,
		End:         &end,
		Groups:      []domain.GroupKey{projects, members},
		CostVisible: costVisible,
	}
}

func TestFormatReport_TreeAndTotals(t *testing.T) {
	out := stripANSI(FormatReport("January", sampleReport(true)))

	assert.Contains(t, out, "JANUARY")
	assert.Contains(t, out, "Jan 1, 2024 → Jan 5, 2024")
	assert.Contains(t, out, "by projects › members")
	assert.Contains(t, out, "Website")
	assert.Contains(t, out, "├─ Ada")
	assert.Contains(t, out, "└─ Bob")
	assert.Contains(t, out, "2h 30m")
	assert.Contains(t, out, "180 EUR")
	assert.Contains(t, out, "Total  3h 00m  300 EUR")
}

func TestFormatReport_HiddenCost(t *testing.T) {
	out := stripANSI(FormatReport("January", sampleReport(false)))

	assert.NotContains(t, out, "EUR")
	assert.Contains(t, out, "Total  3h 00m  —")
}

func TestFormatReport_Empty(t *testing.T) {
	out := stripANSI(FormatReport("Nothing", &app.ReportResponse{Currency: "EUR", CostVisible: true}))
	assert.Contains(t, out, "No time recorded.")
	assert.Contains(t, out, "all time")
}

func TestFormatHistory(t *testing.T) {
	out := stripANSI(FormatHistory([]domain.Group{
		{Key: "2024-01-01", Name: "2024-01-01", Seconds: 3600, Cost: 120},
		{Key: "2024-01-02", Name: "2024-01-02"},
		{Key: "2024-01-03", Name: "2024-01-03", Seconds: 3600, Cost: 50},
	}, "EUR", true))

	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "2024-01-02  0.00h")
	assert.Contains(t, out, "120 EUR")
	assert.Contains(t, out, " 50%")
}

func TestFormatPublicReport(t *testing.T) {
	until := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	out := stripANSI(FormatPublicReport(&app.PublicReport{
		Name:        "Shared",
		Description: "for Globex",
		PublicUntil: &until,
		Data:        sampleReport(true),
	}))
	assert.Contains(t, out, "for Globex")
	assert.Contains(t, out, "shared until Jan 1, 2030")
	assert.Contains(t, out, "SHARED")
}

func TestFormatRateChange(t *testing.T) {
	old := decimal.RequireFromString("50")
	res := &app.RateChangeResult{Level: domain.RateLevelOrganization, OldRate: &old, NewRate: nil, UpdatedEntries: 3}

	out := stripANSI(FormatRateChange("Acme", res, "EUR"))
	assert.Contains(t, out, "Organization rate for Acme: 50 EUR/h → no rate")
	assert.Contains(t, out, "3 existing entries repriced.")

	res.UpdatedEntries = 0
	assert.Contains(t, stripANSI(FormatRateChange("Acme", res, "EUR")), "No existing entries changed.")
}

func TestFormatEntry(t *testing.T) {
	rate := decimal.RequireFromString("80")
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	e := &domain.TimeEntry{ID: "0123456789", Start: start, End: &end, Billable: true, BillableRate: &rate, Description: "review"}

	out := stripANSI(FormatEntry(e, "EUR"))
	assert.Contains(t, out, "01234567  2024-03-01 08:00 → 09:30  1h 30m")
	assert.Contains(t, out, "80 EUR/h")
	assert.Contains(t, out, "review")

	e.End = nil
	e.Billable = false
	out = stripANSI(FormatEntry(e, "EUR"))
	assert.Contains(t, out, "▶ running")
	assert.Contains(t, out, "non-billable")
}
