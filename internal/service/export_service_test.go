package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV_OneRowPerLeafPath(t *testing.T) {
	f := newReportFixture(t)
	resp, err := f.reportService().BuildReport(context.Background(), f.org.ID, firstWeek(domain.GroupProjects, domain.GroupMembers), f.viewer(f.ada))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExportService().WriteCSV(&buf, resp))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"projects", "members", "seconds", "hours", "cost", "currency"},
		{"Website", "Ada", "3600", "1.00", "120", "EUR"},
		{"Website", "Bob", "5400", "1.50", "180", "EUR"},
		{"Internal", "Bob", "1800", "0.50", "0", "EUR"},
		{"Total", "", "10800", "3.00", "300", "EUR"},
	}, rows)
}

func TestExportCSV_HiddenCostAndNoGrouping(t *testing.T) {
	f := newReportFixture(t, testutil.WithEmployeesSeeRates(false))
	resp, err := f.reportService().BuildReport(context.Background(), f.org.ID, app.ReportFilter{StartDate: "2024-01-01", EndDate: "2024-01-05"}, f.viewer(f.bob))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExportService().WriteCSV(&buf, resp))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"seconds", "hours", "cost", "currency"},
		{"7200", "2.00", "", "EUR"},
	}, rows)
}

func TestExportJSON_UsesWireNames(t *testing.T) {
	f := newReportFixture(t)
	resp, err := f.reportService().BuildReport(context.Background(), f.org.ID, firstWeek(domain.GroupBillable, ""), f.viewer(f.ada))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewExportService().WriteJSON(&buf, resp))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "billable", decoded["grouped_type"])
	assert.EqualValues(t, 10800, decoded["seconds"])
	groups, ok := decoded["grouped_data"].([]any)
	require.True(t, ok)
	require.Len(t, groups, 2)
	first := groups[0].(map[string]any)
	assert.Equal(t, "true", first["key"])
	assert.Nil(t, first["grouped_data"])
	assert.Len(t, decoded["history"], 5)
}
