package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryWithDuration(seconds int64, billable bool, rate *decimal.Decimal) *TimeEntry {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Duration(seconds) * time.Second)
	return &TimeEntry{ID: "e1", Start: start, End: &end, Billable: billable, BillableRate: rate}
}

func TestTimeEntry_DurationSeconds(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	before := start.Add(-time.Minute)

	running := &TimeEntry{Start: start}
	assert.Equal(t, int64(0), running.DurationSeconds(), "running entries contribute nothing")

	inverted := &TimeEntry{Start: start, End: &before}
	assert.Equal(t, int64(0), inverted.DurationSeconds(), "negative durations clamp to zero")

	assert.Equal(t, int64(5400), entryWithDuration(5400, false, nil).DurationSeconds())
}

func TestTimeEntry_CostRounding(t *testing.T) {
	rate := decimal.NewFromInt(100)

	assert.Equal(t, int64(150), entryWithDuration(5400, true, &rate).Cost())
	assert.Equal(t, int64(0), entryWithDuration(5400, false, &rate).Cost(), "non-billable costs nothing")
	assert.Equal(t, int64(0), entryWithDuration(5400, true, nil).Cost(), "no rate costs nothing")

	// 20 minutes at 100/h is 33.33 -> 33; 21 minutes is 35.
	assert.Equal(t, int64(33), entryWithDuration(1200, true, &rate).Cost())
	assert.Equal(t, int64(35), entryWithDuration(1260, true, &rate).Cost())

	// 0.5 rounds away from zero: 18 seconds at 100/h is 0.5.
	assert.Equal(t, int64(1), entryWithDuration(18, true, &rate).Cost())
}

func TestTimeEntry_Stop(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	e := &TimeEntry{ID: "e1", Start: start}

	require.Error(t, e.Stop(start.Add(-time.Second)))
	require.NoError(t, e.Stop(start.Add(time.Hour)))
	assert.Equal(t, int64(3600), e.DurationSeconds())
	assert.Error(t, e.Stop(start.Add(2*time.Hour)), "stopping twice fails")
}

func TestTimeEntry_SetBillableFalseClearsRate(t *testing.T) {
	rate := decimal.NewFromInt(80)
	e := entryWithDuration(3600, true, &rate)

	e.SetBillable(false)
	assert.False(t, e.Billable)
	assert.Nil(t, e.BillableRate)
}

func TestTimeEntry_FieldFallback(t *testing.T) {
	project := "p1"
	e := &TimeEntry{UserID: "u1", ProjectID: &project}

	v, ok := e.Field("user_id")
	assert.True(t, ok)
	assert.Equal(t, "u1", v)

	v, ok = e.Field("task_id")
	assert.True(t, ok)
	assert.Equal(t, NullKey, v)

	_, ok = e.Field("no_such_column")
	assert.False(t, ok)
}
