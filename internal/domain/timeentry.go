package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type TimeEntry struct {
	ID             string
	OrganizationID string
	UserID         string
	MemberID       string
	ProjectID      *string
	TaskID         *string
	Start          time.Time
	End            *time.Time
	Billable       bool
	BillableRate   *decimal.Decimal
	Description    string
	TagIDs         []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsRunning reports whether the entry has not been stopped yet.
func (e *TimeEntry) IsRunning() bool {
	return e.End == nil
}

// DurationSeconds returns the tracked duration in whole seconds. Running
// entries contribute 0 and an end before start is clamped to 0.
func (e *TimeEntry) DurationSeconds() int64 {
	if e.End == nil {
		return 0
	}
	d := int64(e.End.Sub(e.Start) / time.Second)
	if d < 0 {
		return 0
	}
	return d
}

// Cost returns the billable cost of the entry in whole currency units,
// rounded half away from zero. Non-billable entries and entries without a
// rate cost nothing.
func (e *TimeEntry) Cost() int64 {
	if !e.Billable || e.BillableRate == nil {
		return 0
	}
	return CostFor(e.DurationSeconds(), *e.BillableRate)
}

// CostFor computes round(seconds / 3600 * rate).
func CostFor(seconds int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(seconds).Mul(rate).Div(decimal.NewFromInt(3600)).Round(0).IntPart()
}

// Stop ends a running entry at end.
func (e *TimeEntry) Stop(end time.Time) error {
	if e.End != nil {
		return fmt.Errorf("time entry %s is already stopped", e.ID)
	}
	if end.Before(e.Start) {
		return fmt.Errorf("end %s is before start %s", end.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	e.End = &end
	return nil
}

// SetBillable applies a billable flag change. Clearing billable also clears
// the snapshotted rate.
func (e *TimeEntry) SetBillable(billable bool) {
	e.Billable = billable
	if !billable {
		e.BillableRate = nil
	}
}

// HasTag reports whether the entry carries the tag.
func (e *TimeEntry) HasTag(tagID string) bool {
	for _, id := range e.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Field returns the raw value of a stored column by name. It backs the
// grouping fallback for dimensions outside the known vocabulary.
func (e *TimeEntry) Field(name string) (string, bool) {
	switch name {
	case "id":
		return e.ID, true
	case "organization_id":
		return e.OrganizationID, true
	case "user_id":
		return e.UserID, true
	case "member_id":
		return e.MemberID, true
	case "project_id":
		return derefOr(e.ProjectID, NullKey), true
	case "task_id":
		return derefOr(e.TaskID, NullKey), true
	case "start", "started_at":
		return e.Start.UTC().Format(time.RFC3339), true
	case "end", "ended_at":
		if e.End == nil {
			return NullKey, true
		}
		return e.End.UTC().Format(time.RFC3339), true
	case "billable":
		return strconv.FormatBool(e.Billable), true
	case "billable_rate":
		if e.BillableRate == nil {
			return NullKey, true
		}
		return e.BillableRate.String(), true
	case "description":
		if e.Description == "" {
			return NullKey, true
		}
		return e.Description, true
	}
	return "", false
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
