package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartEntryRequest starts (End nil) or records (End set) a time entry for
// a user of an organization.
type StartEntryRequest struct {
	OrganizationID string
	UserID         string
	ProjectID      *string
	TaskID         *string
	Description    string
	TagIDs         []string
	Start          time.Time
	End            *time.Time
	// Billable defaults to the project's billable default when nil.
	Billable *bool
}

func NewStartEntryRequest(organizationID, userID string) StartEntryRequest {
	return StartEntryRequest{
		OrganizationID: organizationID,
		UserID:         userID,
		Start:          time.Now().UTC().Truncate(time.Second),
	}
}

// UpdateEntryRequest changes the fields that are set.
type UpdateEntryRequest struct {
	ID           string
	ProjectID    *string
	Description  *string
	End          *time.Time
	Billable     *bool
	BillableRate *decimal.Decimal
}

type EntryErrorCode string

const (
	EntryErrNotMember      EntryErrorCode = "NOT_MEMBER"
	EntryErrAlreadyRunning EntryErrorCode = "ALREADY_RUNNING"
	EntryErrNotRunning     EntryErrorCode = "NOT_RUNNING"
	EntryErrInvalidTime    EntryErrorCode = "INVALID_TIME"
	EntryErrNotFound       EntryErrorCode = "NOT_FOUND"
	EntryErrInvalidRate    EntryErrorCode = "INVALID_RATE"
)

type EntryError struct {
	Code    EntryErrorCode
	Message string
	Err     error
}

func (e *EntryError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
