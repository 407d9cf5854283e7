package app

import (
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
)

// RateChange edits the rate of one record at one precedence level.
// SourceID is the id of that record: the project member row, the project,
// the organization member or the organization.
type RateChange struct {
	OrganizationID  string
	Level           domain.RateLevel
	SourceID        string
	NewRate         *decimal.Decimal
	ApplyToExisting bool
}

type RateChangeResult struct {
	Level          domain.RateLevel `json:"level"`
	SourceID       string           `json:"source_id"`
	OldRate        *decimal.Decimal `json:"old_rate"`
	NewRate        *decimal.Decimal `json:"new_rate"`
	UpdatedEntries int64            `json:"updated_entries"`
}

type RateErrorCode string

const (
	RateErrInvalidLevel   RateErrorCode = "INVALID_LEVEL"
	RateErrInvalidRate    RateErrorCode = "INVALID_RATE"
	RateErrSourceNotFound RateErrorCode = "SOURCE_NOT_FOUND"
)

type RateError struct {
	Code    RateErrorCode
	Message string
	Err     error
}

func (e *RateError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *RateError) Unwrap() error {
	return e.Err
}
