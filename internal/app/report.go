package app

import (
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
)

type ReportFilter struct {
	Group    domain.GroupKey
	SubGroup domain.GroupKey
	// StartDate and EndDate are inclusive calendar days, YYYY-MM-DD, in the
	// caller's reference time.
	StartDate        string
	EndDate          string
	MemberIDs        []string
	ProjectIDs       []string
	TaskIDs          []string
	ClientIDs        []string
	TagIDs           []string
	Billable         *bool
	UTCOffsetMinutes int
}

func NewReportFilter() ReportFilter {
	return ReportFilter{Group: domain.GroupProjects}
}

// ReportFilterFromProperties rebuilds the filter a saved report stores.
func ReportFilterFromProperties(p domain.ReportProperties, utcOffsetMinutes int) ReportFilter {
	return ReportFilter{
		Group:            p.Group,
		SubGroup:         p.SubGroup,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		MemberIDs:        p.MemberIDs,
		ProjectIDs:       p.ProjectIDs,
		TaskIDs:          p.TaskIDs,
		ClientIDs:        p.ClientIDs,
		TagIDs:           p.TagIDs,
		Billable:         p.Billable,
		UTCOffsetMinutes: utcOffsetMinutes,
	}
}

// Properties is the persisted form of the filter.
func (f ReportFilter) Properties() domain.ReportProperties {
	return domain.ReportProperties{
		Group:      f.Group,
		SubGroup:   f.SubGroup,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		MemberIDs:  f.MemberIDs,
		ProjectIDs: f.ProjectIDs,
		TaskIDs:    f.TaskIDs,
		ClientIDs:  f.ClientIDs,
		TagIDs:     f.TagIDs,
		Billable:   f.Billable,
	}
}

// GroupKeys returns the requested dimensions in nesting order.
func (f ReportFilter) GroupKeys() []domain.GroupKey {
	return f.Properties().GroupKeys()
}

// DateRange parses the calendar bounds. Either bound may be empty.
func (f ReportFilter) DateRange() (start, end *time.Time, err error) {
	if f.StartDate != "" {
		d, perr := time.Parse(domain.DateLayout, f.StartDate)
		if perr != nil {
			return nil, nil, &ReportError{Code: ReportErrInvalidFilter, Message: fmt.Sprintf("start date %q is not YYYY-MM-DD", f.StartDate)}
		}
		start = &d
	}
	if f.EndDate != "" {
		d, perr := time.Parse(domain.DateLayout, f.EndDate)
		if perr != nil {
			return nil, nil, &ReportError{Code: ReportErrInvalidFilter, Message: fmt.Sprintf("end date %q is not YYYY-MM-DD", f.EndDate)}
		}
		end = &d
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, &ReportError{Code: ReportErrInvalidFilter, Message: "end date is before start date"}
	}
	return start, end, nil
}

// ReportResponse is an assembled report. Start and End are the day
// boundaries of the requested range as UTC instants.
type ReportResponse struct {
	Seconds     int64             `json:"seconds"`
	Cost        int64             `json:"cost"`
	GroupedType *domain.GroupKey  `json:"grouped_type"`
	GroupedData []domain.Group    `json:"grouped_data"`
	History     []domain.Group    `json:"history"`
	Currency    string            `json:"currency"`
	Start       *time.Time        `json:"start"`
	End         *time.Time        `json:"end"`
	Groups      []domain.GroupKey `json:"groups"`
	CostVisible bool              `json:"cost_visible"`
}

type SaveReportRequest struct {
	OrganizationID string
	Name           string
	Description    string
	IsPublic       bool
	PublicUntil    *time.Time
	Properties     domain.ReportProperties
}

// PublicReport is what an unauthenticated share link returns.
type PublicReport struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	PublicUntil *time.Time              `json:"public_until"`
	Properties  domain.ReportProperties `json:"properties"`
	Data        *ReportResponse         `json:"data"`
}

type ReportErrorCode string

const (
	ReportErrNotFound      ReportErrorCode = "NOT_FOUND"
	ReportErrInvalidFilter ReportErrorCode = "INVALID_FILTER"
	ReportErrInvalidGroup  ReportErrorCode = "INVALID_GROUP"
)

type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

func (e *ReportError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func (e *ReportError) Unwrap() error {
	return e.Err
}
