package testutil

import (
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate parses a decimal literal for fixtures.
func Rate(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func fixtureNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Organization options
type OrganizationOption func(*domain.Organization)

func WithOrgRate(rate *decimal.Decimal) OrganizationOption {
	return func(o *domain.Organization) {
		o.BillableRate = rate
	}
}

func WithEmployeesSeeRates(visible bool) OrganizationOption {
	return func(o *domain.Organization) {
		o.EmployeesCanSeeBillableRates = visible
	}
}

func NewTestOrganization(name string, opts ...OrganizationOption) *domain.Organization {
	now := fixtureNow()
	o := &domain.Organization{
		ID:                           uuid.New().String(),
		Name:                         name,
		Currency:                     "EUR",
		EmployeesCanSeeBillableRates: true,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func NewTestUser(name string) *domain.User {
	return &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: fixtureNow(),
	}
}

// Member options
type MemberOption func(*domain.Member)

func WithRole(role domain.Role) MemberOption {
	return func(m *domain.Member) {
		m.Role = role
	}
}

func WithMemberRate(rate *decimal.Decimal) MemberOption {
	return func(m *domain.Member) {
		m.BillableRate = rate
	}
}

func NewTestMember(organizationID, userID string, opts ...MemberOption) *domain.Member {
	now := fixtureNow()
	m := &domain.Member{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           domain.RoleEmployee,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func NewTestClient(organizationID, name string) *domain.Client {
	return &domain.Client{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		CreatedAt:      fixtureNow(),
	}
}

// Project options
type ProjectOption func(*domain.Project)

func WithClient(clientID string) ProjectOption {
	return func(p *domain.Project) {
		p.ClientID = &clientID
	}
}

func WithProjectRate(rate *decimal.Decimal) ProjectOption {
	return func(p *domain.Project) {
		p.BillableRate = rate
	}
}

func WithBillableDefault(billable bool) ProjectOption {
	return func(p *domain.Project) {
		p.IsBillable = billable
	}
}

func WithArchived() ProjectOption {
	return func(p *domain.Project) {
		at := fixtureNow()
		p.ArchivedAt = &at
	}
}

func NewTestProject(organizationID, name string, opts ...ProjectOption) *domain.Project {
	now := fixtureNow()
	p := &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		Color:          "#8ec07c",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestProjectMember(project *domain.Project, member *domain.Member, rate *decimal.Decimal) *domain.ProjectMember {
	now := fixtureNow()
	return &domain.ProjectMember{
		ID:           uuid.New().String(),
		ProjectID:    project.ID,
		MemberID:     member.ID,
		UserID:       member.UserID,
		BillableRate: rate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NewTestTask(project *domain.Project, name string) *domain.Task {
	return &domain.Task{
		ID:             uuid.New().String(),
		OrganizationID: project.OrganizationID,
		ProjectID:      project.ID,
		Name:           name,
		CreatedAt:      fixtureNow(),
	}
}

func NewTestTag(organizationID, name string) *domain.Tag {
	return &domain.Tag{
		ID:             uuid.New().String(),
		OrganizationID: organizationID,
		Name:           name,
		CreatedAt:      fixtureNow(),
	}
}

// TimeEntry options
type EntryOption func(*domain.TimeEntry)

func WithProject(projectID string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.ProjectID = &projectID
	}
}

func WithTask(taskID string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.TaskID = &taskID
	}
}

// WithSpan sets the start and a duration in seconds.
func WithSpan(start time.Time, seconds int64) EntryOption {
	return func(e *domain.TimeEntry) {
		end := start.Add(time.Duration(seconds) * time.Second)
		e.Start = start
		e.End = &end
	}
}

// WithBillable marks the entry billable at rate.
func WithBillable(rate *decimal.Decimal) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Billable = true
		e.BillableRate = rate
	}
}

func WithDescription(d string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.Description = d
	}
}

func WithTags(tagIDs ...string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.TagIDs = tagIDs
	}
}

func Running() EntryOption {
	return func(e *domain.TimeEntry) {
		e.End = nil
	}
}

// NewTestEntry builds a stopped one-hour entry for member starting at
// 2024-01-01 09:00 UTC.
func NewTestEntry(member *domain.Member, opts ...EntryOption) *domain.TimeEntry {
	now := fixtureNow()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	e := &domain.TimeEntry{
		ID:             uuid.New().String(),
		OrganizationID: member.OrganizationID,
		UserID:         member.UserID,
		MemberID:       member.ID,
		Start:          start,
		End:            &end,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
