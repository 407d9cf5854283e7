package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
)

// EntryFilter selects time entries within one organization. Empty lists do
// not constrain; Start is inclusive and End exclusive on the entry start.
type EntryFilter struct {
	OrganizationID string
	Start          *time.Time
	End            *time.Time
	MemberIDs      []string
	UserIDs        []string
	ProjectIDs     []string
	TaskIDs        []string
	ClientIDs      []string
	TagIDs         []string
	Billable       *bool
}

// RateKey addresses a rate lookup. Which fields matter depends on the level.
type RateKey struct {
	OrganizationID string
	UserID         string
	ProjectID      string
}

type OrganizationRepo interface {
	Create(ctx context.Context, o *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	List(ctx context.Context) ([]*domain.Organization, error)
	Update(ctx context.Context, o *domain.Organization) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.User, error)
}

type MemberRepo interface {
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id string) (*domain.Member, error)
	GetByUser(ctx context.Context, organizationID, userID string) (*domain.Member, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Member, error)
}

type ClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Client, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByOrganization(ctx context.Context, organizationID string, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
}

type ProjectMemberRepo interface {
	Create(ctx context.Context, pm *domain.ProjectMember) error
	GetByID(ctx context.Context, id string) (*domain.ProjectMember, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectMember, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Task, error)
}

type TagRepo interface {
	Create(ctx context.Context, t *domain.Tag) error
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Tag, error)
}

type TimeEntryRepo interface {
	Create(ctx context.Context, e *domain.TimeEntry) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	GetRunning(ctx context.Context, memberID string) (*domain.TimeEntry, error)
	Update(ctx context.Context, e *domain.TimeEntry) error
	Find(ctx context.Context, f EntryFilter) ([]*domain.TimeEntry, error)
	BulkUpdateRate(ctx context.Context, ids []string, rate *decimal.Decimal) (int64, error)
}

// RateRepo reads and writes the rate column of each precedence level.
type RateRepo interface {
	FindRate(ctx context.Context, level domain.RateLevel, key RateKey) (*decimal.Decimal, error)
	GetSourceRate(ctx context.Context, level domain.RateLevel, sourceID string) (*decimal.Decimal, error)
	SetSourceRate(ctx context.Context, level domain.RateLevel, sourceID string, rate *decimal.Decimal) error
}

type ReportRepo interface {
	Create(ctx context.Context, r *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetByShareSecret(ctx context.Context, secret string) (*domain.Report, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Report, error)
	Update(ctx context.Context, r *domain.Report) error
	Delete(ctx context.Context, id string) error
}
