package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
	"github.com/shopspring/decimal"
)

type RateService interface {
	ResolveRate(ctx context.Context, userID, organizationID string, projectID *string) (*decimal.Decimal, error)
	ResolveRateBelow(ctx context.Context, level domain.RateLevel, userID, organizationID string, projectID *string) (*decimal.Decimal, error)
	ApplyRateChange(ctx context.Context, change app.RateChange) (*app.RateChangeResult, error)
}

type ReportService interface {
	BuildReport(ctx context.Context, organizationID string, filter app.ReportFilter, viewer *app.Viewer) (*app.ReportResponse, error)
	BuildHistory(ctx context.Context, organizationID string, filter app.ReportFilter, viewer *app.Viewer) ([]domain.Group, error)
	GetPublicReport(ctx context.Context, shareSecret string, now time.Time) (*app.PublicReport, error)
	Create(ctx context.Context, req app.SaveReportRequest) (*domain.Report, error)
	Update(ctx context.Context, id string, req app.SaveReportRequest) (*domain.Report, error)
	Get(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, organizationID string) ([]*domain.Report, error)
	Delete(ctx context.Context, id string) error
}

type ExportService interface {
	WriteCSV(w io.Writer, resp *app.ReportResponse) error
	WriteJSON(w io.Writer, v any) error
}

type TimeEntryService interface {
	Start(ctx context.Context, req app.StartEntryRequest) (*domain.TimeEntry, error)
	Stop(ctx context.Context, organizationID, userID string, end time.Time) (*domain.TimeEntry, error)
	Update(ctx context.Context, req app.UpdateEntryRequest) (*domain.TimeEntry, error)
	Get(ctx context.Context, id string) (*domain.TimeEntry, error)
}

type OrganizationService interface {
	List(ctx context.Context) ([]*domain.Organization, error)
	Get(ctx context.Context, id string) (*domain.Organization, error)
	ResolveViewer(ctx context.Context, organizationID, userID string) (*app.Viewer, error)
	Members(ctx context.Context, organizationID string) ([]MemberInfo, error)
	Catalog(ctx context.Context, organizationID string) (*Catalog, error)
	ProjectMembers(ctx context.Context, projectID string) ([]*domain.ProjectMember, error)
}

// Catalog lists the named records of one organization.
type Catalog struct {
	Projects []*domain.Project
	Clients  []*domain.Client
	Tasks    []*domain.Task
	Tags     []*domain.Tag
}

// MemberInfo is a member joined with its user for listings.
type MemberInfo struct {
	Member *domain.Member
	User   *domain.User
}

type ImportService interface {
	ImportWorkspace(ctx context.Context, filePath string) (*ImportResult, error)
	ImportWorkspaceFromSchema(ctx context.Context, schema *importer.WorkspaceSchema) (*ImportResult, error)
}

// ImportResult summarises what one workspace import created.
type ImportResult struct {
	Organization  *domain.Organization
	UserCount     int
	MemberCount   int
	ProjectCount  int
	EntryCount    int
	ReportCount   int
	ReportSecrets map[string]string
}
