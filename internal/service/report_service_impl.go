package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tally/internal/aggregate"
	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/google/uuid"
)

// CatalogRepos are the repositories a report reads to name its groups.
// Tags and ProjectMembers are only needed for organization listings.
type CatalogRepos struct {
	Users          repository.UserRepo
	Members        repository.MemberRepo
	Projects       repository.ProjectRepo
	Clients        repository.ClientRepo
	Tasks          repository.TaskRepo
	Tags           repository.TagRepo
	ProjectMembers repository.ProjectMemberRepo
}

const shareSecretBytes = 32

type reportService struct {
	orgs     repository.OrganizationRepo
	entries  repository.TimeEntryRepo
	reports  repository.ReportRepo
	catalog  CatalogRepos
	observer UseCaseObserver
	// utcOffsetMinutes applies to public reports, which have no caller
	// reference time of their own.
	utcOffsetMinutes int
}

func NewReportService(
	orgs repository.OrganizationRepo,
	entries repository.TimeEntryRepo,
	reports repository.ReportRepo,
	catalog CatalogRepos,
	utcOffsetMinutes int,
	observers ...UseCaseObserver,
) ReportService {
	return &reportService{
		orgs:             orgs,
		entries:          entries,
		reports:          reports,
		catalog:          catalog,
		observer:         useCaseObserverOrNoop(observers),
		utcOffsetMinutes: utcOffsetMinutes,
	}
}

// BuildReport loads the entries matching filter and assembles totals, the
// grouped tree and the daily history. Viewers below manager only see their
// own time, never named client buckets, and no cost unless the organization
// lets employees see billable rates. A nil viewer is a public read.
func (s *reportService) BuildReport(ctx context.Context, organizationID string, filter app.ReportFilter, viewer *app.Viewer) (resp *app.ReportResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"organization_id": organizationID, "public": viewer == nil}
	defer observe(ctx, s.observer, "report.build", startedAt, fields, &err)

	org, err := s.orgs.GetByID(ctx, organizationID)
	if err != nil {
		return nil, notFoundAs(err, "organization "+organizationID)
	}

	entries, dateRange, err := s.loadEntries(ctx, organizationID, filter, viewer)
	if err != nil {
		return nil, err
	}
	fields["entries"] = len(entries)

	catalog, err := s.loadCatalog(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	opts := aggregate.Options{UTCOffsetMinutes: filter.UTCOffsetMinutes, Catalog: catalog, Range: dateRange}

	keys := filter.GroupKeys()
	var groupedType *domain.GroupKey
	if len(keys) > 0 {
		groupedType = &keys[0]
	}
	groups := aggregate.GroupEntries(entries, keys, opts)
	if viewer.Restricted() {
		groups = aggregate.FilterForRole(groups, groupedType, viewer.Role)
	}

	history := aggregate.GroupEntries(entries, []domain.GroupKey{domain.GroupDate}, opts)

	totals := aggregate.TotalsOf(entries)
	costVisible := !viewer.Restricted() || org.EmployeesCanSeeBillableRates
	if !costVisible {
		groups = aggregate.RedactCost(groups)
		history = aggregate.RedactCost(history)
		totals.Cost = 0
	}

	resp = &app.ReportResponse{
		Seconds:     totals.Seconds,
		Cost:        totals.Cost,
		GroupedType: groupedType,
		GroupedData: groups,
		History:     history,
		Currency:    org.Currency,
		Groups:      keys,
		CostVisible: costVisible,
	}
	resp.Start, resp.End = responseBounds(filter)
	return resp, nil
}

// BuildHistory returns the report's entries grouped per day, one group for
// every day of the filter's range.
func (s *reportService) BuildHistory(ctx context.Context, organizationID string, filter app.ReportFilter, viewer *app.Viewer) ([]domain.Group, error) {
	filter.Group = domain.GroupDate
	filter.SubGroup = ""
	resp, err := s.BuildReport(ctx, organizationID, filter, viewer)
	if err != nil {
		return nil, err
	}
	return resp.History, nil
}

func (s *reportService) loadEntries(ctx context.Context, organizationID string, filter app.ReportFilter, viewer *app.Viewer) ([]*domain.TimeEntry, *aggregate.DateRange, error) {
	startDate, endDate, err := filter.DateRange()
	if err != nil {
		return nil, nil, err
	}

	offset := time.Duration(filter.UTCOffsetMinutes) * time.Minute
	ef := repository.EntryFilter{
		OrganizationID: organizationID,
		MemberIDs:      filter.MemberIDs,
		ProjectIDs:     filter.ProjectIDs,
		TaskIDs:        filter.TaskIDs,
		ClientIDs:      filter.ClientIDs,
		TagIDs:         filter.TagIDs,
		Billable:       filter.Billable,
	}
	if startDate != nil {
		from := startDate.Add(offset)
		ef.Start = &from
	}
	if endDate != nil {
		until := endDate.AddDate(0, 0, 1).Add(offset)
		ef.End = &until
	}
	if viewer.Restricted() {
		ef.MemberIDs = []string{viewer.MemberID}
	}

	entries, err := s.entries.Find(ctx, ef)
	if err != nil {
		return nil, nil, err
	}

	var dateRange *aggregate.DateRange
	if startDate != nil && endDate != nil {
		dateRange = &aggregate.DateRange{Start: *startDate, End: *endDate}
	}
	return entries, dateRange, nil
}

func (s *reportService) loadCatalog(ctx context.Context, organizationID string) (aggregate.Catalog, error) {
	users, err := s.catalog.Users.ListByOrganization(ctx, organizationID)
	if err != nil {
		return aggregate.Catalog{}, err
	}
	members, err := s.catalog.Members.ListByOrganization(ctx, organizationID)
	if err != nil {
		return aggregate.Catalog{}, err
	}
	projects, err := s.catalog.Projects.ListByOrganization(ctx, organizationID, true)
	if err != nil {
		return aggregate.Catalog{}, err
	}
	clients, err := s.catalog.Clients.ListByOrganization(ctx, organizationID)
	if err != nil {
		return aggregate.Catalog{}, err
	}
	tasks, err := s.catalog.Tasks.ListByOrganization(ctx, organizationID)
	if err != nil {
		return aggregate.Catalog{}, err
	}
	return aggregate.NewCatalog(users, members, projects, clients, tasks), nil
}

// responseBounds maps the requested days to UTC instants: local midnight of
// the first day and the last second of the last day.
func responseBounds(filter app.ReportFilter) (*time.Time, *time.Time) {
	startDate, endDate, err := filter.DateRange()
	if err != nil {
		return nil, nil
	}
	offset := time.Duration(filter.UTCOffsetMinutes) * time.Minute
	var start, end *time.Time
	if startDate != nil {
		s := startDate.Add(offset).UTC()
		start = &s
	}
	if endDate != nil {
		e := endDate.AddDate(0, 0, 1).Add(-time.Second).Add(offset).UTC()
		end = &e
	}
	return start, end
}

// GetPublicReport serves a shared report by its secret. Unknown secrets,
// private reports and expired links all read as not found.
func (s *reportService) GetPublicReport(ctx context.Context, shareSecret string, now time.Time) (pub *app.PublicReport, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "report.public", startedAt, fields, &err)

	notFound := &app.ReportError{Code: app.ReportErrNotFound, Message: "report not found", Err: repository.ErrNotFound}
	if shareSecret == "" {
		return nil, notFound
	}
	rep, err := s.reports.GetByShareSecret(ctx, shareSecret)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	fields["report_id"] = rep.ID
	if rep.ShareSecret == nil || subtle.ConstantTimeCompare([]byte(*rep.ShareSecret), []byte(shareSecret)) != 1 {
		return nil, notFound
	}
	if !rep.IsAccessibleAt(now) {
		return nil, notFound
	}

	filter := app.ReportFilterFromProperties(rep.Properties, s.utcOffsetMinutes)
	data, err := s.BuildReport(ctx, rep.OrganizationID, filter, nil)
	if err != nil {
		return nil, err
	}
	return &app.PublicReport{
		Name:        rep.Name,
		Description: rep.Description,
		PublicUntil: rep.PublicUntil,
		Properties:  rep.Properties,
		Data:        data,
	}, nil
}

func (s *reportService) Create(ctx context.Context, req app.SaveReportRequest) (*domain.Report, error) {
	if err := validateSaveReport(req); err != nil {
		return nil, err
	}
	if _, err := s.orgs.GetByID(ctx, req.OrganizationID); err != nil {
		return nil, notFoundAs(err, "organization "+req.OrganizationID)
	}

	now := time.Now().UTC()
	rep := &domain.Report{
		ID:             uuid.New().String(),
		OrganizationID: req.OrganizationID,
		CreatedAt:      now,
	}
	if err := applySaveReport(rep, req, now); err != nil {
		return nil, err
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *reportService) Update(ctx context.Context, id string, req app.SaveReportRequest) (*domain.Report, error) {
	if err := validateSaveReport(req); err != nil {
		return nil, err
	}
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "report "+id)
	}
	if err := applySaveReport(rep, req, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := s.reports.Update(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *reportService) Get(ctx context.Context, id string) (*domain.Report, error) {
	rep, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "report "+id)
	}
	return rep, nil
}

func (s *reportService) List(ctx context.Context, organizationID string) ([]*domain.Report, error) {
	return s.reports.ListByOrganization(ctx, organizationID)
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	if err := s.reports.Delete(ctx, id); err != nil {
		return notFoundAs(err, "report "+id)
	}
	return nil
}

func validateSaveReport(req app.SaveReportRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &app.ReportError{Code: app.ReportErrInvalidFilter, Message: "report name is required"}
	}
	p := req.Properties
	if p.Group == "" {
		return &app.ReportError{Code: app.ReportErrInvalidGroup, Message: "group is required"}
	}
	for _, key := range p.GroupKeys() {
		if !key.Known() {
			return &app.ReportError{Code: app.ReportErrInvalidGroup, Message: fmt.Sprintf("unknown group %q", key)}
		}
	}
	_, _, err := app.ReportFilterFromProperties(p, 0).DateRange()
	return err
}

// applySaveReport copies the request onto rep. Going public issues a share
// secret once; going private revokes it.
func applySaveReport(rep *domain.Report, req app.SaveReportRequest, now time.Time) error {
	rep.Name = strings.TrimSpace(req.Name)
	rep.Description = req.Description
	rep.Properties = req.Properties
	rep.IsPublic = req.IsPublic
	rep.UpdatedAt = now
	if !req.IsPublic {
		rep.ShareSecret = nil
		rep.PublicUntil = nil
		return nil
	}
	rep.PublicUntil = req.PublicUntil
	if rep.ShareSecret == nil {
		secret, err := newShareSecret()
		if err != nil {
			return err
		}
		rep.ShareSecret = &secret
	}
	return nil
}

func newShareSecret() (string, error) {
	buf := make([]byte, shareSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating share secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func notFoundAs(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &app.ReportError{Code: app.ReportErrNotFound, Message: what + " not found", Err: err}
	}
	return err
}
