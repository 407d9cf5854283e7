package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// harness wires every repository over one in-memory database.
type harness struct {
	t              *testing.T
	db             *sql.DB
	uow            db.UnitOfWork
	orgs           *repository.SQLiteOrganizationRepo
	users          *repository.SQLiteUserRepo
	members        *repository.SQLiteMemberRepo
	clients        *repository.SQLiteClientRepo
	projects       *repository.SQLiteProjectRepo
	projectMembers *repository.SQLiteProjectMemberRepo
	tasks          *repository.SQLiteTaskRepo
	tags           *repository.SQLiteTagRepo
	entries        *repository.SQLiteTimeEntryRepo
	rates          *repository.SQLiteRateRepo
	reports        *repository.SQLiteReportRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &harness{
		t:              t,
		db:             database,
		uow:            testutil.NewTestUoW(database),
		orgs:           repository.NewSQLiteOrganizationRepo(database),
		users:          repository.NewSQLiteUserRepo(database),
		members:        repository.NewSQLiteMemberRepo(database),
		clients:        repository.NewSQLiteClientRepo(database),
		projects:       repository.NewSQLiteProjectRepo(database),
		projectMembers: repository.NewSQLiteProjectMemberRepo(database),
		tasks:          repository.NewSQLiteTaskRepo(database),
		tags:           repository.NewSQLiteTagRepo(database),
		entries:        repository.NewSQLiteTimeEntryRepo(database),
		rates:          repository.NewSQLiteRateRepo(database),
		reports:        repository.NewSQLiteReportRepo(database),
	}
}

func (h *harness) catalogRepos() CatalogRepos {
	return CatalogRepos{
		Users:          h.users,
		Members:        h.members,
		Projects:       h.projects,
		Clients:        h.clients,
		Tasks:          h.tasks,
		Tags:           h.tags,
		ProjectMembers: h.projectMembers,
	}
}

func (h *harness) rateService() RateService {
	return NewRateService(h.rates, h.uow)
}

func (h *harness) reportService() ReportService {
	return NewReportService(h.orgs, h.entries, h.reports, h.catalogRepos(), 0)
}

func (h *harness) org(opts ...testutil.OrganizationOption) *domain.Organization {
	h.t.Helper()
	o := testutil.NewTestOrganization("Acme", opts...)
	require.NoError(h.t, h.orgs.Create(context.Background(), o))
	return o
}

// member creates a user named name and joins it to org.
func (h *harness) member(org *domain.Organization, name string, opts ...testutil.MemberOption) *domain.Member {
	h.t.Helper()
	ctx := context.Background()
	u := testutil.NewTestUser(name)
	require.NoError(h.t, h.users.Create(ctx, u))
	m := testutil.NewTestMember(org.ID, u.ID, opts...)
	require.NoError(h.t, h.members.Create(ctx, m))
	return m
}

func (h *harness) client(org *domain.Organization, name string) *domain.Client {
	h.t.Helper()
	c := testutil.NewTestClient(org.ID, name)
	require.NoError(h.t, h.clients.Create(context.Background(), c))
	return c
}

func (h *harness) project(org *domain.Organization, name string, opts ...testutil.ProjectOption) *domain.Project {
	h.t.Helper()
	p := testutil.NewTestProject(org.ID, name, opts...)
	require.NoError(h.t, h.projects.Create(context.Background(), p))
	return p
}

func (h *harness) projectMember(p *domain.Project, m *domain.Member, rate *decimal.Decimal) *domain.ProjectMember {
	h.t.Helper()
	pm := testutil.NewTestProjectMember(p, m, rate)
	require.NoError(h.t, h.projectMembers.Create(context.Background(), pm))
	return pm
}

func (h *harness) entry(m *domain.Member, opts ...testutil.EntryOption) *domain.TimeEntry {
	h.t.Helper()
	e := testutil.NewTestEntry(m, opts...)
	require.NoError(h.t, h.entries.Create(context.Background(), e))
	return e
}

// rateOf reloads an entry and returns its stored rate as a string, "nil"
// when unset.
func (h *harness) rateOf(e *domain.TimeEntry) string {
	h.t.Helper()
	got, err := h.entries.GetByID(context.Background(), e.ID)
	require.NoError(h.t, err)
	if got.BillableRate == nil {
		return "nil"
	}
	return got.BillableRate.String()
}

func ptr[T any](v T) *T {
	return &v
}
