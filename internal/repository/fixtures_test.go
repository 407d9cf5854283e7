package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/require"
)

// workspace is a minimal persisted organization used across repo tests.
type workspace struct {
	db      *sql.DB
	org     *domain.Organization
	ada     *domain.User
	bob     *domain.User
	adaM    *domain.Member
	bobM    *domain.Member
	client  *domain.Client
	billed  *domain.Project
	inhouse *domain.Project
	task    *domain.Task
	tag     *domain.Tag
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)

	w := &workspace{db: database}
	w.org = testutil.NewTestOrganization("Acme", testutil.WithOrgRate(testutil.Rate("50")))
	require.NoError(t, NewSQLiteOrganizationRepo(database).Create(ctx, w.org))

	users := NewSQLiteUserRepo(database)
	members := NewSQLiteMemberRepo(database)
	w.ada = testutil.NewTestUser("Ada")
	w.bob = testutil.NewTestUser("Bob")
	require.NoError(t, users.Create(ctx, w.ada))
	require.NoError(t, users.Create(ctx, w.bob))
	w.adaM = testutil.NewTestMember(w.org.ID, w.ada.ID, testutil.WithRole(domain.RoleAdmin))
	w.bobM = testutil.NewTestMember(w.org.ID, w.bob.ID, testutil.WithMemberRate(testutil.Rate("80")))
	require.NoError(t, members.Create(ctx, w.adaM))
	require.NoError(t, members.Create(ctx, w.bobM))

	w.client = testutil.NewTestClient(w.org.ID, "Globex")
	require.NoError(t, NewSQLiteClientRepo(database).Create(ctx, w.client))

	projects := NewSQLiteProjectRepo(database)
	w.billed = testutil.NewTestProject(w.org.ID, "Website",
		testutil.WithClient(w.client.ID), testutil.WithProjectRate(testutil.Rate("120")))
	w.inhouse = testutil.NewTestProject(w.org.ID, "Internal")
	require.NoError(t, projects.Create(ctx, w.billed))
	require.NoError(t, projects.Create(ctx, w.inhouse))

	w.task = testutil.NewTestTask(w.billed, "Design")
	require.NoError(t, NewSQLiteTaskRepo(database).Create(ctx, w.task))
	w.tag = testutil.NewTestTag(w.org.ID, "urgent")
	require.NoError(t, NewSQLiteTagRepo(database).Create(ctx, w.tag))
	return w
}

func (w *workspace) addEntry(t *testing.T, member *domain.Member, opts ...testutil.EntryOption) *domain.TimeEntry {
	t.Helper()
	e := testutil.NewTestEntry(member, opts...)
	require.NoError(t, NewSQLiteTimeEntryRepo(w.db).Create(context.Background(), e))
	return e
}
