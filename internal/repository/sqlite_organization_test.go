package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteOrganizationRepo(database)
	ctx := context.Background()

	org := testutil.NewTestOrganization("Acme",
		testutil.WithOrgRate(testutil.Rate("49.95")),
		testutil.WithEmployeesSeeRates(false))
	require.NoError(t, repo.Create(ctx, org))

	fetched, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", fetched.Name)
	assert.Equal(t, "EUR", fetched.Currency)
	require.NotNil(t, fetched.BillableRate)
	assert.Equal(t, "49.95", fetched.BillableRate.String())
	assert.False(t, fetched.EmployeesCanSeeBillableRates)
	assert.True(t, org.CreatedAt.Equal(fetched.CreatedAt))
}

func TestOrganizationRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteOrganizationRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrganizationRepo_UpdateLeavesRate(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteOrganizationRepo(database)
	ctx := context.Background()

	org := testutil.NewTestOrganization("Acme", testutil.WithOrgRate(testutil.Rate("50")))
	require.NoError(t, repo.Create(ctx, org))

	org.Name = "Acme Corp"
	org.Currency = "USD"
	org.BillableRate = testutil.Rate("70")
	require.NoError(t, repo.Update(ctx, org))

	fetched, err := repo.GetByID(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", fetched.Name)
	assert.Equal(t, "USD", fetched.Currency)
	assert.Equal(t, "50", fetched.BillableRate.String(), "rate changes go through the rate repo")

	missing := testutil.NewTestOrganization("Ghost")
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}

func TestOrganizationRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteOrganizationRepo(database)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestOrganization("B")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestOrganization("A")))

	orgs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orgs, 2)
}

func TestMemberRepo_GetByUser(t *testing.T) {
	w := newWorkspace(t)
	repo := NewSQLiteMemberRepo(w.db)
	ctx := context.Background()

	m, err := repo.GetByUser(ctx, w.org.ID, w.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, w.bobM.ID, m.ID)
	assert.Equal(t, domain.RoleEmployee, m.Role)
	require.NotNil(t, m.BillableRate)
	assert.Equal(t, "80", m.BillableRate.String())

	_, err = repo.GetByUser(ctx, w.org.ID, "stranger")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemberRepo_ListByOrganization(t *testing.T) {
	w := newWorkspace(t)

	members, err := NewSQLiteMemberRepo(w.db).ListByOrganization(context.Background(), w.org.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	users, err := NewSQLiteUserRepo(w.db).ListByOrganization(context.Background(), w.org.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ada", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}

func TestProjectRepo_ClientAndArchive(t *testing.T) {
	w := newWorkspace(t)
	repo := NewSQLiteProjectRepo(w.db)
	ctx := context.Background()

	fetched, err := repo.GetByID(ctx, w.billed.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.ClientID)
	assert.Equal(t, w.client.ID, *fetched.ClientID)
	assert.Equal(t, "120", fetched.BillableRate.String())

	archived := testutil.Day(2024, 6, 1)
	w.inhouse.ArchivedAt = &archived
	require.NoError(t, repo.Update(ctx, w.inhouse))

	active, err := repo.ListByOrganization(ctx, w.org.ID, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, w.billed.ID, active[0].ID)

	all, err := repo.ListByOrganization(ctx, w.org.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogRepos_List(t *testing.T) {
	w := newWorkspace(t)
	ctx := context.Background()

	clients, err := NewSQLiteClientRepo(w.db).ListByOrganization(ctx, w.org.ID)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Globex", clients[0].Name)

	tasks, err := NewSQLiteTaskRepo(w.db).ListByOrganization(ctx, w.org.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, w.billed.ID, tasks[0].ProjectID)

	tags, err := NewSQLiteTagRepo(w.db).ListByOrganization(ctx, w.org.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "urgent", tags[0].Name)
}
