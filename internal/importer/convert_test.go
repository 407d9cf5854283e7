package importer

import (
	"testing"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Workspace {
	t.Helper()
	schema, err := LoadWorkspaceSchema("testdata/acme.yaml")
	require.NoError(t, err)
	require.Empty(t, ValidateWorkspaceSchema(schema))
	ws, err := Convert(schema)
	require.NoError(t, err)
	return ws
}

func TestConvert_MinimalWorkspace(t *testing.T) {
	ws, err := Convert(validMinimalSchema())
	require.NoError(t, err)

	assert.NotEmpty(t, ws.Organization.ID)
	assert.Equal(t, "Acme", ws.Organization.Name)
	assert.Equal(t, "EUR", ws.Organization.Currency)
	assert.Nil(t, ws.Organization.BillableRate)
	assert.False(t, ws.Organization.EmployeesCanSeeBillableRates)

	require.Len(t, ws.Users, 1)
	require.Len(t, ws.Members, 1)
	assert.Equal(t, ws.Users[0].ID, ws.Members[0].UserID)
	assert.Equal(t, ws.Organization.ID, ws.Members[0].OrganizationID)
	assert.Equal(t, domain.RoleEmployee, ws.Members[0].Role)
	assert.Empty(t, ws.Entries)
	assert.Empty(t, ws.NeedsRate)
}

func TestConvert_ResolvesRefs(t *testing.T) {
	ws := loadFixture(t)

	assert.Equal(t, "50", ws.Organization.BillableRate.String())
	require.Len(t, ws.Members, 2)
	assert.Equal(t, domain.RoleAdmin, ws.Members[0].Role)
	assert.Nil(t, ws.Members[0].BillableRate)
	assert.Equal(t, "80", ws.Members[1].BillableRate.String())

	require.Len(t, ws.Projects, 2)
	website, internal := ws.Projects[0], ws.Projects[1]
	require.NotNil(t, website.ClientID)
	assert.Equal(t, ws.Clients[0].ID, *website.ClientID)
	assert.True(t, website.IsBillable, "a project with a rate bills by default")
	assert.False(t, internal.IsBillable)
	assert.Equal(t, defaultColor, internal.Color)

	require.Len(t, ws.ProjectMembers, 1)
	pm := ws.ProjectMembers[0]
	assert.Equal(t, website.ID, pm.ProjectID)
	assert.Equal(t, ws.Members[0].ID, pm.MemberID)
	assert.Equal(t, ws.Users[0].ID, pm.UserID)
	assert.Equal(t, "150", pm.BillableRate.String())

	require.Len(t, ws.Tasks, 1)
	assert.Equal(t, website.ID, ws.Tasks[0].ProjectID)
}

func TestConvert_Entries(t *testing.T) {
	ws := loadFixture(t)
	require.Len(t, ws.Entries, 4)

	first := ws.Entries[0]
	assert.Equal(t, ws.Members[0].ID, first.MemberID)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), first.Start)
	assert.Equal(t, int64(3600), first.DurationSeconds())
	assert.True(t, first.Billable)
	assert.Nil(t, first.BillableRate)
	assert.True(t, ws.NeedsRate[first.ID])
	assert.Equal(t, []string{ws.Tags[0].ID}, first.TagIDs)
	require.NotNil(t, first.TaskID)
	assert.Equal(t, ws.Tasks[0].ID, *first.TaskID)

	assert.Equal(t, int64(5400), ws.Entries[1].DurationSeconds())

	internal := ws.Entries[2]
	assert.False(t, internal.Billable)
	assert.False(t, ws.NeedsRate[internal.ID])

	explicit := ws.Entries[3]
	assert.Nil(t, explicit.ProjectID)
	assert.True(t, explicit.Billable)
	assert.Equal(t, "95", explicit.BillableRate.String())
	assert.False(t, ws.NeedsRate[explicit.ID])
}

func TestConvert_Reports(t *testing.T) {
	ws := loadFixture(t)
	require.Len(t, ws.Reports, 2)

	shared := ws.Reports[0]
	assert.True(t, shared.IsPublic)
	require.NotNil(t, shared.PublicUntil)
	assert.Equal(t, 2030, shared.PublicUntil.Year())
	assert.Equal(t, []domain.GroupKey{domain.GroupProjects, domain.GroupMembers}, shared.Properties.GroupKeys())
	assert.Nil(t, shared.ShareSecret, "secrets are issued when the report is stored")

	scoped := ws.Reports[1]
	assert.Equal(t, []string{ws.Projects[0].ID}, scoped.Properties.ProjectIDs)
	require.NotNil(t, scoped.Properties.Billable)
	assert.True(t, *scoped.Properties.Billable)
	assert.Equal(t, "2024-01-07", scoped.Properties.EndDate)
}
