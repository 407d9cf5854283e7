package aggregate

import (
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientProjectGroups() []domain.Group {
	entries := []*domain.TimeEntry{
		entry("e1", at(1, 9), 3600, onProject("p1"), billedAt("100")),
		entry("e2", at(1, 10), 1800, onProject("p2")),
		entry("e3", at(1, 11), 600),
	}
	return GroupEntries(entries, []domain.GroupKey{domain.GroupClients, domain.GroupProjects}, Options{Catalog: testCatalog()})
}

func TestFilterForRole_EmployeeSeesNoNamedClients(t *testing.T) {
	clients := domain.GroupClients
	groups := clientProjectGroups()
	require.Len(t, groups, 2)

	filtered := FilterForRole(groups, &clients, domain.RoleEmployee)

	require.Len(t, filtered, 1)
	assert.Equal(t, domain.NullKey, filtered[0].Key)
	require.Len(t, filtered[0].GroupedData, 2, "projects under the null client stay visible")
	for _, g := range filtered {
		assert.NotEqual(t, "c1", g.Key)
	}
}

func TestFilterForRole_NestedClientLevel(t *testing.T) {
	entries := []*domain.TimeEntry{
		entry("e1", at(1, 9), 3600, onProject("p1"), byMember("m1")),
		entry("e2", at(1, 10), 1800, onProject("p2"), byMember("m1")),
		entry("e3", at(1, 11), 600, onProject("p1"), byMember("m2")),
	}
	members := domain.GroupMembers
	groups := GroupEntries(entries, []domain.GroupKey{domain.GroupMembers, domain.GroupClients}, Options{Catalog: testCatalog()})

	filtered := FilterForRole(groups, &members, domain.RoleEmployee)

	require.Len(t, filtered, 2, "member groups with tracked time stay")
	assert.Equal(t, "m1", filtered[0].Key)
	require.Len(t, filtered[0].GroupedData, 1)
	assert.Equal(t, domain.NullKey, filtered[0].GroupedData[0].Key)
	assert.Equal(t, "m2", filtered[1].Key)
	assert.Empty(t, filtered[1].GroupedData, "Bob only tracked client time")
}

func TestFilterForRole_PrunesEmptyLeaves(t *testing.T) {
	dates := domain.GroupDate
	groups := []domain.Group{
		{Key: "2024-01-01", Seconds: 60},
		{Key: "2024-01-02"},
	}

	filtered := FilterForRole(groups, &dates, domain.RolePlaceholder)
	require.Len(t, filtered, 1)
	assert.Equal(t, "2024-01-01", filtered[0].Key)
}

func TestFilterForRole_PrivilegedRolesPassThrough(t *testing.T) {
	clients := domain.GroupClients
	for _, role := range []domain.Role{domain.RoleManager, domain.RoleAdmin, domain.RoleOwner} {
		groups := clientProjectGroups()
		assert.Equal(t, groups, FilterForRole(groups, &clients, role), "role %s", role)
	}
}

func TestFilterForRole_Nil(t *testing.T) {
	assert.Nil(t, FilterForRole(nil, nil, domain.RoleEmployee))
}

func TestRedactCost(t *testing.T) {
	groups := clientProjectGroups()
	require.NotZero(t, groups[0].Cost)

	redacted := RedactCost(groups)
	for _, g := range redacted {
		assert.Zero(t, g.Cost)
		for _, c := range g.GroupedData {
			assert.Zero(t, c.Cost)
		}
	}
	assert.NotZero(t, groups[0].Cost, "input is not modified")
	assert.Equal(t, groups[0].Seconds, redacted[0].Seconds)
}

func TestNewCatalog(t *testing.T) {
	client := "c1"
	catalog := NewCatalog(
		[]*domain.User{{ID: "u1", Name: "Ada"}},
		[]*domain.Member{{ID: "m1", UserID: "u1"}},
		[]*domain.Project{{ID: "p1", Name: "Website", ClientID: &client}},
		[]*domain.Client{{ID: "c1", Name: "Globex"}},
		[]*domain.Task{{ID: "t1", Name: "Design"}},
	)

	assert.Equal(t, "Ada", catalog.Members["m1"])
	assert.Equal(t, "Website", catalog.Projects["p1"].Name)
	assert.Equal(t, "c1", catalog.clientOf(&[]string{"p1"}[0]))
	assert.Equal(t, domain.NullKey, catalog.clientOf(nil))
	assert.Equal(t, "Globex", catalog.Clients["c1"])
	assert.Equal(t, "Design", catalog.Tasks["t1"])
}
