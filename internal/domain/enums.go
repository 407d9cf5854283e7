package domain

// Role is a member's role within an organization. Roles form a total order,
// see Rank and AtLeast.
type Role string

const (
	RoleOwner       Role = "owner"
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
	RoleEmployee    Role = "employee"
	RolePlaceholder Role = "placeholder"
)

var roleRanks = map[Role]int{
	RolePlaceholder: 0,
	RoleEmployee:    1,
	RoleManager:     2,
	RoleAdmin:       3,
	RoleOwner:       4,
}

// Rank returns the position of r in the role order. Unknown roles rank
// below every known role.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether r is at or above threshold in the role order.
func (r Role) AtLeast(threshold Role) bool {
	return r.Rank() >= threshold.Rank()
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// RateLevel is one of the four places a billable rate can be configured,
// listed from most to least specific.
type RateLevel string

const (
	RateLevelProjectMember      RateLevel = "project_member"
	RateLevelProject            RateLevel = "project"
	RateLevelOrganizationMember RateLevel = "organization_member"
	RateLevelOrganization       RateLevel = "organization"
)

// RatePrecedence is the resolution order, most specific first.
var RatePrecedence = []RateLevel{
	RateLevelProjectMember,
	RateLevelProject,
	RateLevelOrganizationMember,
	RateLevelOrganization,
}

// Valid reports whether l is a known rate level.
func (l RateLevel) Valid() bool {
	for _, known := range RatePrecedence {
		if l == known {
			return true
		}
	}
	return false
}

// Below returns the levels that are less specific than l, in precedence order.
func (l RateLevel) Below() []RateLevel {
	for i, known := range RatePrecedence {
		if l == known {
			return RatePrecedence[i+1:]
		}
	}
	return nil
}

// GroupKey names a grouping dimension for aggregated time entries.
type GroupKey string

const (
	GroupDate        GroupKey = "date"
	GroupDay         GroupKey = "day"
	GroupWeek        GroupKey = "week"
	GroupMonth       GroupKey = "month"
	GroupMembers     GroupKey = "members"
	GroupProjects    GroupKey = "projects"
	GroupTasks       GroupKey = "tasks"
	GroupClients     GroupKey = "clients"
	GroupBillable    GroupKey = "billable"
	GroupDescription GroupKey = "description"
)

// IsDate reports whether k groups by calendar day.
func (k GroupKey) IsDate() bool {
	return k == GroupDate || k == GroupDay
}

// Known reports whether k is part of the grouping vocabulary. Unknown keys
// are still accepted by the grouping engine and fall back to a raw field
// lookup on the entry.
func (k GroupKey) Known() bool {
	switch k {
	case GroupDate, GroupDay, GroupWeek, GroupMonth, GroupMembers, GroupProjects,
		GroupTasks, GroupClients, GroupBillable, GroupDescription:
		return true
	}
	return false
}

// NullKey is the bucket key for entries without a value for a dimension.
const NullKey = "null"
