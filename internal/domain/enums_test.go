package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_TotalOrder(t *testing.T) {
	order := []Role{RolePlaceholder, RoleEmployee, RoleManager, RoleAdmin, RoleOwner}
	for i := range order {
		for j := range order {
			assert.Equal(t, i >= j, order[i].AtLeast(order[j]), "%s >= %s", order[i], order[j])
		}
	}
	assert.False(t, Role("intern").AtLeast(RolePlaceholder))
	assert.False(t, Role("intern").Valid())
}

func TestRateLevel_Below(t *testing.T) {
	assert.Equal(t, []RateLevel{RateLevelProject, RateLevelOrganizationMember, RateLevelOrganization},
		RateLevelProjectMember.Below())
	assert.Equal(t, []RateLevel{RateLevelOrganization}, RateLevelOrganizationMember.Below())
	assert.Empty(t, RateLevelOrganization.Below())
	assert.Nil(t, RateLevel("team").Below())
	assert.False(t, RateLevel("team").Valid())
}
