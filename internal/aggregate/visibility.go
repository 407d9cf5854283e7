package aggregate

import "github.com/alexanderramin/tally/internal/domain"

// FilterForRole prunes what a viewer with role may see. Roles below manager
// lose every named client bucket, at whatever depth clients were grouped,
// and groups left with no time and no children are dropped. Other roles get
// groups back unchanged.
func FilterForRole(groups []domain.Group, groupedType *domain.GroupKey, role domain.Role) []domain.Group {
	if role.AtLeast(domain.RoleManager) {
		return groups
	}
	return filterLevel(groups, groupedType)
}

func filterLevel(groups []domain.Group, groupedType *domain.GroupKey) []domain.Group {
	if groups == nil {
		return nil
	}
	clients := groupedType != nil && *groupedType == domain.GroupClients
	out := make([]domain.Group, 0, len(groups))
	for _, g := range groups {
		if clients && g.Key != domain.NullKey {
			continue
		}
		if g.GroupedData != nil {
			g.GroupedData = filterLevel(g.GroupedData, g.GroupedType)
		}
		if g.Seconds == 0 && len(g.GroupedData) == 0 {
			continue
		}
		out = append(out, g)
	}
	return out
}

// RedactCost zeroes cost at every level.
func RedactCost(groups []domain.Group) []domain.Group {
	if groups == nil {
		return nil
	}
	out := make([]domain.Group, len(groups))
	for i, g := range groups {
		g.Cost = 0
		g.GroupedData = RedactCost(g.GroupedData)
		out[i] = g
	}
	return out
}
