package app

import "github.com/alexanderramin/tally/internal/domain"

// Viewer is the authenticated member a report is built for. A nil viewer
// means an unauthenticated public read.
type Viewer struct {
	UserID   string
	MemberID string
	Role     domain.Role
}

// Restricted reports whether the viewer's reports are filtered and scoped
// to their own time.
func (v *Viewer) Restricted() bool {
	return v != nil && !v.Role.AtLeast(domain.RoleManager)
}
