package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Organization struct {
	ID                           string
	Name                         string
	Currency                     string
	BillableRate                 *decimal.Decimal
	EmployeesCanSeeBillableRates bool
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

// Member ties a user to an organization with a role and an optional
// organization-wide rate override.
type Member struct {
	ID             string
	OrganizationID string
	UserID         string
	Role           Role
	BillableRate   *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Client struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}

type Project struct {
	ID             string
	OrganizationID string
	ClientID       *string
	Name           string
	Color          string
	BillableRate   *decimal.Decimal
	IsBillable     bool
	ArchivedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProjectMember holds a per-project rate override for one user.
type ProjectMember struct {
	ID           string
	ProjectID    string
	MemberID     string
	UserID       string
	BillableRate *decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Task struct {
	ID             string
	OrganizationID string
	ProjectID      string
	Name           string
	CreatedAt      time.Time
}

type Tag struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
}
