package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// SQLiteOrganizationRepo implements OrganizationRepo using a SQLite database.
type SQLiteOrganizationRepo struct {
	db db.DBTX
}

// NewSQLiteOrganizationRepo creates a new SQLiteOrganizationRepo.
func NewSQLiteOrganizationRepo(conn db.DBTX) *SQLiteOrganizationRepo {
	return &SQLiteOrganizationRepo{db: conn}
}

const organizationColumns = `id, name, currency, billable_rate, employees_can_see_billable_rates, created_at, updated_at`

func (r *SQLiteOrganizationRepo) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO organizations (` + organizationColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.Name,
		o.Currency,
		rateToValue(o.BillableRate),
		boolToInt(o.EmployeesCanSeeBillableRates),
		formatTime(o.CreatedAt),
		formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting organization: %w", err)
	}
	return nil
}

func (r *SQLiteOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = ?`
	o, err := scanOrganization(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("organization %s: %w", id, ErrNotFound)
	}
	return o, err
}

func (r *SQLiteOrganizationRepo) List(ctx context.Context) ([]*domain.Organization, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+organizationColumns+` FROM organizations ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*domain.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating organizations: %w", err)
	}
	return orgs, nil
}

// Update writes every column except the rate, which only RateRepo changes.
func (r *SQLiteOrganizationRepo) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE organizations SET name = ?, currency = ?, employees_can_see_billable_rates = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		o.Name,
		o.Currency,
		boolToInt(o.EmployeesCanSeeBillableRates),
		formatTime(o.UpdatedAt),
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating organization: %w", err)
	}
	return requireAffected(res, "organization", o.ID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*domain.Organization, error) {
	var o domain.Organization
	var rate sql.NullString
	var canSee int
	var createdAt, updatedAt string
	if err := row.Scan(&o.ID, &o.Name, &o.Currency, &rate, &canSee, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning organization: %w", err)
	}
	var err error
	if o.BillableRate, err = parseNullableRate(rate); err != nil {
		return nil, err
	}
	o.EmployeesCanSeeBillableRates = intToBool(canSee)
	if o.CreatedAt, o.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
