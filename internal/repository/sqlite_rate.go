package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
)

// SQLiteRateRepo implements RateRepo over the rate column of the four
// precedence tables.
type SQLiteRateRepo struct {
	db db.DBTX
}

// NewSQLiteRateRepo creates a new SQLiteRateRepo.
func NewSQLiteRateRepo(conn db.DBTX) *SQLiteRateRepo {
	return &SQLiteRateRepo{db: conn}
}

var rateTables = map[domain.RateLevel]string{
	domain.RateLevelProjectMember:      "project_members",
	domain.RateLevelProject:            "projects",
	domain.RateLevelOrganizationMember: "members",
	domain.RateLevelOrganization:       "organizations",
}

// FindRate returns the rate configured at level for key, or nil when the
// level holds no row or a null rate.
func (r *SQLiteRateRepo) FindRate(ctx context.Context, level domain.RateLevel, key RateKey) (*decimal.Decimal, error) {
	var query string
	var args []any
	switch level {
	case domain.RateLevelProjectMember:
		if key.ProjectID == "" {
			return nil, nil
		}
		query = `SELECT billable_rate FROM project_members WHERE project_id = ? AND user_id = ?`
		args = []any{key.ProjectID, key.UserID}
	case domain.RateLevelProject:
		if key.ProjectID == "" {
			return nil, nil
		}
		query = `SELECT billable_rate FROM projects WHERE id = ? AND organization_id = ?`
		args = []any{key.ProjectID, key.OrganizationID}
	case domain.RateLevelOrganizationMember:
		query = `SELECT billable_rate FROM members WHERE organization_id = ? AND user_id = ?`
		args = []any{key.OrganizationID, key.UserID}
	case domain.RateLevelOrganization:
		query = `SELECT billable_rate FROM organizations WHERE id = ?`
		args = []any{key.OrganizationID}
	default:
		return nil, fmt.Errorf("unknown rate level %q", level)
	}

	var rate sql.NullString
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&rate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding %s rate: %w", level, err)
	}
	return parseNullableRate(rate)
}

// GetSourceRate reads the rate of the record identified by sourceID.
func (r *SQLiteRateRepo) GetSourceRate(ctx context.Context, level domain.RateLevel, sourceID string) (*decimal.Decimal, error) {
	table, ok := rateTables[level]
	if !ok {
		return nil, fmt.Errorf("unknown rate level %q", level)
	}
	var rate sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT billable_rate FROM `+table+` WHERE id = ?`, sourceID).Scan(&rate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", level, sourceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s rate: %w", level, err)
	}
	return parseNullableRate(rate)
}

func (r *SQLiteRateRepo) SetSourceRate(ctx context.Context, level domain.RateLevel, sourceID string, rate *decimal.Decimal) error {
	table, ok := rateTables[level]
	if !ok {
		return fmt.Errorf("unknown rate level %q", level)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET billable_rate = ?, updated_at = ? WHERE id = ?`,
		rateToValue(rate), formatTime(nowUTC()), sourceID)
	if err != nil {
		return fmt.Errorf("writing %s rate: %w", level, err)
	}
	return requireAffected(res, string(level), sourceID)
}
