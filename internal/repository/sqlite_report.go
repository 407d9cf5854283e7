package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// SQLiteReportRepo implements ReportRepo using a SQLite database.
type SQLiteReportRepo struct {
	db db.DBTX
}

// NewSQLiteReportRepo creates a new SQLiteReportRepo.
func NewSQLiteReportRepo(conn db.DBTX) *SQLiteReportRepo {
	return &SQLiteReportRepo{db: conn}
}

const reportColumns = `id, organization_id, name, description, is_public, public_until, share_secret, properties, created_at, updated_at`

func (r *SQLiteReportRepo) Create(ctx context.Context, rep *domain.Report) error {
	props, err := json.Marshal(rep.Properties)
	if err != nil {
		return fmt.Errorf("encoding report properties: %w", err)
	}
	query := `INSERT INTO reports (` + reportColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rep.ID,
		rep.OrganizationID,
		rep.Name,
		rep.Description,
		boolToInt(rep.IsPublic),
		nullableTimeToString(rep.PublicUntil, time.RFC3339),
		nullableString(rep.ShareSecret),
		string(props),
		formatTime(rep.CreatedAt),
		formatTime(rep.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (r *SQLiteReportRepo) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	rep, err := scanReport(r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	return rep, err
}

func (r *SQLiteReportRepo) GetByShareSecret(ctx context.Context, secret string) (*domain.Report, error) {
	if secret == "" {
		return nil, fmt.Errorf("report: %w", ErrNotFound)
	}
	rep, err := scanReport(r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE share_secret = ?`, secret))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report: %w", ErrNotFound)
	}
	return rep, err
}

func (r *SQLiteReportRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE organization_id = ? ORDER BY created_at, name`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports: %w", err)
	}
	return reports, nil
}

func (r *SQLiteReportRepo) Update(ctx context.Context, rep *domain.Report) error {
	props, err := json.Marshal(rep.Properties)
	if err != nil {
		return fmt.Errorf("encoding report properties: %w", err)
	}
	query := `UPDATE reports SET name = ?, description = ?, is_public = ?, public_until = ?, share_secret = ?,
		properties = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		rep.Name,
		rep.Description,
		boolToInt(rep.IsPublic),
		nullableTimeToString(rep.PublicUntil, time.RFC3339),
		nullableString(rep.ShareSecret),
		string(props),
		formatTime(rep.UpdatedAt),
		rep.ID,
	)
	if err != nil {
		return fmt.Errorf("updating report: %w", err)
	}
	return requireAffected(res, "report", rep.ID)
}

func (r *SQLiteReportRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}
	return requireAffected(res, "report", id)
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var rep domain.Report
	var isPublic int
	var publicUntil, secret sql.NullString
	var props, createdAt, updatedAt string
	err := row.Scan(
		&rep.ID, &rep.OrganizationID, &rep.Name, &rep.Description,
		&isPublic, &publicUntil, &secret, &props,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning report: %w", err)
	}
	rep.IsPublic = intToBool(isPublic)
	rep.PublicUntil = parseNullableTime(publicUntil, time.RFC3339)
	rep.ShareSecret = parseNullableString(secret)
	if err := json.Unmarshal([]byte(props), &rep.Properties); err != nil {
		return nil, fmt.Errorf("decoding report %s properties: %w", rep.ID, err)
	}
	if rep.CreatedAt, rep.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &rep, nil
}
