package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// SQLiteProjectMemberRepo implements ProjectMemberRepo using a SQLite database.
type SQLiteProjectMemberRepo struct {
	db db.DBTX
}

// NewSQLiteProjectMemberRepo creates a new SQLiteProjectMemberRepo.
func NewSQLiteProjectMemberRepo(conn db.DBTX) *SQLiteProjectMemberRepo {
	return &SQLiteProjectMemberRepo{db: conn}
}

const projectMemberColumns = `id, project_id, member_id, user_id, billable_rate, created_at, updated_at`

func (r *SQLiteProjectMemberRepo) Create(ctx context.Context, pm *domain.ProjectMember) error {
	query := `INSERT INTO project_members (` + projectMemberColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		pm.ID,
		pm.ProjectID,
		pm.MemberID,
		pm.UserID,
		rateToValue(pm.BillableRate),
		formatTime(pm.CreatedAt),
		formatTime(pm.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project member: %w", err)
	}
	return nil
}

func (r *SQLiteProjectMemberRepo) GetByID(ctx context.Context, id string) (*domain.ProjectMember, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectMemberColumns+` FROM project_members WHERE id = ?`, id)
	pm, err := scanProjectMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project member %s: %w", id, ErrNotFound)
	}
	return pm, err
}

func (r *SQLiteProjectMemberRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectMemberColumns+` FROM project_members WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing project members: %w", err)
	}
	defer rows.Close()

	var out []*domain.ProjectMember
	for rows.Next() {
		pm, err := scanProjectMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project members: %w", err)
	}
	return out, nil
}

func scanProjectMember(row rowScanner) (*domain.ProjectMember, error) {
	var pm domain.ProjectMember
	var rate sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(&pm.ID, &pm.ProjectID, &pm.MemberID, &pm.UserID, &rate, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project member: %w", err)
	}
	var err error
	if pm.BillableRate, err = parseNullableRate(rate); err != nil {
		return nil, err
	}
	if pm.CreatedAt, pm.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &pm, nil
}
