package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/shopspring/decimal"
)

// maxBatchArgs caps the number of bound ids per IN clause.
const maxBatchArgs = 500

// SQLiteTimeEntryRepo implements TimeEntryRepo using a SQLite database.
type SQLiteTimeEntryRepo struct {
	db db.DBTX
}

// NewSQLiteTimeEntryRepo creates a new SQLiteTimeEntryRepo.
func NewSQLiteTimeEntryRepo(conn db.DBTX) *SQLiteTimeEntryRepo {
	return &SQLiteTimeEntryRepo{db: conn}
}

const timeEntryColumns = `e.id, e.organization_id, e.user_id, e.member_id, e.project_id, e.task_id,
	e.started_at, e.ended_at, e.billable, e.billable_rate, e.description, e.created_at, e.updated_at`

func (r *SQLiteTimeEntryRepo) Create(ctx context.Context, e *domain.TimeEntry) error {
	query := `INSERT INTO time_entries (id, organization_id, user_id, member_id, project_id, task_id,
		started_at, ended_at, billable, billable_rate, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.OrganizationID,
		e.UserID,
		e.MemberID,
		nullableString(e.ProjectID),
		nullableString(e.TaskID),
		formatTime(e.Start),
		nullableTimeToString(e.End, time.RFC3339),
		boolToInt(e.Billable),
		rateToValue(e.BillableRate),
		e.Description,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting time entry: %w", err)
	}
	return r.insertTags(ctx, e.ID, e.TagIDs)
}

func (r *SQLiteTimeEntryRepo) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timeEntryColumns+` FROM time_entries e WHERE e.id = ?`, id)
	e, err := scanTimeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("time entry %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*domain.TimeEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// GetRunning returns the member's most recent entry without an end.
func (r *SQLiteTimeEntryRepo) GetRunning(ctx context.Context, memberID string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries e
		WHERE e.member_id = ? AND e.ended_at IS NULL
		ORDER BY e.started_at DESC LIMIT 1`
	e, err := scanTimeEntry(r.db.QueryRowContext(ctx, query, memberID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("running time entry for member %s: %w", memberID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, []*domain.TimeEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *SQLiteTimeEntryRepo) Update(ctx context.Context, e *domain.TimeEntry) error {
	query := `UPDATE time_entries SET project_id = ?, task_id = ?, started_at = ?, ended_at = ?,
		billable = ?, billable_rate = ?, description = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(e.ProjectID),
		nullableString(e.TaskID),
		formatTime(e.Start),
		nullableTimeToString(e.End, time.RFC3339),
		boolToInt(e.Billable),
		rateToValue(e.BillableRate),
		e.Description,
		formatTime(e.UpdatedAt),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating time entry: %w", err)
	}
	if err := requireAffected(res, "time entry", e.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_entry_tags WHERE time_entry_id = ?`, e.ID); err != nil {
		return fmt.Errorf("clearing time entry tags: %w", err)
	}
	return r.insertTags(ctx, e.ID, e.TagIDs)
}

// Find returns the entries matching f ordered by start.
func (r *SQLiteTimeEntryRepo) Find(ctx context.Context, f EntryFilter) ([]*domain.TimeEntry, error) {
	where := []string{"e.organization_id = ?"}
	args := []any{f.OrganizationID}

	if f.Start != nil {
		where = append(where, "e.started_at >= ?")
		args = append(args, formatTime(*f.Start))
	}
	if f.End != nil {
		where = append(where, "e.started_at < ?")
		args = append(args, formatTime(*f.End))
	}
	in := func(expr string, ids []string) {
		if len(ids) == 0 {
			return
		}
		where = append(where, fmt.Sprintf(expr, placeholders(len(ids))))
		args = append(args, stringArgs(ids)...)
	}
	in("e.member_id IN (%s)", f.MemberIDs)
	in("e.user_id IN (%s)", f.UserIDs)
	in("e.project_id IN (%s)", f.ProjectIDs)
	in("e.task_id IN (%s)", f.TaskIDs)
	in("e.project_id IN (SELECT id FROM projects WHERE client_id IN (%s))", f.ClientIDs)
	in("e.id IN (SELECT time_entry_id FROM time_entry_tags WHERE tag_id IN (%s))", f.TagIDs)
	if f.Billable != nil {
		where = append(where, "e.billable = ?")
		args = append(args, boolToInt(*f.Billable))
	}

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries e WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY e.started_at, e.id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding time entries: %w", err)
	}

	var entries []*domain.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating time entries: %w", err)
	}
	rows.Close()

	if err := r.loadTags(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// BulkUpdateRate sets the snapshotted rate on every listed entry and
// returns the number of rows changed.
func (r *SQLiteTimeEntryRepo) BulkUpdateRate(ctx context.Context, ids []string, rate *decimal.Decimal) (int64, error) {
	now := formatTime(nowUTC())
	var total int64
	for start := 0; start < len(ids); start += maxBatchArgs {
		batch := ids[start:min(start+maxBatchArgs, len(ids))]
		query := `UPDATE time_entries SET billable_rate = ?, updated_at = ? WHERE id IN (` + placeholders(len(batch)) + `)`
		args := append([]any{rateToValue(rate), now}, stringArgs(batch)...)
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return total, fmt.Errorf("updating time entry rates: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("reading affected rows: %w", err)
		}
		total += n
	}
	return total, nil
}

func (r *SQLiteTimeEntryRepo) insertTags(ctx context.Context, entryID string, tagIDs []string) error {
	for _, tagID := range domain.SplitIDs(strings.Join(tagIDs, ",")) {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO time_entry_tags (time_entry_id, tag_id) VALUES (?, ?)`, entryID, tagID); err != nil {
			return fmt.Errorf("inserting time entry tag: %w", err)
		}
	}
	return nil
}

// loadTags fills TagIDs for the given entries in batched queries.
func (r *SQLiteTimeEntryRepo) loadTags(ctx context.Context, entries []*domain.TimeEntry) error {
	byID := make(map[string]*domain.TimeEntry, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	for start := 0; start < len(ids); start += maxBatchArgs {
		batch := ids[start:min(start+maxBatchArgs, len(ids))]
		rows, err := r.db.QueryContext(ctx,
			`SELECT time_entry_id, tag_id FROM time_entry_tags WHERE time_entry_id IN (`+placeholders(len(batch))+`)
			ORDER BY rowid`,
			stringArgs(batch)...)
		if err != nil {
			return fmt.Errorf("loading time entry tags: %w", err)
		}
		for rows.Next() {
			var entryID, tagID string
			if err := rows.Scan(&entryID, &tagID); err != nil {
				rows.Close()
				return fmt.Errorf("scanning time entry tag: %w", err)
			}
			if e, ok := byID[entryID]; ok {
				e.TagIDs = append(e.TagIDs, tagID)
			}
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("iterating time entry tags: %w", err)
		}
	}
	return nil
}

func scanTimeEntry(row rowScanner) (*domain.TimeEntry, error) {
	var e domain.TimeEntry
	var projectID, taskID, endedAt, rate sql.NullString
	var startedAt, createdAt, updatedAt string
	var billable int
	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.UserID, &e.MemberID, &projectID, &taskID,
		&startedAt, &endedAt, &billable, &rate, &e.Description, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning time entry: %w", err)
	}
	e.ProjectID = parseNullableString(projectID)
	e.TaskID = parseNullableString(taskID)
	if e.Start, err = time.Parse(time.RFC3339, startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	e.End = parseNullableTime(endedAt, time.RFC3339)
	e.Billable = intToBool(billable)
	if e.BillableRate, err = parseNullableRate(rate); err != nil {
		return nil, err
	}
	if e.CreatedAt, e.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
