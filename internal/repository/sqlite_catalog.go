package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/db"
	"github.com/alexanderramin/tally/internal/domain"
)

// SQLiteClientRepo implements ClientRepo using a SQLite database.
type SQLiteClientRepo struct {
	db db.DBTX
}

func NewSQLiteClientRepo(conn db.DBTX) *SQLiteClientRepo {
	return &SQLiteClientRepo{db: conn}
}

func (r *SQLiteClientRepo) Create(ctx context.Context, c *domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, organization_id, name, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.OrganizationID, c.Name, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting client: %w", err)
	}
	return nil
}

func (r *SQLiteClientRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Client, error) {
	var clients []*domain.Client
	err := listNamed(ctx, r.db, "clients", organizationID, func(id, name string, createdAt time.Time) {
		clients = append(clients, &domain.Client{ID: id, OrganizationID: organizationID, Name: name, CreatedAt: createdAt})
	})
	return clients, err
}

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, organization_id, project_id, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.OrganizationID, t.ProjectID, t.Name, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, created_at FROM tasks WHERE organization_id = ? ORDER BY name, id`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t := domain.Task{OrganizationID: organizationID}
		var createdAt string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// SQLiteTagRepo implements TagRepo using a SQLite database.
type SQLiteTagRepo struct {
	db db.DBTX
}

func NewSQLiteTagRepo(conn db.DBTX) *SQLiteTagRepo {
	return &SQLiteTagRepo{db: conn}
}

func (r *SQLiteTagRepo) Create(ctx context.Context, t *domain.Tag) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (id, organization_id, name, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.OrganizationID, t.Name, formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting tag: %w", err)
	}
	return nil
}

func (r *SQLiteTagRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := listNamed(ctx, r.db, "tags", organizationID, func(id, name string, createdAt time.Time) {
		tags = append(tags, &domain.Tag{ID: id, OrganizationID: organizationID, Name: name, CreatedAt: createdAt})
	})
	return tags, err
}

// listNamed reads (id, name, created_at) rows of an organization-scoped table.
func listNamed(ctx context.Context, conn db.DBTX, table, organizationID string, add func(id, name string, createdAt time.Time)) error {
	rows, err := conn.QueryContext(ctx,
		`SELECT id, name, created_at FROM `+table+` WHERE organization_id = ? ORDER BY name, id`, organizationID)
	if err != nil {
		return fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, createdAt string
		if err := rows.Scan(&id, &name, &createdAt); err != nil {
			return fmt.Errorf("scanning %s: %w", table, err)
		}
		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return fmt.Errorf("parsing created_at: %w", err)
		}
		add(id, name, created)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", table, err)
	}
	return nil
}
