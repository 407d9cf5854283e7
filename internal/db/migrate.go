package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillProjectMemberUsers(db); err != nil {
		return fmt.Errorf("backfilling project member users: %w", err)
	}
	return nil
}

// migrateBackfillProjectMemberUsers fills project_members.user_id for rows
// written before the column existed.
func migrateBackfillProjectMemberUsers(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), `UPDATE project_members
		SET user_id = (SELECT m.user_id FROM members m WHERE m.id = project_members.member_id)
		WHERE user_id = ''`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		currency      TEXT NOT NULL DEFAULT 'EUR',
		billable_rate TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS members (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		user_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role            TEXT NOT NULL DEFAULT 'employee'
		                CHECK(role IN ('owner','admin','manager','employee','placeholder')),
		billable_rate   TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE (organization_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS clients (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		created_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		client_id       TEXT REFERENCES clients(id) ON DELETE SET NULL,
		name            TEXT NOT NULL,
		color           TEXT NOT NULL DEFAULT '',
		billable_rate   TEXT,
		archived_at     TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(organization_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_client ON projects(client_id)`,

	`CREATE TABLE IF NOT EXISTS project_members (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		member_id     TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		billable_rate TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE (project_id, member_id)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		created_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		created_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS time_entries (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		user_id         TEXT NOT NULL REFERENCES users(id),
		member_id       TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		project_id      TEXT REFERENCES projects(id) ON DELETE SET NULL,
		task_id         TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		started_at      TEXT NOT NULL,
		ended_at        TEXT,
		billable        INTEGER NOT NULL DEFAULT 0,
		billable_rate   TEXT,
		description     TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_time_entries_org_start ON time_entries(organization_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_member ON time_entries(member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_project ON time_entries(project_id)`,

	`CREATE TABLE IF NOT EXISTS time_entry_tags (
		time_entry_id TEXT NOT NULL REFERENCES time_entries(id) ON DELETE CASCADE,
		tag_id        TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (time_entry_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		is_public       INTEGER NOT NULL DEFAULT 0,
		share_secret    TEXT,
		properties      TEXT NOT NULL DEFAULT '{}',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_share_secret ON reports(share_secret) WHERE share_secret IS NOT NULL`,

	// Added after the first release.
	`ALTER TABLE organizations ADD COLUMN employees_can_see_billable_rates INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE projects ADD COLUMN is_billable INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE reports ADD COLUMN public_until TEXT`,

	// Denormalized user on project members, backfilled in Migrate.
	`ALTER TABLE project_members ADD COLUMN user_id TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_project_members_user ON project_members(project_id, user_id)`,
}
