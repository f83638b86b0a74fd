package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS consultants (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		surname    TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS recipients (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		vat_number TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS contracts (
		id           TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL REFERENCES recipients(id) ON DELETE CASCADE,
		start_date   TEXT NOT NULL,
		end_date     TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS services (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS contracted_services (
		id                TEXT PRIMARY KEY,
		contract_id       TEXT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		service_id        TEXT NOT NULL REFERENCES services(id) ON DELETE CASCADE,
		consultant_id     TEXT NOT NULL REFERENCES consultants(id) ON DELETE CASCADE,
		hours             INTEGER NOT NULL,
		hours_on_premises INTEGER NOT NULL,
		from_date         TEXT,
		to_date           TEXT,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		UNIQUE(contract_id, service_id, consultant_id)
	)`,

	`CREATE TABLE IF NOT EXISTS schedules (
		id            TEXT PRIMARY KEY,
		consultant_id TEXT NOT NULL REFERENCES consultants(id) ON DELETE CASCADE,
		from_date     TEXT NOT NULL,
		to_date       TEXT NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                    TEXT PRIMARY KEY,
		schedule_id           TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		contracted_service_id TEXT NOT NULL REFERENCES contracted_services(id) ON DELETE CASCADE,
		consultant_id         TEXT NOT NULL,
		start_at              TEXT NOT NULL,
		end_at                TEXT NOT NULL,
		on_premises           INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS changesets (
		id          TEXT PRIMARY KEY,
		schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS changeset_commands (
		changeset_id TEXT NOT NULL REFERENCES changesets(id) ON DELETE CASCADE,
		seq          INTEGER NOT NULL,
		kind         TEXT NOT NULL CHECK(kind IN ('add_task','remove_task','move_task')),
		task_id      TEXT NOT NULL,
		contracted_service_id TEXT NOT NULL DEFAULT '',
		on_premises  INTEGER NOT NULL DEFAULT 0,
		prev_start   TEXT,
		prev_end     TEXT,
		new_start    TEXT,
		new_end      TEXT,
		PRIMARY KEY(changeset_id, seq)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_contracted_services_consultant ON contracted_services(consultant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_recipient ON contracts(recipient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_schedule ON tasks(schedule_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_contracted_service ON tasks(contracted_service_id)`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_consultant ON schedules(consultant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_changesets_schedule ON changesets(schedule_id)`,
}
