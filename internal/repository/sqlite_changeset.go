package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ingaggio/internal/db"
)

// SQLiteChangesetRepo implements ChangesetRepo using a SQLite database.
// Changesets are append-only audit records; they are never updated or
// deleted individually.
type SQLiteChangesetRepo struct {
	db db.DBTX
}

func NewSQLiteChangesetRepo(dbtx db.DBTX) *SQLiteChangesetRepo {
	return &SQLiteChangesetRepo{db: dbtx}
}

func (r *SQLiteChangesetRepo) Create(ctx context.Context, rec *ChangesetRecord) error {
	query := `INSERT INTO changesets (id, schedule_id, created_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.ScheduleID, rec.CreatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting changeset: %w", err)
	}
	for _, cmd := range rec.Commands {
		query := `INSERT INTO changeset_commands
			(changeset_id, seq, kind, task_id, contracted_service_id, on_premises,
			prev_start, prev_end, new_start, new_end)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := r.db.ExecContext(ctx, query,
			rec.ID,
			cmd.Seq,
			cmd.Kind,
			cmd.TaskID,
			cmd.ContractedServiceID,
			boolToInt(cmd.OnPremises),
			nullableTimeToString(cmd.PrevStart, time.RFC3339),
			nullableTimeToString(cmd.PrevEnd, time.RFC3339),
			nullableTimeToString(cmd.NewStart, time.RFC3339),
			nullableTimeToString(cmd.NewEnd, time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting changeset command %d: %w", cmd.Seq, err)
		}
	}
	return nil
}

func (r *SQLiteChangesetRepo) GetByID(ctx context.Context, id string) (*ChangesetRecord, error) {
	query := `SELECT id, schedule_id, created_at FROM changesets WHERE id = ?`
	rec, err := scanChangeset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadCommands(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteChangesetRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]*ChangesetRecord, error) {
	query := `SELECT id, schedule_id, created_at FROM changesets WHERE schedule_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing changesets: %w", err)
	}
	defer rows.Close()

	var out []*ChangesetRecord
	for rows.Next() {
		rec, err := scanChangeset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, rec := range out {
		if err := r.loadCommands(ctx, rec); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *SQLiteChangesetRepo) loadCommands(ctx context.Context, rec *ChangesetRecord) error {
	query := `SELECT changeset_id, seq, kind, task_id, contracted_service_id, on_premises,
		prev_start, prev_end, new_start, new_end
		FROM changeset_commands WHERE changeset_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, rec.ID)
	if err != nil {
		return fmt.Errorf("loading changeset commands: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cmd CommandRecord
		var prevStart, prevEnd, newStart, newEnd sql.NullString
		var onPremises int
		if err := rows.Scan(&cmd.ChangesetID, &cmd.Seq, &cmd.Kind, &cmd.TaskID,
			&cmd.ContractedServiceID, &onPremises,
			&prevStart, &prevEnd, &newStart, &newEnd); err != nil {
			return fmt.Errorf("scanning changeset command: %w", err)
		}
		cmd.OnPremises = intToBool(onPremises)
		cmd.PrevStart = parseNullableTime(prevStart, time.RFC3339)
		cmd.PrevEnd = parseNullableTime(prevEnd, time.RFC3339)
		cmd.NewStart = parseNullableTime(newStart, time.RFC3339)
		cmd.NewEnd = parseNullableTime(newEnd, time.RFC3339)
		rec.Commands = append(rec.Commands, cmd)
	}
	return rows.Err()
}

func scanChangeset(row rowScanner) (*ChangesetRecord, error) {
	var rec ChangesetRecord
	var createdAt string
	err := row.Scan(&rec.ID, &rec.ScheduleID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("changeset not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning changeset: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}
