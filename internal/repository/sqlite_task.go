package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ingaggio/internal/db"
	"ingaggio/internal/domain"
)

const taskColumns = `id, schedule_id, contracted_service_id, consultant_id, start_at, end_at, on_premises`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ScheduleID,
		t.ContractedServiceID,
		t.ConsultantID,
		t.Start.Format(time.RFC3339),
		t.End.Format(time.RFC3339),
		boolToInt(t.OnPremises),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return scanTask(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteTaskRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE schedule_id = ? ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by schedule: %w", err)
	}
	defer rows.Close()

	var out []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET start_at = ?, end_at = ?, on_premises = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Start.Format(time.RFC3339),
		t.End.Format(time.RFC3339),
		boolToInt(t.OnPremises),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s not found", t.ID)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var startAt, endAt string
	var onPremises int
	err := row.Scan(&t.ID, &t.ScheduleID, &t.ContractedServiceID, &t.ConsultantID, &startAt, &endAt, &onPremises)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	t.Start, _ = time.Parse(time.RFC3339, startAt)
	t.End, _ = time.Parse(time.RFC3339, endAt)
	t.OnPremises = intToBool(onPremises)
	return &t, nil
}
