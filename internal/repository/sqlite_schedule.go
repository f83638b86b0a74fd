package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ingaggio/internal/db"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
// Slot sequences are not persisted; they are regenerated from the
// stored bounds by the schedule package.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

func NewSQLiteScheduleRepo(dbtx db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: dbtx}
}

func (r *SQLiteScheduleRepo) Create(ctx context.Context, rec *ScheduleRecord) error {
	query := `INSERT INTO schedules (id, consultant_id, from_date, to_date, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.ConsultantID,
		rec.From.Format(dateLayout),
		rec.To.Format(dateLayout),
		rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) GetByID(ctx context.Context, id string) (*ScheduleRecord, error) {
	query := `SELECT id, consultant_id, from_date, to_date, created_at FROM schedules WHERE id = ?`
	rec, err := r.scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	tasks, err := NewSQLiteTaskRepo(r.db).ListBySchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Tasks = tasks
	return rec, nil
}

func (r *SQLiteScheduleRepo) ListByConsultant(ctx context.Context, consultantID string) ([]*ScheduleRecord, error) {
	query := `SELECT id, consultant_id, from_date, to_date, created_at FROM schedules
		WHERE consultant_id = ? ORDER BY from_date`
	rows, err := r.db.QueryContext(ctx, query, consultantID)
	if err != nil {
		return nil, fmt.Errorf("listing schedules by consultant: %w", err)
	}
	defer rows.Close()

	var out []*ScheduleRecord
	for rows.Next() {
		rec, err := r.scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteScheduleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) scanSchedule(row rowScanner) (*ScheduleRecord, error) {
	var rec ScheduleRecord
	var fromDate, toDate, createdAt string
	err := row.Scan(&rec.ID, &rec.ConsultantID, &fromDate, &toDate, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	rec.From, _ = time.Parse(dateLayout, fromDate)
	rec.To, _ = time.Parse(dateLayout, toDate)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}
