package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ingaggio/internal/db"
	"ingaggio/internal/domain"
)

const consultantColumns = `id, name, surname, email, created_at, updated_at`

// SQLiteConsultantRepo implements ConsultantRepo using a SQLite database.
type SQLiteConsultantRepo struct {
	db db.DBTX
}

// NewSQLiteConsultantRepo creates a new SQLiteConsultantRepo.
func NewSQLiteConsultantRepo(dbtx db.DBTX) *SQLiteConsultantRepo {
	return &SQLiteConsultantRepo{db: dbtx}
}

func (r *SQLiteConsultantRepo) Create(ctx context.Context, c *domain.Consultant) error {
	query := `INSERT INTO consultants (` + consultantColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Surname,
		c.Email,
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting consultant: %w", err)
	}
	return nil
}

func (r *SQLiteConsultantRepo) GetByID(ctx context.Context, id string) (*domain.Consultant, error) {
	query := `SELECT ` + consultantColumns + ` FROM consultants WHERE id = ?`
	return r.scanConsultant(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteConsultantRepo) List(ctx context.Context) ([]*domain.Consultant, error) {
	query := `SELECT ` + consultantColumns + ` FROM consultants ORDER BY surname, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing consultants: %w", err)
	}
	defer rows.Close()

	var out []*domain.Consultant
	for rows.Next() {
		c, err := r.scanConsultant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteConsultantRepo) Update(ctx context.Context, c *domain.Consultant) error {
	query := `UPDATE consultants SET name = ?, surname = ?, email = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.Name, c.Surname, c.Email, time.Now().UTC().Format(time.RFC3339), c.ID)
	if err != nil {
		return fmt.Errorf("updating consultant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("consultant %s not found", c.ID)
	}
	return nil
}

func (r *SQLiteConsultantRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM consultants WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting consultant: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteConsultantRepo) scanConsultant(row rowScanner) (*domain.Consultant, error) {
	var c domain.Consultant
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Name, &c.Surname, &c.Email, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("consultant not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning consultant: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}
