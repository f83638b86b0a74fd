package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ingaggio/internal/db"
	"ingaggio/internal/domain"
)

// SQLiteRecipientRepo implements RecipientRepo using a SQLite database.
type SQLiteRecipientRepo struct {
	db db.DBTX
}

func NewSQLiteRecipientRepo(dbtx db.DBTX) *SQLiteRecipientRepo {
	return &SQLiteRecipientRepo{db: dbtx}
}

func (r *SQLiteRecipientRepo) Create(ctx context.Context, rec *domain.Recipient) error {
	query := `INSERT INTO recipients (id, name, vat_number, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.VATNumber,
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting recipient: %w", err)
	}
	return nil
}

func (r *SQLiteRecipientRepo) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, vat_number, created_at, updated_at FROM recipients WHERE id = ?`, id)
	return scanRecipient(row)
}

func (r *SQLiteRecipientRepo) List(ctx context.Context) ([]*domain.Recipient, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, vat_number, created_at, updated_at FROM recipients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing recipients: %w", err)
	}
	defer rows.Close()

	var out []*domain.Recipient
	for rows.Next() {
		rec, err := scanRecipient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecipientRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipients WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting recipient: %w", err)
	}
	return nil
}

func scanRecipient(row rowScanner) (*domain.Recipient, error) {
	var rec domain.Recipient
	var createdAt, updatedAt string
	err := row.Scan(&rec.ID, &rec.Name, &rec.VATNumber, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recipient not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning recipient: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

// SQLiteContractRepo implements ContractRepo using a SQLite database.
type SQLiteContractRepo struct {
	db db.DBTX
}

func NewSQLiteContractRepo(dbtx db.DBTX) *SQLiteContractRepo {
	return &SQLiteContractRepo{db: dbtx}
}

const contractColumns = `id, recipient_id, start_date, end_date, created_at, updated_at`

func (r *SQLiteContractRepo) Create(ctx context.Context, c *domain.Contract) error {
	query := `INSERT INTO contracts (` + contractColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.RecipientID,
		c.StartDate.Format(dateLayout),
		nullableTimeToString(c.EndDate, dateLayout),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting contract: %w", err)
	}
	return nil
}

func (r *SQLiteContractRepo) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = ?`, id)
	return scanContract(row)
}

func (r *SQLiteContractRepo) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Contract, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE recipient_id = ? ORDER BY start_date`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("listing contracts by recipient: %w", err)
	}
	defer rows.Close()
	return collectContracts(rows)
}

func (r *SQLiteContractRepo) List(ctx context.Context) ([]*domain.Contract, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contractColumns+` FROM contracts ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	defer rows.Close()
	return collectContracts(rows)
}

func (r *SQLiteContractRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting contract: %w", err)
	}
	return nil
}

func collectContracts(rows *sql.Rows) ([]*domain.Contract, error) {
	var out []*domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanContract(row rowScanner) (*domain.Contract, error) {
	var c domain.Contract
	var startDate, createdAt, updatedAt string
	var endDate sql.NullString
	err := row.Scan(&c.ID, &c.RecipientID, &startDate, &endDate, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contract not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning contract: %w", err)
	}
	c.StartDate, _ = time.Parse(dateLayout, startDate)
	c.EndDate = parseNullableTime(endDate, dateLayout)
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}

// SQLiteServiceRepo implements ServiceRepo using a SQLite database.
type SQLiteServiceRepo struct {
	db db.DBTX
}

func NewSQLiteServiceRepo(dbtx db.DBTX) *SQLiteServiceRepo {
	return &SQLiteServiceRepo{db: dbtx}
}

func (r *SQLiteServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	query := `INSERT INTO services (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Description,
		s.CreatedAt.Format(time.RFC3339), s.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting service: %w", err)
	}
	return nil
}

func (r *SQLiteServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at, updated_at FROM services WHERE id = ?`, id)
	return scanService(row)
}

func (r *SQLiteServiceRepo) List(ctx context.Context) ([]*domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at, updated_at FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	defer rows.Close()

	var out []*domain.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteServiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting service: %w", err)
	}
	return nil
}

func scanService(row rowScanner) (*domain.Service, error) {
	var s domain.Service
	var createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.Name, &s.Description, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning service: %w", err)
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &s, nil
}
