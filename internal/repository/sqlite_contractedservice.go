package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ingaggio/internal/db"
	"ingaggio/internal/domain"
)

// contractedServiceColumns is the canonical SELECT column list for
// contracted_services.
const contractedServiceColumns = `id, contract_id, service_id, consultant_id,
		hours, hours_on_premises, from_date, to_date, created_at, updated_at`

// SQLiteContractedServiceRepo implements ContractedServiceRepo using a
// SQLite database.
type SQLiteContractedServiceRepo struct {
	db db.DBTX
}

func NewSQLiteContractedServiceRepo(dbtx db.DBTX) *SQLiteContractedServiceRepo {
	return &SQLiteContractedServiceRepo{db: dbtx}
}

func (r *SQLiteContractedServiceRepo) Create(ctx context.Context, cs *domain.ContractedService) error {
	query := `INSERT INTO contracted_services (` + contractedServiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		cs.ID,
		cs.ContractID,
		cs.ServiceID,
		cs.ConsultantID,
		cs.Hours,
		cs.HoursOnPremises,
		nullableTimeToString(cs.FromDate, dateLayout),
		nullableTimeToString(cs.ToDate, dateLayout),
		cs.CreatedAt.Format(time.RFC3339),
		cs.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting contracted service: %w", err)
	}
	return nil
}

func (r *SQLiteContractedServiceRepo) GetByID(ctx context.Context, id string) (*domain.ContractedService, error) {
	query := `SELECT ` + contractedServiceColumns + ` FROM contracted_services WHERE id = ?`
	cs, err := scanContractedService(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if cs == nil {
		return nil, fmt.Errorf("contracted service %s not found", id)
	}
	return cs, nil
}

func (r *SQLiteContractedServiceRepo) GetByTriple(ctx context.Context, contractID, serviceID, consultantID string) (*domain.ContractedService, error) {
	query := `SELECT ` + contractedServiceColumns + ` FROM contracted_services
		WHERE contract_id = ? AND service_id = ? AND consultant_id = ?`
	return scanContractedService(r.db.QueryRowContext(ctx, query, contractID, serviceID, consultantID))
}

func (r *SQLiteContractedServiceRepo) ListByConsultant(ctx context.Context, consultantID string) ([]*domain.ContractedService, error) {
	query := `SELECT ` + contractedServiceColumns + ` FROM contracted_services
		WHERE consultant_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, consultantID)
	if err != nil {
		return nil, fmt.Errorf("listing contracted services by consultant: %w", err)
	}
	defer rows.Close()

	var out []*domain.ContractedService
	for rows.Next() {
		cs, err := scanContractedService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *SQLiteContractedServiceRepo) Update(ctx context.Context, cs *domain.ContractedService) error {
	query := `UPDATE contracted_services
		SET hours = ?, hours_on_premises = ?, from_date = ?, to_date = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		cs.Hours,
		cs.HoursOnPremises,
		nullableTimeToString(cs.FromDate, dateLayout),
		nullableTimeToString(cs.ToDate, dateLayout),
		time.Now().UTC().Format(time.RFC3339),
		cs.ID,
	)
	if err != nil {
		return fmt.Errorf("updating contracted service: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("contracted service %s not found", cs.ID)
	}
	return nil
}

func (r *SQLiteContractedServiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM contracted_services WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting contracted service: %w", err)
	}
	return nil
}

// scanContractedService returns (nil, nil) on sql.ErrNoRows so lookup
// callers can distinguish "absent" from a real error.
func scanContractedService(row rowScanner) (*domain.ContractedService, error) {
	var cs domain.ContractedService
	var fromDate, toDate sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(
		&cs.ID, &cs.ContractID, &cs.ServiceID, &cs.ConsultantID,
		&cs.Hours, &cs.HoursOnPremises, &fromDate, &toDate, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning contracted service: %w", err)
	}
	cs.FromDate = parseNullableTime(fromDate, dateLayout)
	cs.ToDate = parseNullableTime(toDate, dateLayout)
	cs.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	cs.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &cs, nil
}
