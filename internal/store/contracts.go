package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/hburn/internal/model"
)

// AddCompany inserts a company and returns its id.
func (s *Store) AddCompany(ctx context.Context, c model.Company) (int64, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return 0, errors.New("company name is required")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (name, cnpj, contact_email, created_at) VALUES (?, ?, ?, ?)`,
		name, c.CNPJ, c.ContactEmail, s.stamp())
	if err != nil {
		return 0, fmt.Errorf("inserting company: %w", err)
	}
	return res.LastInsertId()
}

// ListCompanies returns all companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(cnpj, ''), COALESCE(contact_email, '') FROM companies ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CNPJ, &c.ContactEmail); err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddContract inserts a contract and returns its id.
func (s *Store) AddContract(ctx context.Context, c model.Contract) (int64, error) {
	if c.EndDate.Before(c.StartDate) {
		return 0, fmt.Errorf("contract %q: %w", c.Title, ErrInvalidRange)
	}
	if c.TotalHours < 0 {
		return 0, fmt.Errorf("contract %q: total hours must not be negative", c.Title)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contracts
		(company_id, title, contract_type, total_hours, start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)`,
		c.CompanyID, c.Title, c.ContractType, c.TotalHours,
		formatTime(c.StartDate), formatTime(c.EndDate), s.stamp())
	if err != nil {
		return 0, fmt.Errorf("inserting contract: %w", err)
	}
	return res.LastInsertId()
}

const contractColumns = `c.id, c.company_id, COALESCE(co.name, ''), COALESCE(c.title, ''),
	COALESCE(c.contract_type, ''), c.total_hours, c.start_date, c.end_date, c.is_active`

const contractFrom = `FROM contracts c LEFT JOIN companies co ON co.id = c.company_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(r rowScanner) (model.Contract, error) {
	var c model.Contract
	var start, end string
	var active int
	if err := r.Scan(&c.ID, &c.CompanyID, &c.CompanyName, &c.Title,
		&c.ContractType, &c.TotalHours, &start, &end, &active); err != nil {
		return c, err
	}

	var err error
	if c.StartDate, err = parseTime(start); err != nil {
		return c, err
	}
	if c.EndDate, err = parseTime(end); err != nil {
		return c, err
	}
	c.IsActive = active != 0
	return c, nil
}

// GetContract returns one contract with its company name, or ErrNotFound.
func (s *Store) GetContract(ctx context.Context, id int64) (model.Contract, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contractColumns+` `+contractFrom+` WHERE c.id = ?`, id)
	c, err := scanContract(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contract{}, fmt.Errorf("contract %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Contract{}, fmt.Errorf("loading contract %d: %w", id, err)
	}
	return c, nil
}

// ListContracts returns contracts ordered by id, optionally only active ones.
func (s *Store) ListContracts(ctx context.Context, activeOnly bool) ([]model.Contract, error) {
	query := `SELECT ` + contractColumns + ` ` + contractFrom
	if activeOnly {
		query += ` WHERE c.is_active = 1`
	}
	query += ` ORDER BY c.id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing contracts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contract: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeactivateContract marks a contract inactive. Its entries are kept.
func (s *Store) DeactivateContract(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contracts SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivating contract %d: %w", id, err)
	}
	return requireRow(res, "contract", id)
}
