package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/feedbackhub/backend/internal/models"
)

// CreateCompany сохраняет новую компанию и возвращает её ID.
func (s *Storage) CreateCompany(ctx context.Context, company models.Company) (int, error) {
	const op = "storage.CreateCompany"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO companies (code, name, email, status, plan, trial_end_date)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		company.Code, company.Name, company.Email, company.Status,
		company.Plan, company.TrialEndDate).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCompany возвращает компанию по её ID.
func (s *Storage) GetCompany(ctx context.Context, id int) (*models.Company, error) {
	const op = "storage.GetCompany"
	query := `SELECT id, code, name, email, status, plan, trial_end_date, created_at
			  FROM companies
			  WHERE id = $1`
	return s.scanCompany(ctx, op, query, id)
}

// GetCompanyByCode возвращает компанию по её короткому коду.
func (s *Storage) GetCompanyByCode(ctx context.Context, code string) (*models.Company, error) {
	const op = "storage.GetCompanyByCode"
	query := `SELECT id, code, name, email, status, plan, trial_end_date, created_at
			  FROM companies
			  WHERE code = $1`
	return s.scanCompany(ctx, op, query, code)
}

// ListPublicCompanies возвращает список незаблокированных компаний с пагинацией.
func (s *Storage) ListPublicCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	const op = "storage.ListPublicCompanies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, code, name, email, status, plan, trial_end_date, created_at
			  FROM companies
			  WHERE status != $1
			  ORDER BY name
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, models.CompanyStatusBlocked, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Company
	for rows.Next() {
		c, err := scanCompanyRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateCompanyStatus обновляет статус компании (блокировка и разблокировка).
func (s *Storage) UpdateCompanyStatus(ctx context.Context, id int, status models.CompanyStatus) error {
	const op = "storage.UpdateCompanyStatus"
	query := `UPDATE companies SET status = $1 WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// UpdateCompanyPlan обновляет название тарифа компании.
//
// Вызывается после одобрения смены тарифа администратором; вызывающий
// код обязан инвалидировать кеш компании.
func (s *Storage) UpdateCompanyPlan(ctx context.Context, id int, plan string, status models.CompanyStatus) error {
	const op = "storage.UpdateCompanyPlan"
	query := `UPDATE companies SET plan = $1, status = $2 WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, plan, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func (s *Storage) scanCompany(ctx context.Context, op, query string, arg any) (*models.Company, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx, query, arg)
	c, err := scanCompanyRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCompanyRow(scan func(dest ...any) error) (*models.Company, error) {
	c := &models.Company{}
	var status string
	var trialEndDate sql.NullTime
	if err := scan(&c.ID, &c.Code, &c.Name, &c.Email, &status,
		&c.Plan, &trialEndDate, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Status = models.CompanyStatus(status)
	if trialEndDate.Valid {
		c.TrialEndDate = &trialEndDate.Time
	}
	return c, nil
}
