package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/feedbackhub/backend/internal/models"
)

// ListPlans возвращает весь каталог тарифных планов.
//
// Каталог маленький и неизменяемый, пагинация не нужна.
func (s *Storage) ListPlans(ctx context.Context) ([]models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, name_ru, name_en, name_kk, price, is_free,
			      free_period_days, features
			  FROM plans
			  ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Plan
	for rows.Next() {
		var p models.Plan
		var nameRu, nameEn, nameKk sql.NullString
		var features []byte
		if err = rows.Scan(&p.ID, &p.Name, &nameRu, &nameEn, &nameKk,
			&p.Price, &p.IsFree, &p.FreePeriodDays, &features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if nameRu.Valid || nameEn.Valid || nameKk.Valid {
			p.NameLocalized = &models.LocalizedName{
				Ru: nameRu.String,
				En: nameEn.String,
				Kk: nameKk.String,
			}
		}
		if len(features) > 0 {
			p.Features = parseTextArray(features)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// parseTextArray разбирает postgres-массив вида {a,b,c} в срез строк.
func parseTextArray(raw []byte) []string {
	s := string(raw)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return nil
	}
	s = s[1 : len(s)-1]
	if s == "" {
		return nil
	}
	var result []string
	start := 0
	inQuotes := false
	for i := 0; i <= len(s); i++ {
		if i == len(s) || (s[i] == ',' && !inQuotes) {
			item := s[start:i]
			if len(item) >= 2 && item[0] == '"' && item[len(item)-1] == '"' {
				item = item[1 : len(item)-1]
			}
			result = append(result, item)
			start = i + 1
			continue
		}
		if s[i] == '"' {
			inQuotes = !inQuotes
		}
	}
	return result
}
