package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/feedbackhub/backend/internal/models"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует в хранилище.
var ErrNotFound = errors.New("not found")

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role, company_id, name)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role,
		user.CompanyID, user.Name).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	query := `SELECT uid, email, username, password_hash, role, company_id, name,
			      created_at, last_login_at
			  FROM users
			  WHERE username = $1`
	return s.scanUser(ctx, op, query, username)
}

// GetUserByEmail возвращает пользователя по его email.
//
// Используется при слиянии OAuth-сессии с локальной учеткой:
// почта — единственный общий идентификатор двух источников.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	query := `SELECT uid, email, username, password_hash, role, company_id, name,
			      created_at, last_login_at
			  FROM users
			  WHERE email = $1`
	return s.scanUser(ctx, op, query, email)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	query := `SELECT uid, email, username, password_hash, role, company_id, name,
			      created_at, last_login_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(ctx, op, query, userUID)
}

// TouchLastLogin обновляет дату последнего входа пользователя.
func (s *Storage) TouchLastLogin(ctx context.Context, userUID string, at time.Time) error {
	const op = "storage.TouchLastLogin"
	query := `UPDATE users SET last_login_at = $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, at, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) scanUser(ctx context.Context, op, query string, arg any) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, arg)

	var role string
	var companyID sql.NullInt64
	var lastLoginAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&role, &companyID, &u.Name, &u.CreatedAt, &lastLoginAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	parsed, ok := models.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%s: unknown role %q", op, role)
	}
	u.Role = parsed

	if companyID.Valid {
		id := int(companyID.Int64)
		u.CompanyID = &id
	}
	if lastLoginAt.Valid {
		u.LastLoginAt = &lastLoginAt.Time
	}
	return u, nil
}
