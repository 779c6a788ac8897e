// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feedbackhub/backend/internal/lib/jwt"
	"github.com/feedbackhub/backend/internal/lib/password"
	"github.com/feedbackhub/backend/internal/models"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по почте или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// TouchLastLogin обновляет дату последнего входа.
	TouchLastLogin(ctx context.Context, userUID string, at time.Time) error
}

// CompanyRepository описывает создание компании при регистрации.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company models.Company) (int, error)
}

// AuthService отвечает за регистрацию, авторизацию, валидацию JWT
// и обмен OAuth-личности на локальный токен.
type AuthService struct {
	users     UserRepository
	companies CompanyRepository
	jwtMaker  jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, companies CompanyRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:     users,
		companies: companies,
		jwtMaker:  jwtMaker,
	}
}

// RegisterCompany создает компанию на пробном периоде и ее учетную запись.
//
// Компания получает уникальный короткий код для приема сообщений
// и тариф "Пробный" на freePeriodDays дней.
func (s *AuthService) RegisterCompany(ctx context.Context, companyName, email, username, rawPassword string, freePeriodDays int) (string, *models.Company, error) {
	const op = "auth.RegisterCompany"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	trialEndDate := time.Now().UTC().AddDate(0, 0, freePeriodDays)
	company := models.Company{
		Code:         newCompanyCode(),
		Name:         companyName,
		Email:        email,
		Status:       models.CompanyStatusTrial,
		Plan:         "Пробный",
		TrialEndDate: &trialEndDate,
	}
	companyID, err := s.companies.CreateCompany(ctx, company)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	company.ID = companyID

	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleCompany,
		CompanyID:    &companyID,
		Name:         companyName,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return uid, &company, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.Identity, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	ident := identityOf(user)
	token, err := s.jwtMaker.GenerateToken(*ident)
	if err != nil {
		return "", nil, err
	}
	if err := s.users.TouchLastLogin(ctx, user.UID, time.Now().UTC()); err != nil {
		// Не критично для входа, просто теряем метку времени.
		return token, ident, nil
	}
	return token, ident, nil
}

// ValidateToken проверяет JWT и восстанавливает каноническую личность.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.Identity, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return claims.Identity()
}

// SyncOAuth обменивает проверенную OAuth-личность на локальный JWT.
//
// Пользователь ищется по почте — это единственный общий идентификатор
// двух источников. Отсутствующая учетка создается с ролью user:
// повышение прав через OAuth невозможно.
func (s *AuthService) SyncOAuth(ctx context.Context, email, name string) (string, *models.Identity, error) {
	const op = "auth.SyncOAuth"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, err)
		}
		newUser := models.User{
			Email:    email,
			Username: usernameFromEmail(email),
			Role:     models.RoleUser,
			Name:     name,
		}
		uid, regErr := s.users.RegisterUser(ctx, newUser)
		if regErr != nil {
			return "", nil, fmt.Errorf("%s: %w", op, regErr)
		}
		newUser.UID = uid
		user = &newUser
	}

	ident := identityOf(user)
	token, err := s.jwtMaker.GenerateToken(*ident)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, ident, nil
}

func identityOf(user *models.User) *models.Identity {
	return &models.Identity{
		UID:       user.UID,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		Name:      user.Name,
	}
}

// newCompanyCode генерирует короткий код компании.
func newCompanyCode() string {
	return strings.Split(uuid.NewString(), "-")[0]
}

// usernameFromEmail выводит имя пользователя из почты для OAuth-учеток.
func usernameFromEmail(email string) string {
	local := strings.SplitN(email, "@", 2)[0]
	// Суффикс защищает от коллизий с уже занятыми именами.
	return local + "-" + strings.Split(uuid.NewString(), "-")[0]
}
