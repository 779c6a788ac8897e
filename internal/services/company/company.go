// Package services содержит бизнес-логику для управления компаниями:
// чтение с кешированием, блокировка, одобрение смены тарифа и вычисление
// набора прав по тарифу.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feedbackhub/backend/internal/entitlement"
	"github.com/feedbackhub/backend/internal/models"
)

// ErrUnknownPlan возвращается при попытке назначить тариф, которого нет в каталоге.
var ErrUnknownPlan = errors.New("unknown plan name")

// CompanyRepository определяет методы для работы с компаниями в хранилище.
type CompanyRepository interface {
	// GetCompany возвращает компанию по ID.
	GetCompany(ctx context.Context, id int) (*models.Company, error)
	// GetCompanyByCode возвращает компанию по короткому коду.
	GetCompanyByCode(ctx context.Context, code string) (*models.Company, error)
	// ListPublicCompanies возвращает незаблокированные компании с пагинацией.
	ListPublicCompanies(ctx context.Context, limit, offset int) ([]*models.Company, error)
	// UpdateCompanyStatus меняет статус компании.
	UpdateCompanyStatus(ctx context.Context, id int, status models.CompanyStatus) error
	// UpdateCompanyPlan меняет тариф и статус компании.
	UpdateCompanyPlan(ctx context.Context, id int, plan string, status models.CompanyStatus) error
}

// PlanCatalog отдает каталог тарифов.
type PlanCatalog interface {
	Catalog(ctx context.Context) ([]models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// CompanyService реализует бизнес-логику работы с компаниями, включая кеширование.
//
// Записи компаний читаются один раз на ключ и переиспользуются; любая
// мутация, меняющая тариф или блокировку, инвалидирует кеш, чтобы права
// доступа никогда не вычислялись по устаревшим данным.
type CompanyService struct {
	repo  CompanyRepository
	plans PlanCatalog
	cache Cache
	log   *slog.Logger
}

// NewCompanyService создает новый экземпляр CompanyService.
func NewCompanyService(repo CompanyRepository, plans PlanCatalog, cache Cache, log *slog.Logger) *CompanyService {
	return &CompanyService{
		repo:  repo,
		plans: plans,
		cache: cache,
		log:   log,
	}
}

// GetByID возвращает компанию по ID, используя кеш или репозиторий.
func (s *CompanyService) GetByID(ctx context.Context, id int) (*models.Company, error) {
	var result *models.Company
	cacheKey := companyCacheKey(id)
	found, err := s.cache.Get(ctx, cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read company from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache company", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// GetByCode возвращает компанию по короткому коду.
func (s *CompanyService) GetByCode(ctx context.Context, code string) (*models.Company, error) {
	company, err := s.repo.GetCompanyByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	// Попутно прогреваем кеш по ID: право доступа считается по нему.
	cacheKey := companyCacheKey(company.ID)
	if err := s.cache.Set(ctx, cacheKey, company, time.Hour); err != nil {
		s.log.Warn("failed to cache company", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return company, nil
}

// ListPublic возвращает список незаблокированных компаний.
func (s *CompanyService) ListPublic(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	return s.repo.ListPublicCompanies(ctx, limit, offset)
}

// SetBlocked блокирует или разблокирует компанию и инвалидирует кеш.
func (s *CompanyService) SetBlocked(ctx context.Context, id int, blocked bool) error {
	status := models.CompanyStatusActive
	if blocked {
		status = models.CompanyStatusBlocked
	}
	if err := s.repo.UpdateCompanyStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("company status updated", slog.Int("id", id), slog.String("status", string(status)))
	return nil
}

// ApprovePlanChange одобряет смену тарифа компании и инвалидирует кеш.
//
// Название тарифа должно разрешаться по каталогу: опечатка администратора
// молча обнулила бы права компании до read-only.
func (s *CompanyService) ApprovePlanChange(ctx context.Context, id int, planName string) error {
	const op = "company.ApprovePlanChange"

	catalog, err := s.plans.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if entitlement.ResolvePlanID(planName, catalog) == "" {
		return fmt.Errorf("%s: %q: %w", op, planName, ErrUnknownPlan)
	}

	if err := s.repo.UpdateCompanyPlan(ctx, id, planName, models.CompanyStatusActive); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.log.Info("company plan updated", slog.Int("id", id), slog.String("plan", planName))
	return nil
}

// Permissions вычисляет набор прав компании на текущий момент.
//
// Любая ошибка загрузки компании или каталога деградирует к закрытому
// набору: "не загружено" и "не удалось загрузить" неразличимы для
// вычисления прав, оба значат "не готово".
func (s *CompanyService) Permissions(ctx context.Context, companyID int) (models.PermissionSet, *models.Plan) {
	company, err := s.GetByID(ctx, companyID)
	if err != nil {
		s.log.Warn("failed to load company for permissions", slog.Int("id", companyID), slog.Any("err", err))
		return entitlement.ReadOnly(), nil
	}
	catalog, err := s.plans.Catalog(ctx)
	if err != nil {
		s.log.Warn("failed to load plan catalog for permissions", slog.Any("err", err))
		return entitlement.ReadOnly(), nil
	}
	expired := entitlement.IsTrialExpired(company, time.Now().UTC())
	return entitlement.ForCompany(company, catalog, expired)
}

func (s *CompanyService) invalidate(ctx context.Context, id int) {
	cacheKey := companyCacheKey(id)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate company cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

func companyCacheKey(id int) string {
	return fmt.Sprintf("company:%d", id)
}
