// Package services содержит бизнес-логику каталога тарифных планов.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/feedbackhub/backend/internal/models"
)

const catalogCacheKey = "plans:catalog"

// PlanRepository определяет методы для чтения каталога тарифов из хранилища.
type PlanRepository interface {
	// ListPlans возвращает весь каталог тарифных планов.
	ListPlans(ctx context.Context) ([]models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// PlanService отдает каталог тарифов, кешируя его целиком.
//
// Каталог неизменяемый и маленький: один ключ, один запрос к базе
// на время жизни записи кеша.
type PlanService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Catalog возвращает каталог тарифов, используя кеш или репозиторий.
func (s *PlanService) Catalog(ctx context.Context) ([]models.Plan, error) {
	var result []models.Plan
	found, err := s.cache.Get(ctx, catalogCacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read plan catalog from cache", slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, catalogCacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache plan catalog", slog.Any("err", err))
	}
	return result, nil
}
