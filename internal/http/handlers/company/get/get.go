// Package get отдает публичную карточку компании по ее коду.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Service загружает компанию по публичному коду.
type Service interface {
	GetByCode(ctx context.Context, code string) (*models.Company, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Get godoc
// @Summary Карточка компании
// @Description Возвращает публичные данные компании по коду из ссылки обратной связи.
// @Tags Companies
// @Produce  json
// @Param code path string true "Публичный код компании"
// @Success 200 {object} map[string]any "Компания"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Router /companies/{code} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	code := chi.URLParam(r, "code")
	if code == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("company code is required"))
		return
	}

	company, err := h.service.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("company not found"))
			return
		}
		log.Error("failed to load company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load company"))
		return
	}

	// Заблокированная компания не принимает обращения, форма не показывается.
	if company.Status == models.CompanyStatusBlocked {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("company not found"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":     company.ID,
		"code":   company.Code,
		"name":   company.Name,
		"status": company.Status,
	}))
}
