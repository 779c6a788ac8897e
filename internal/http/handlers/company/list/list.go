// Package list отдает каталог компаний, принимающих обращения.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
)

// Service перечисляет компании для публичного каталога.
type Service interface {
	ListPublic(ctx context.Context, limit, offset int) ([]*models.Company, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// publicCompany — урезанная проекция без email и тарифных полей.
type publicCompany struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// List godoc
// @Summary Каталог компаний
// @Description Возвращает список компаний, доступных для отправки обращений. Заблокированные компании исключены.
// @Tags Companies
// @Produce  json
// @Success 200 {object} map[string]any "Список компаний"
// @Router /companies [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := pagination(r)

	companies, err := h.service.ListPublic(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list companies", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list companies"))
		return
	}

	out := make([]publicCompany, 0, len(companies))
	for _, c := range companies {
		out = append(out, publicCompany{ID: c.ID, Code: c.Code, Name: c.Name})
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"companies": out}))
}

// pagination читает limit и offset из query с разумными границами.
func pagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
