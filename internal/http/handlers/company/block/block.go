// Package block переключает блокировку компании. Доступен только администраторам.
package block

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Request — тело запроса на смену блокировки.
type Request struct {
	Blocked bool `json:"blocked"`
}

// Service меняет блокировку компании и сбрасывает ее кэш.
type Service interface {
	SetBlocked(ctx context.Context, companyID int, blocked bool) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Block godoc
// @Summary Блокировка компании
// @Description Блокирует или разблокирует компанию. Заблокированная компания теряет доступ к кабинету и не принимает обращения.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID компании"
// @Param request body Request true "Новое состояние блокировки"
// @Success 200 {object} response.Response "Состояние обновлено"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Security BearerAuth
// @Router /admin/companies/{id}/block [post]
func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.block"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	companyID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid company id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.SetBlocked(r.Context(), companyID, req.Blocked); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("company not found"))
			return
		}
		log.Error("failed to update company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update company"))
		return
	}

	log.Info("company block state changed",
		slog.Int("company_id", companyID), slog.Bool("blocked", req.Blocked))
	render.JSON(w, r, response.OK())
}
