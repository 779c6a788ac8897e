// Package approveplan подтверждает смену тарифа компании администратором.
package approveplan

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
	"github.com/go-playground/validator"

	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	companyservice "github.com/feedbackhub/backend/internal/services/company"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Request — тело запроса на смену тарифа.
type Request struct {
	PlanName string `json:"plan_name" validate:"required,min=2,max=100"`
}

// Service применяет новый тариф компании.
type Service interface {
	ApprovePlanChange(ctx context.Context, companyID int, planName string) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// Approve godoc
// @Summary Подтверждение смены тарифа
// @Description Назначает компании тариф по имени из каталога. Неизвестное имя тарифа отклоняется.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID компании"
// @Param request body Request true "Имя тарифа"
// @Success 200 {object} response.Response "Тариф назначен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 422 {object} response.ErrorResponse "Тариф не найден в каталоге"
// @Security BearerAuth
// @Router /admin/companies/{id}/plan [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.approveplan"
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
	if err := h.validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		errors.As(err, &validateErr)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	if err := h.service.ApprovePlanChange(r.Context(), companyID, req.PlanName); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("company not found"))
		case errors.Is(err, companyservice.ErrUnknownPlan):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown plan name"))
		default:
			log.Error("failed to change plan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to change plan"))
		}
		return
	}

	log.Info("plan change approved",
		slog.Int("company_id", companyID), slog.String("plan", req.PlanName))
	render.JSON(w, r, response.OK())
}
