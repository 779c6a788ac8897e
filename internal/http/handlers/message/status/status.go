// Package status меняет статус обработки сообщения компанией.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
	messageservice "github.com/feedbackhub/backend/internal/services/message"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Request — тело запроса со значением нового статуса.
type Request struct {
	Status string `json:"status"`
}

// Service меняет статус сообщения с проверкой прав тарифа.
type Service interface {
	UpdateStatus(ctx context.Context, companyID int, messageID string, status models.MessageStatus) error
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Update godoc
// @Summary Смена статуса сообщения
// @Description Переводит сообщение в один из статусов обработки. На бесплатном тарифе операция недоступна.
// @Tags Messages
// @Accept  json
// @Produce  json
// @Param id path string true "ID сообщения"
// @Param request body Request true "Новый статус"
// @Success 200 {object} response.Response "Статус обновлен"
// @Failure 400 {object} response.ErrorResponse "Неизвестный статус"
// @Failure 402 {object} response.ErrorResponse "Тариф не позволяет менять статус"
// @Failure 404 {object} response.ErrorResponse "Сообщение не найдено"
// @Security BearerAuth
// @Router /company/messages/{id}/status [post]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident := middlewarectx.Identity(r.Context())
	if ident == nil || ident.CompanyID == nil {
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("no company attached to session"))
		return
	}
	messageID := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	newStatus, ok := models.ParseMessageStatus(req.Status)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown message status"))
		return
	}

	if err := h.service.UpdateStatus(r.Context(), *ident.CompanyID, messageID, newStatus); err != nil {
		switch {
		case errors.Is(err, messageservice.ErrReadOnly):
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("current plan does not allow status changes"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
		default:
			log.Error("failed to update status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update status"))
		}
		return
	}

	render.JSON(w, r, response.OK())
}
