// Package create принимает анонимные сообщения обратной связи по коду компании.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
	messageservice "github.com/feedbackhub/backend/internal/services/message"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Service сохраняет новое сообщение и возвращает его ID.
type Service interface {
	Create(ctx context.Context, req models.DummyMessage) (string, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// Create godoc
// @Summary Отправка сообщения
// @Description Принимает анонимное обращение по публичному коду компании. Авторизация не требуется.
// @Tags Messages
// @Accept  json
// @Produce  json
// @Param request body models.DummyMessage true "Данные сообщения"
// @Success 200 {object} map[string]any "ID созданного сообщения"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Компания не найдена"
// @Failure 409 {object} response.ErrorResponse "Компания заблокирована"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /messages [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMessage
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

	id, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("company not found"))
		case errors.Is(err, messageservice.ErrCompanyBlocked):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("company does not accept messages"))
		default:
			log.Error("failed to create message", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create message"))
		}
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
