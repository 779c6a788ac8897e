// Package reply сохраняет ответ компании на сообщение обратной связи.
package reply

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	messageservice "github.com/feedbackhub/backend/internal/services/message"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Request — тело запроса с текстом ответа.
type Request struct {
	Reply string `json:"reply" validate:"required,min=1,max=4000"`
}

// Service сохраняет ответ на сообщение с проверкой прав тарифа.
type Service interface {
	Reply(ctx context.Context, companyID int, messageID, reply string) error
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// Reply godoc
// @Summary Ответ на сообщение
// @Description Сохраняет ответ компании. На бесплатном тарифе и по истечении пробного периода операция недоступна.
// @Tags Messages
// @Accept  json
// @Produce  json
// @Param id path string true "ID сообщения"
// @Param request body Request true "Текст ответа"
// @Success 200 {object} response.Response "Ответ сохранен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 402 {object} response.ErrorResponse "Тариф не позволяет отвечать"
// @Failure 404 {object} response.ErrorResponse "Сообщение не найдено"
// @Security BearerAuth
// @Router /company/messages/{id}/reply [post]
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.reply"
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
	if err := h.validate.Struct(req); err != nil {
		var validateErr validator.ValidationErrors
		errors.As(err, &validateErr)
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	if err := h.service.Reply(r.Context(), *ident.CompanyID, messageID, req.Reply); err != nil {
		switch {
		case errors.Is(err, messageservice.ErrReadOnly):
			w.WriteHeader(http.StatusPaymentRequired)
			render.JSON(w, r, response.Error("current plan does not allow replies"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
		default:
			log.Error("failed to save reply", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to save reply"))
		}
		return
	}

	render.JSON(w, r, response.OK())
}
