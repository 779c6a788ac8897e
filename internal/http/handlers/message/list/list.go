// Package list отдает входящие сообщения компании текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
)

// Service перечисляет сообщения компании.
type Service interface {
	List(ctx context.Context, companyID, limit, offset int) ([]*models.Message, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// List godoc
// @Summary Входящие сообщения
// @Description Возвращает сообщения компании текущего пользователя с пагинацией.
// @Tags Messages
// @Produce  json
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список сообщений"
// @Failure 403 {object} response.ErrorResponse "Пользователь не привязан к компании"
// @Security BearerAuth
// @Router /company/messages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.list"
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

	limit, offset := pagination(r)

	messages, err := h.service.List(r.Context(), *ident.CompanyID, limit, offset)
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list messages"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"messages": messages}))
}

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
