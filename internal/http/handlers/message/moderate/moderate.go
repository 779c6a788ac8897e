// Package moderate реализует модерацию сообщений администратором:
// просмотр общего потока и удаление недопустимого контента.
package moderate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Service отдает поток сообщений всех компаний и удаляет сообщения.
type Service interface {
	ListAll(ctx context.Context, limit, offset int) ([]*models.Message, error)
	Remove(ctx context.Context, messageID string) (int, error)
}

type Handler struct {
	log     *slog.Logger
	service Service
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// List godoc
// @Summary Поток сообщений всех компаний
// @Description Возвращает сообщения всех компаний для модерации с пагинацией.
// @Tags Admin
// @Produce  json
// @Param limit query int false "Размер страницы" default(50)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список сообщений"
// @Security BearerAuth
// @Router /admin/messages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.moderate.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 50
	offset := 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}

	messages, err := h.service.ListAll(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list messages", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list messages"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"messages": messages}))
}

// Remove godoc
// @Summary Удаление сообщения
// @Description Удаляет сообщение из системы. Используется для модерации недопустимого контента.
// @Tags Admin
// @Produce  json
// @Param id path string true "ID сообщения"
// @Success 200 {object} response.Response "Сообщение удалено"
// @Failure 404 {object} response.ErrorResponse "Сообщение не найдено"
// @Security BearerAuth
// @Router /admin/messages/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.message.moderate.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	messageID := chi.URLParam(r, "id")

	removed, err := h.service.Remove(r.Context(), messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("message not found"))
			return
		}
		log.Error("failed to remove message", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove message"))
		return
	}
	if removed == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("message not found"))
		return
	}

	log.Info("message removed", slog.String("id", messageID))
	render.JSON(w, r, response.OK())
}
