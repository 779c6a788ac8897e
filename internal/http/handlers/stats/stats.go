// Package stats отдает аналитику компании по входящим сообщениям.
//
// Базовая сводка доступна тарифам Standard и Pro, разбивка по дням —
// только Pro. Права проверяются по текущему тарифу компании.
package stats

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

// Service отдает счетчики сообщений компании.
type Service interface {
	Stats(ctx context.Context, companyID int) (map[models.MessageStatus]int, error)
	StatsByDay(ctx context.Context, companyID int, days int) (map[string]int, error)
}

// Permissions отдает права тарифа компании.
type Permissions interface {
	Permissions(ctx context.Context, companyID int) (models.PermissionSet, *models.Plan)
}

type Handler struct {
	log         *slog.Logger
	service     Service
	permissions Permissions
}

func New(log *slog.Logger, service Service, permissions Permissions) *Handler {
	return &Handler{log: log, service: service, permissions: permissions}
}

// Summary godoc
// @Summary Сводка по сообщениям
// @Description Счетчики сообщений по статусам. Требует права базовой аналитики текущего тарифа.
// @Tags Stats
// @Produce  json
// @Success 200 {object} map[string]any "Счетчики по статусам"
// @Failure 402 {object} response.ErrorResponse "Тариф не дает доступ к аналитике"
// @Failure 403 {object} response.ErrorResponse "Пользователь не привязан к компании"
// @Security BearerAuth
// @Router /company/stats/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.summary"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}

	perms, _ := h.permissions.Permissions(r.Context(), companyID)
	if !perms.CanViewBasicAnalytics {
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("current plan does not include analytics"))
		return
	}

	counts, err := h.service.Stats(r.Context(), companyID)
	if err != nil {
		log.Error("failed to load stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load stats"))
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	render.JSON(w, r, response.OKWithData(map[string]any{
		"total":     total,
		"by_status": counts,
	}))
}

// Extended godoc
// @Summary Расширенная аналитика
// @Description Разбивка сообщений по дням за период. Доступна только тарифу Pro.
// @Tags Stats
// @Produce  json
// @Param days query int false "Глубина периода в днях" default(30)
// @Success 200 {object} map[string]any "Сообщения по дням"
// @Failure 402 {object} response.ErrorResponse "Тариф не дает доступ к расширенной аналитике"
// @Failure 403 {object} response.ErrorResponse "Пользователь не привязан к компании"
// @Security BearerAuth
// @Router /company/stats/extended [get]
func (h *Handler) Extended(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stats.extended"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	companyID, ok := h.companyID(w, r)
	if !ok {
		return
	}

	perms, _ := h.permissions.Permissions(r.Context(), companyID)
	if !perms.CanViewExtendedAnalytics {
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("current plan does not include extended analytics"))
		return
	}

	days := 30
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 && v <= 365 {
		days = v
	}

	byDay, err := h.service.StatsByDay(r.Context(), companyID, days)
	if err != nil {
		log.Error("failed to load extended stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load stats"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"days":   days,
		"by_day": byDay,
	}))
}

func (h *Handler) companyID(w http.ResponseWriter, r *http.Request) (int, bool) {
	ident := middlewarectx.Identity(r.Context())
	if ident == nil || ident.CompanyID == nil {
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("no company attached to session"))
		return 0, false
	}
	return *ident.CompanyID, true
}
