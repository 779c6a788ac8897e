// Package me возвращает каноническую личность текущей сессии
// вместе с правами тарифа компании, если она есть.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/models"
)

// Permissions отдает права тарифа для компании пользователя.
type Permissions interface {
	Permissions(ctx context.Context, companyID int) (models.PermissionSet, *models.Plan)
}

type Handler struct {
	log         *slog.Logger
	permissions Permissions
}

func New(log *slog.Logger, permissions Permissions) *Handler {
	return &Handler{log: log, permissions: permissions}
}

// Me godoc
// @Summary Текущая сессия
// @Description Возвращает личность пользователя и права тарифа его компании.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Личность и права"
// @Failure 401 {object} response.ErrorResponse "Нет активной сессии"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ident := middlewarectx.Identity(r.Context())
	if ident == nil {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("not authenticated"))
		return
	}

	data := map[string]any{"user": ident}
	if ident.CompanyID != nil {
		perms, plan := h.permissions.Permissions(r.Context(), *ident.CompanyID)
		data["permissions"] = perms
		if plan != nil {
			data["plan"] = plan
		}
	}

	log.Debug("session resolved", slog.String("uid", ident.UID))
	render.JSON(w, r, response.OKWithData(data))
}
