// Package logout завершает локальную сессию, стирая сессионную cookie.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/http/response"
)

type Handler struct {
	log          *slog.Logger
	cookieSecure bool
}

func New(log *slog.Logger, cookieSecure bool) *Handler {
	return &Handler{log: log, cookieSecure: cookieSecure}
}

// Logout godoc
// @Summary Выход
// @Description Удаляет сессионную cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессия завершена"
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.SessionCookie,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("session terminated")
	render.JSON(w, r, response.OK())
}
