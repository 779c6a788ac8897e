// Package middlewarectx содержит HTTP middleware для построения канонической
// личности и применения правил допуска к маршрутам.
//
// SessionMiddleware извлекает локальный JWT из заголовка Authorization или
// cookie, валидирует его и кладет каноническую личность в контекст запроса.
// Отсутствие или невалидность токена здесь не ошибка: решение о допуске
// принимает RequireRole поверх пакета guard.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// IdentityKey — ключ канонической личности в контексте.
	IdentityKey Key = "identity"
	// CompanyKey — ключ записи компании в контексте (ставит RequireRole).
	CompanyKey Key = "company"
)

// SessionCookie — имя cookie с локальным JWT.
const SessionCookie = "fh_token"

// Service описывает интерфейс сервиса для валидации JWT токена.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.Identity, error)
}

// Identity возвращает каноническую личность из контекста запроса, если есть.
func Identity(ctx context.Context) *models.Identity {
	ident, _ := ctx.Value(IdentityKey).(*models.Identity)
	return ident
}

// Company возвращает запись компании из контекста запроса, если есть.
func Company(ctx context.Context) *models.Company {
	company, _ := ctx.Value(CompanyKey).(*models.Company)
	return company
}

// SessionMiddleware возвращает HTTP middleware, который строит каноническую
// личность из локального JWT.
//
// Токен ищется сначала в заголовке Authorization (Bearer), затем в cookie:
// обе формы равноправны, cookie выставляется после oauth-sync. Невалидный
// токен логируется и трактуется как отсутствие личности.
func SessionMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			tokenStr := bearerToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			ident, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Warn("invalid session token",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}
