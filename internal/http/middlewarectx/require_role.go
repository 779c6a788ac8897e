package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/feedbackhub/backend/internal/guard"
	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
)

// Companies лениво отдает запись компании для проверки блокировки.
type Companies interface {
	GetByID(ctx context.Context, id int) (*models.Company, error)
}

// RequireRole возвращает middleware, применяющий правила допуска пакета guard.
//
// Запись компании загружается только когда среди требуемых ролей есть
// company и личность действительно компания: заблокированная компания
// допускается лишь на корень кабинета. Отказ в доступе не считается
// ошибкой пользовательского уровня — клиент молча уводится в свой раздел.
func RequireRole(log *slog.Logger, companies Companies, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"

			ident := Identity(r.Context())

			in := guard.Input{
				Identity:      ident,
				RequiredRoles: roles,
				Path:          r.URL.Path,
			}

			ctx := r.Context()
			if ident != nil && ident.Role == models.RoleCompany && hasRole(roles, models.RoleCompany) && ident.CompanyID != nil {
				company, err := companies.GetByID(ctx, *ident.CompanyID)
				if err != nil {
					// "Не удалось загрузить" неотличимо от "не готово":
					// решение по неполным данным не принимается.
					log.Error("failed to load company for route guard",
						slog.String("op", op), sl.Err(err))
					w.WriteHeader(http.StatusServiceUnavailable)
					render.JSON(w, r, response.Error("service temporarily unavailable"))
					return
				}
				in.Company = company
				ctx = context.WithValue(ctx, CompanyKey, company)
			}

			decision := guard.Decide(in)
			if decision.State != guard.StateAllowed {
				if ident == nil {
					w.WriteHeader(http.StatusUnauthorized)
				} else {
					w.WriteHeader(http.StatusForbidden)
				}
				render.JSON(w, r, response.RedirectTo(decision.Target))
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func hasRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
