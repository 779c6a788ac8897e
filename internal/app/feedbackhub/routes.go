// Package feedbackhub предоставляет маршруты для основного приложения.
package feedbackhub

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/feedbackhub/backend/internal/config"
	"github.com/feedbackhub/backend/internal/http/handlers/auth/login"
	"github.com/feedbackhub/backend/internal/http/handlers/auth/logout"
	"github.com/feedbackhub/backend/internal/http/handlers/auth/me"
	"github.com/feedbackhub/backend/internal/http/handlers/auth/oauth"
	"github.com/feedbackhub/backend/internal/http/handlers/auth/register"
	"github.com/feedbackhub/backend/internal/http/handlers/company/approveplan"
	"github.com/feedbackhub/backend/internal/http/handlers/company/block"
	companyget "github.com/feedbackhub/backend/internal/http/handlers/company/get"
	companylist "github.com/feedbackhub/backend/internal/http/handlers/company/list"
	"github.com/feedbackhub/backend/internal/http/handlers/health"
	messagecreate "github.com/feedbackhub/backend/internal/http/handlers/message/create"
	messagelist "github.com/feedbackhub/backend/internal/http/handlers/message/list"
	"github.com/feedbackhub/backend/internal/http/handlers/message/moderate"
	"github.com/feedbackhub/backend/internal/http/handlers/message/reply"
	messagestatus "github.com/feedbackhub/backend/internal/http/handlers/message/status"
	planlist "github.com/feedbackhub/backend/internal/http/handlers/plan/list"
	"github.com/feedbackhub/backend/internal/http/handlers/stats"
	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/models"
	authservice "github.com/feedbackhub/backend/internal/services/auth"
	companyservice "github.com/feedbackhub/backend/internal/services/company"
	messageservice "github.com/feedbackhub/backend/internal/services/message"
	planservice "github.com/feedbackhub/backend/internal/services/plan"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Handlers объединяет все HTTP-обработчики приложения.
type Handlers struct {
	Register      *register.Handler
	Login         *login.Handler
	Logout        *logout.Handler
	Me            *me.Handler
	OAuth         *oauth.Handler
	CompanyGet    *companyget.Handler
	CompanyList   *companylist.Handler
	Block         *block.Handler
	ApprovePlan   *approveplan.Handler
	PlanList      *planlist.Handler
	MessageCreate *messagecreate.Handler
	MessageList   *messagelist.Handler
	Reply         *reply.Handler
	MessageStatus *messagestatus.Handler
	Moderate      *moderate.Handler
	Stats         *stats.Handler
	Health        *health.Handler
}

// NewHandlers создает все обработчики с их зависимостями.
func NewHandlers(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *repository.Storage,
	authService *authservice.AuthService,
	companyService *companyservice.CompanyService,
	planService *planservice.PlanService,
	messageService *messageservice.MessageService,
) (*Handlers, error) {
	oauthHandler, err := oauth.New(ctx, cfg.GoogleOAuth, logger, authService, cfg.CookieSecure)
	if err != nil {
		return nil, err
	}

	return &Handlers{
		Register:      register.New(logger, authService, cfg.FreePeriodDays),
		Login:         login.New(logger, authService, cfg.CookieSecure),
		Logout:        logout.New(logger, cfg.CookieSecure),
		Me:            me.New(logger, companyService),
		OAuth:         oauthHandler,
		CompanyGet:    companyget.New(logger, companyService),
		CompanyList:   companylist.New(logger, companyService),
		Block:         block.New(logger, companyService),
		ApprovePlan:   approveplan.New(logger, companyService),
		PlanList:      planlist.New(logger, planService),
		MessageCreate: messagecreate.New(logger, messageService),
		MessageList:   messagelist.New(logger, messageService),
		Reply:         reply.New(logger, messageService),
		MessageStatus: messagestatus.New(logger, messageService),
		Moderate:      moderate.New(logger, messageService),
		Stats:         stats.New(logger, messageService, companyService),
		Health:        health.New(logger, db),
	}, nil
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, companyService *companyservice.CompanyService, h *Handlers) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	session := middlewarectx.SessionMiddleware(authService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", h.Register.ServeHTTP)
		r.Post("/auth/login", h.Login.ServeHTTP)
		r.Post("/auth/logout", h.Logout.Logout)
		r.Get("/auth/oauth/start", h.OAuth.Start)
		r.Get("/auth/oauth/callback", h.OAuth.Callback)

		r.Get("/companies", h.CompanyList.List)
		r.Get("/companies/{code}", h.CompanyGet.Get)
		r.Get("/plans", h.PlanList.List)

		// Анонимная отправка сообщений с ограничением частоты
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, 5, 10))
			r.Post("/messages", h.MessageCreate.Create)
		})

		// Конечные точки с сессией: личность строится, но допуск не требуется
		r.Group(func(r chi.Router) {
			r.Use(session)
			r.Post("/auth/oauth-sync", h.OAuth.Sync)
			r.Get("/auth/me", h.Me.Me)
		})

		// Кабинет компании
		r.Route("/company", func(r chi.Router) {
			r.Use(session)
			r.Use(middlewarectx.RequireRole(logger, companyService, models.RoleCompany))
			r.Get("/messages", h.MessageList.List)
			r.Post("/messages/{id}/reply", h.Reply.Reply)
			r.Post("/messages/{id}/status", h.MessageStatus.Update)
			r.Get("/stats/summary", h.Stats.Summary)
			r.Get("/stats/extended", h.Stats.Extended)
		})

		// Панель администратора
		r.Route("/admin", func(r chi.Router) {
			r.Use(session)
			r.Use(middlewarectx.RequireRole(logger, companyService, models.RoleAdmin, models.RoleSuperAdmin))
			r.Get("/messages", h.Moderate.List)
			r.Delete("/messages/{id}", h.Moderate.Remove)
			r.Post("/companies/{id}/block", h.Block.Block)
			r.Post("/companies/{id}/plan", h.ApprovePlan.Approve)
		})
	})

	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
