// Package feedbackhub собирает основное HTTP-приложение: хранилище,
// миграции, кэш, брокер уведомлений, сервисы и маршруты.
package feedbackhub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/feedbackhub/backend/internal/cache"
	"github.com/feedbackhub/backend/internal/config"
	"github.com/feedbackhub/backend/internal/lib/jwt"
	"github.com/feedbackhub/backend/internal/lib/rabbitmq"
	"github.com/feedbackhub/backend/internal/migrations"
	authservice "github.com/feedbackhub/backend/internal/services/auth"
	companyservice "github.com/feedbackhub/backend/internal/services/company"
	messageservice "github.com/feedbackhub/backend/internal/services/message"
	planservice "github.com/feedbackhub/backend/internal/services/plan"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	amqp   *amqp.Connection
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	// Брокер необязателен для приема сообщений: без него теряются только
	// почтовые уведомления, что и логируется.
	var amqpConn *amqp.Connection
	var notifier *rabbitmq.Notifier
	if cfg.AmqpURL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AmqpURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues(cfg.NotificationQueue))
		if err != nil {
			return nil, err
		}
		notifier = rabbitmq.NewNotifier(ch)
	} else {
		logger.Warn("amqp url is empty, email notifications are disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, db, jwtMaker)
	planService := planservice.NewPlanService(db, cacheRedis, logger)
	companyService := companyservice.NewCompanyService(db, planService, cacheRedis, logger)

	var events messageservice.EventPublisher
	if notifier != nil {
		events = notifier
	}
	messageService := messageservice.NewMessageService(db, companyService, events, logger)

	router := chi.NewRouter()

	handlers, err := NewHandlers(ctx, cfg, logger, db, authService, companyService, planService, messageService)
	if err != nil {
		return nil, err
	}
	RegisterRoutes(router, logger, authService, companyService, handlers)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		amqp:   amqpConn,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		if a.amqp != nil {
			_ = a.amqp.Close()
		}
		return err
	}
}
