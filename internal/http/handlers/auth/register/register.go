// Package register реализует HTTP-обработчик регистрации компании.
//
// Компания создается на пробном периоде с уникальным коротким кодом,
// вместе с ней создается учетная запись с ролью company.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
)

// Request — структура входных данных для регистрации компании.
type Request struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password    string `json:"password" validate:"required,min=6"`
}

// Handler обрабатывает HTTP-запросы регистрации компаний.
type Handler struct {
	log            *slog.Logger
	service        Service
	validate       *validator.Validate
	freePeriodDays int
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	RegisterCompany(ctx context.Context, companyName, email, username, rawPassword string, freePeriodDays int) (string, *models.Company, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, freePeriodDays int) *Handler {
	return &Handler{
		log:            log,
		service:        service,
		validate:       validator.New(),
		freePeriodDays: freePeriodDays,
	}
}

// ServeHTTP godoc
// @Summary Регистрация компании
// @Description Создает компанию на пробном периоде и учетную запись с ролью company. Возвращает код компании.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные новой компании"
// @Success 200 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при регистрации"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	uid, company, err := h.service.RegisterCompany(r.Context(), req.CompanyName, req.Email, req.Username, req.Password, h.freePeriodDays)
	if err != nil {
		log.Error("failed to register company", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register company"))
		return
	}

	log.Info("company registered", slog.String("uid", uid), slog.String("code", company.Code))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid":     uid,
		"company_id":   company.ID,
		"company_code": company.Code,
	}))
}
