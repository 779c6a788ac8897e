// Package oauth реализует вход через Google (OIDC) и обмен OAuth-личности
// на локальный сессионный токен.
//
// Start начинает авторизационный поток с защитой state-cookie, Callback
// проверяет подпись ID-токена у провайдера и выдает локальный JWT.
// Sync принимает готовый ID-токен от клиента (мобильные и SPA-потоки)
// и делает тот же обмен. Повторная выдача пропускается, пока у клиента
// есть валидная сессионная cookie.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/oauth2"

	"github.com/feedbackhub/backend/internal/config"
	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/http/response"
	"github.com/feedbackhub/backend/internal/lib/sl"
	"github.com/feedbackhub/backend/internal/models"
	"github.com/feedbackhub/backend/internal/services/session"
)

const stateCookie = "oauth_state"

// Service описывает обмен проверенной OAuth-личности на локальный JWT.
type Service interface {
	SyncOAuth(ctx context.Context, email, name string) (string, *models.Identity, error)
}

// Handler обрабатывает HTTP-запросы OAuth-потока.
type Handler struct {
	log          *slog.Logger
	service      Service
	oauthCfg     *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	cookieSecure bool
}

// claims — интересующие нас поля ID-токена провайдера.
type claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// New создает Handler, открывая OIDC-провайдера по issuer URL.
func New(ctx context.Context, cfg config.GoogleOAuth, log *slog.Logger, service Service, cookieSecure bool) (*Handler, error) {
	const op = "handlers.auth.oauth.New"

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Handler{
		log:     log,
		service: service,
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
		verifier:     provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		cookieSecure: cookieSecure,
	}, nil
}

// Start godoc
// @Summary Начало входа через Google
// @Description Выставляет state-cookie и перенаправляет на страницу согласия провайдера.
// @Tags Auth
// @Success 302 "Перенаправление к провайдеру"
// @Router /auth/oauth/start [get]
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.oauth.start"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	state, err := randomState()
	if err != nil {
		log.Error("failed to generate state", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to start oauth flow"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		MaxAge:   300,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
	})

	http.Redirect(w, r, h.oauthCfg.AuthCodeURL(state), http.StatusFound)
}

// Callback godoc
// @Summary Завершение входа через Google
// @Description Проверяет state и ID-токен провайдера, выдает локальный JWT и сессионную cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный state или код"
// @Failure 401 {object} response.ErrorResponse "Провайдер отверг токен"
// @Router /auth/oauth/callback [get]
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.oauth.callback"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		log.Error("missing code or state in callback")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing code or state"))
		return
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value != state {
		log.Error("oauth state mismatch")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid oauth state"))
		return
	}

	tok, err := h.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		log.Error("failed to exchange code", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("failed to exchange code"))
		return
	}
	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		log.Error("provider response has no id_token")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing id_token"))
		return
	}

	h.exchangeIDToken(w, r, log, rawIDToken)
}

// Sync godoc
// @Summary Обмен OAuth-сессии на локальный токен
// @Description Принимает проверяемый ID-токен провайдера и выдает локальный JWT. Повторная выдача пропускается при валидной сессионной cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]any "Локальный токен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Провайдер отверг токен"
// @Router /auth/oauth-sync [post]
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.oauth.sync"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	local := session.LocalSession{
		Authenticated: middlewarectx.Identity(r.Context()) != nil,
		User:          middlewarectx.Identity(r.Context()),
	}

	var oauthSess session.OAuthSession
	if !local.Authenticated {
		var req struct {
			IDToken string `json:"id_token"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IDToken == "" {
			log.Error("failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		c, ok := h.verifyIDToken(w, r, log, req.IDToken)
		if !ok {
			return
		}
		oauthSess = session.OAuthSession{
			Authenticated: true,
			Email:         c.Email,
			Name:          c.Name,
		}
	}

	// Локальная сессия не сбрасывается из-за состояния OAuth:
	// при живой cookie токен не перевыпускается.
	resolved := session.Resolve(local, oauthSess)
	if local.Authenticated {
		render.JSON(w, r, response.OKWithData(map[string]any{
			"issued": false,
			"user":   resolved.User,
		}))
		return
	}

	h.issueLocalToken(w, r, log, oauthSess.Email, oauthSess.Name)
}

// verifyIDToken проверяет подпись ID-токена и обязательные клеймы.
// При отказе пишет ответ и возвращает ok=false.
func (h *Handler) verifyIDToken(w http.ResponseWriter, r *http.Request, log *slog.Logger, rawIDToken string) (claims, bool) {
	idToken, err := h.verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		log.Error("id token verification failed", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid id token"))
		return claims{}, false
	}

	var c claims
	if err := idToken.Claims(&c); err != nil || c.Email == "" {
		log.Error("id token has no usable claims", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("id token has no email"))
		return claims{}, false
	}
	if !c.EmailVerified {
		log.Error("provider email is not verified", slog.String("email", c.Email))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("email is not verified"))
		return claims{}, false
	}
	return c, true
}

// exchangeIDToken проверяет ID-токен и выдает локальный JWT с cookie.
func (h *Handler) exchangeIDToken(w http.ResponseWriter, r *http.Request, log *slog.Logger, rawIDToken string) {
	c, ok := h.verifyIDToken(w, r, log, rawIDToken)
	if !ok {
		return
	}
	h.issueLocalToken(w, r, log, c.Email, c.Name)
}

// issueLocalToken обменивает проверенную OAuth-личность на локальный JWT.
func (h *Handler) issueLocalToken(w http.ResponseWriter, r *http.Request, log *slog.Logger, email, name string) {
	token, ident, err := h.service.SyncOAuth(r.Context(), email, name)
	if err != nil {
		log.Error("failed to sync oauth identity", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not sign in"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("oauth sign-in success", slog.String("email", email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"issued": true,
		"token":  token,
		"user":   ident,
	}))
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
