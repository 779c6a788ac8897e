package login

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/models"
	authservice "github.com/feedbackhub/backend/internal/services/auth"
)

// Мок сервиса аутентификации
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, *models.Identity, error) {
	args := m.Called(ctx, username, password)
	ident, _ := args.Get(1).(*models.Identity)
	return args.String(0), ident, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock, false)

	companyID := 3
	ident := &models.Identity{
		UID:       "uid-123",
		Email:     "owner@acme.kz",
		Role:      models.RoleCompany,
		CompanyID: &companyID,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockIdent      *models.Identity
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
		wantCookie     bool
	}{
		{
			name:           "successful login",
			requestBody:    Request{Username: "acmeowner", Password: "password123"},
			mockToken:      "jwt-token",
			mockIdent:      ident,
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantCookie:     true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - short password",
			requestBody:    Request{Username: "acmeowner", Password: "123"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is too short",
			wantStatus:     "Error",
		},
		{
			name:           "invalid credentials",
			requestBody:    Request{Username: "acmeowner", Password: "password123"},
			mockErr:        authservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "invalid credentials",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.mockToken != "" || tt.mockErr != nil {
				serviceMock.On("Login", mock.Anything, "acmeowner", "password123").
					Return(tt.mockToken, tt.mockIdent, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}

			if tt.wantCookie {
				cookies := rec.Result().Cookies()
				require.Len(t, cookies, 1)
				assert.Equal(t, middlewarectx.SessionCookie, cookies[0].Name)
				assert.Equal(t, "jwt-token", cookies[0].Value)
				assert.True(t, cookies[0].HttpOnly)

				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "jwt-token", data["token"])
				user, ok := data["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "uid-123", user["uid"])
				assert.Equal(t, "company", user["role"])
			} else {
				assert.Empty(t, rec.Result().Cookies())
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
