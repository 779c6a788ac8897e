package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/backend/internal/models"
	messageservice "github.com/feedbackhub/backend/internal/services/message"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Мок сервиса сообщений
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, req models.DummyMessage) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler(t *testing.T) {
	validBody := models.DummyMessage{
		CompanyCode:   "acme-x7",
		Text:          "Очень долго жду ответа от поддержки",
		SenderContact: "client@example.com",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockID         string
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "successful create",
			requestBody:    validBody,
			mockID:         "msg-1",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - missing company code",
			requestBody:    models.DummyMessage{Text: "Текст сообщения"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field CompanyCode is a required field",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - text too short",
			requestBody:    models.DummyMessage{CompanyCode: "acme-x7", Text: "ок"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Text is too short",
			wantStatus:     "Error",
		},
		{
			name:           "unknown company",
			requestBody:    validBody,
			mockErr:        repository.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "company not found",
			wantStatus:     "Error",
		},
		{
			name:           "blocked company",
			requestBody:    validBody,
			mockErr:        messageservice.ErrCompanyBlocked,
			wantStatusCode: http.StatusConflict,
			wantError:      "company does not accept messages",
			wantStatus:     "Error",
		},
		{
			name:           "storage error",
			requestBody:    validBody,
			mockErr:        errors.New("connection refused"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to create message",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockID != "" || tt.mockErr != nil {
				serviceMock.On("Create", mock.Anything, validBody).
					Return(tt.mockID, tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

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

			req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.Create(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.mockID, data["id"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
