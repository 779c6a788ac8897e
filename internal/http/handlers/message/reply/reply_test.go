package reply

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

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/models"
	messageservice "github.com/feedbackhub/backend/internal/services/message"
	"github.com/feedbackhub/backend/internal/storage/repository"
)

// Мок сервиса сообщений
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Reply(ctx context.Context, companyID int, messageID, reply string) error {
	args := m.Called(ctx, companyID, messageID, reply)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(t *testing.T, body interface{}, ident *models.Identity) *http.Request {
	t.Helper()

	var bodyBytes []byte
	switch v := body.(type) {
	case string:
		bodyBytes = []byte(v)
	default:
		var err error
		bodyBytes, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/company/messages/msg-1/reply", bytes.NewReader(bodyBytes))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "msg-1")
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if ident != nil {
		ctx = context.WithValue(ctx, middlewarectx.IdentityKey, ident)
	}
	return req.WithContext(ctx)
}

func TestReplyHandler(t *testing.T) {
	companyID := 3
	ident := &models.Identity{
		UID:       "uid-1",
		Role:      models.RoleCompany,
		CompanyID: &companyID,
	}

	tests := []struct {
		name           string
		ident          *models.Identity
		requestBody    interface{}
		mockErr        error
		mockExpected   bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "successful reply",
			ident:          ident,
			requestBody:    Request{Reply: "Спасибо за обращение, разбираемся"},
			mockExpected:   true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no identity in context",
			ident:          nil,
			requestBody:    Request{Reply: "ответ"},
			wantStatusCode: http.StatusForbidden,
			wantError:      "no company attached to session",
		},
		{
			name:           "identity without company",
			ident:          &models.Identity{UID: "uid-2", Role: models.RoleUser},
			requestBody:    Request{Reply: "ответ"},
			wantStatusCode: http.StatusForbidden,
			wantError:      "no company attached to session",
		},
		{
			name:           "invalid json body",
			ident:          ident,
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - empty reply",
			ident:          ident,
			requestBody:    Request{},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Reply is a required field",
		},
		{
			name:           "plan does not allow replies",
			ident:          ident,
			requestBody:    Request{Reply: "Спасибо за обращение, разбираемся"},
			mockErr:        messageservice.ErrReadOnly,
			mockExpected:   true,
			wantStatusCode: http.StatusPaymentRequired,
			wantError:      "current plan does not allow replies",
		},
		{
			name:           "message not found",
			ident:          ident,
			requestBody:    Request{Reply: "Спасибо за обращение, разбираемся"},
			mockErr:        repository.ErrNotFound,
			mockExpected:   true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "message not found",
		},
		{
			name:           "storage error",
			ident:          ident,
			requestBody:    Request{Reply: "Спасибо за обращение, разбираемся"},
			mockErr:        errors.New("connection refused"),
			mockExpected:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to save reply",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(ServiceMock)
			if tt.mockExpected {
				serviceMock.On("Reply", mock.Anything, companyID, "msg-1", "Спасибо за обращение, разбираемся").
					Return(tt.mockErr).Once()
			}

			handler := New(newNoopLogger(), serviceMock)

			rec := httptest.NewRecorder()
			handler.Reply(rec, newRequest(t, tt.requestBody, tt.ident))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
