package stats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/feedbackhub/backend/internal/http/middlewarectx"
	"github.com/feedbackhub/backend/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Stats(ctx context.Context, companyID int) (map[models.MessageStatus]int, error) {
	args := m.Called(ctx, companyID)
	counts, _ := args.Get(0).(map[models.MessageStatus]int)
	return counts, args.Error(1)
}

func (m *ServiceMock) StatsByDay(ctx context.Context, companyID int, days int) (map[string]int, error) {
	args := m.Called(ctx, companyID, days)
	byDay, _ := args.Get(0).(map[string]int)
	return byDay, args.Error(1)
}

type PermissionsMock struct {
	mock.Mock
}

func (m *PermissionsMock) Permissions(ctx context.Context, companyID int) (models.PermissionSet, *models.Plan) {
	args := m.Called(ctx, companyID)
	perms, _ := args.Get(0).(models.PermissionSet)
	plan, _ := args.Get(1).(*models.Plan)
	return perms, plan
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(target string, ident *models.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if ident != nil {
		ctx := context.WithValue(req.Context(), middlewarectx.IdentityKey, ident)
		req = req.WithContext(ctx)
	}
	return req
}

func TestSummary(t *testing.T) {
	companyID := 3
	ident := &models.Identity{UID: "uid-1", Role: models.RoleCompany, CompanyID: &companyID}

	t.Run("сводка доступна при базовой аналитике", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		permsMock := new(PermissionsMock)
		permsMock.On("Permissions", mock.Anything, companyID).
			Return(models.PermissionSet{CanViewBasicAnalytics: true}, (*models.Plan)(nil)).Once()
		serviceMock.On("Stats", mock.Anything, companyID).
			Return(map[models.MessageStatus]int{
				models.MessageStatusNew:      4,
				models.MessageStatusResolved: 6,
			}, nil).Once()

		handler := New(newNoopLogger(), serviceMock, permsMock)

		rec := httptest.NewRecorder()
		handler.Summary(rec, newRequest("/company/stats/summary", ident))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(10), data["total"])

		byStatus, ok := data["by_status"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(4), byStatus["new"])
		assert.Equal(t, float64(6), byStatus["resolved"])

		serviceMock.AssertExpectations(t)
		permsMock.AssertExpectations(t)
	})

	t.Run("тариф без аналитики — 402", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		permsMock := new(PermissionsMock)
		permsMock.On("Permissions", mock.Anything, companyID).
			Return(models.PermissionSet{IsReadOnly: true}, (*models.Plan)(nil)).Once()

		handler := New(newNoopLogger(), serviceMock, permsMock)

		rec := httptest.NewRecorder()
		handler.Summary(rec, newRequest("/company/stats/summary", ident))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		serviceMock.AssertNotCalled(t, "Stats")
	})

	t.Run("без компании в сессии — 403", func(t *testing.T) {
		handler := New(newNoopLogger(), new(ServiceMock), new(PermissionsMock))

		rec := httptest.NewRecorder()
		handler.Summary(rec, newRequest("/company/stats/summary", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestExtended(t *testing.T) {
	companyID := 3
	ident := &models.Identity{UID: "uid-1", Role: models.RoleCompany, CompanyID: &companyID}

	proPerms := models.PermissionSet{
		CanViewBasicAnalytics:    true,
		CanViewExtendedAnalytics: true,
	}

	t.Run("разбивка по дням на тарифе Pro", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		permsMock := new(PermissionsMock)
		permsMock.On("Permissions", mock.Anything, companyID).
			Return(proPerms, (*models.Plan)(nil)).Once()
		serviceMock.On("StatsByDay", mock.Anything, companyID, 30).
			Return(map[string]int{"2026-08-30": 2, "2026-08-31": 5}, nil).Once()

		handler := New(newNoopLogger(), serviceMock, permsMock)

		rec := httptest.NewRecorder()
		handler.Extended(rec, newRequest("/company/stats/extended", ident))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data, ok := got["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(30), data["days"])

		serviceMock.AssertExpectations(t)
	})

	t.Run("параметр days ограничивает период", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		permsMock := new(PermissionsMock)
		permsMock.On("Permissions", mock.Anything, companyID).
			Return(proPerms, (*models.Plan)(nil)).Once()
		serviceMock.On("StatsByDay", mock.Anything, companyID, 7).
			Return(map[string]int{}, nil).Once()

		handler := New(newNoopLogger(), serviceMock, permsMock)

		rec := httptest.NewRecorder()
		handler.Extended(rec, newRequest("/company/stats/extended?days=7", ident))

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("некорректный days заменяется значением по умолчанию", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		permsMock := new(PermissionsMock)
		permsMock.On("Permissions", mock.Anything, companyID).
			Return(proPerms, (*models.Plan)(nil)).Once()
		serviceMock.On("StatsByDay", mock.Anything, companyID, 30).
			Return(map[string]int{}, nil).Once()

		handler := New(newNoopLogger(), serviceMock, permsMock)

		rec := httptest.NewRecorder()
		handler.Extended(rec, newRequest("/company/stats/extended?days=9000", ident))

		assert.Equal(t, http.StatusOK, rec.Code)
		serviceMock.AssertExpectations(t)
	})

	t.Run("тариф Standard не дает расширенную аналитику — 402", func(t *testing.T) {
		serviceMock := new(ServiceMock)
		permsMock := new(PermissionsMock)
		permsMock.On("Permissions", mock.Anything, companyID).
			Return(models.PermissionSet{CanViewBasicAnalytics: true}, (*models.Plan)(nil)).Once()

		handler := New(newNoopLogger(), serviceMock, permsMock)

		rec := httptest.NewRecorder()
		handler.Extended(rec, newRequest("/company/stats/extended", ident))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		serviceMock.AssertNotCalled(t, "StatsByDay")
	})
}
