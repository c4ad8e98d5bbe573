package notificationlist_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/notification/notificationlist"
	"github.com/SalekhM8/BrainBooster-sub000/internal/http/middlewarectx"
	"github.com/SalekhM8/BrainBooster-sub000/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListNotificationsByUser(ctx context.Context, userUID string, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestList_ReturnsOwnNotifications(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListNotificationsByUser", mock.Anything, "uid-1", 20, 0).
		Return([]*models.Notification{
			{ID: 1, UserUID: "uid-1", Type: models.NotificationPayment, Title: "Payment Failed"},
		}, nil).Once()

	h := notificationlist.New(discardLogger(), svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment Failed")
	svc.AssertExpectations(t)
}

func TestList_ClampsLimit(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListNotificationsByUser", mock.Anything, "uid-1", 20, 0).
		Return([]*models.Notification{}, nil).Once()

	h := notificationlist.New(discardLogger(), svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications?limit=9000", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestList_MissingUser(t *testing.T) {
	svc := new(ServiceMock)

	h := notificationlist.New(discardLogger(), svc)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "ListNotificationsByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
