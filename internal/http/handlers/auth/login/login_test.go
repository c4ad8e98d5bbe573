package login_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SalekhM8/BrainBooster-sub000/internal/http/handlers/auth/login"
	"github.com/SalekhM8/BrainBooster-sub000/internal/services/auth"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (string, string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.String(1), args.Error(2)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(s *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "successful login",
			body: `{"email": "student@example.com", "password": "secret123"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "student@example.com", "secret123").
					Return("signed-token", "STUDENT", nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   "signed-token",
		},
		{
			name: "invalid credentials",
			body: `{"email": "student@example.com", "password": "wrongpass"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "student@example.com", "wrongpass").
					Return("", "", auth.ErrInvalidCredentials).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "invalid credentials",
		},
		{
			name:       "malformed json",
			body:       `{email:}`,
			setupMocks: func(s *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not an email",
			body:       `{"email": "student", "password": "secret123"}`,
			setupMocks: func(s *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "short password",
			body:       `{"email": "student@example.com", "password": "123"}`,
			setupMocks: func(s *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "internal error",
			body: `{"email": "student@example.com", "password": "secret123"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "student@example.com", "secret123").
					Return("", "", errors.New("connection refused")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMocks(svc)

			h := login.New(discardLogger(), svc)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
			svc.AssertExpectations(t)
		})
	}
}
