package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"receivables_monitor/internal/model"
	"receivables_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, username, password string) (*model.Analyst, string, error) {
	args := m.Called(username, password)
	a, _ := args.Get(0).(*model.Analyst)
	return a, args.String(1), args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.Analyst, string, error) {
	args := m.Called(username, password)
	a, _ := args.Get(0).(*model.Analyst)
	return a, args.String(1), args.Error(2)
}

func authRouter(s service.AuthService) *gin.Engine {
	r := gin.New()
	NewAuthHandler(s).RegisterAuthRoutes(r.Group("/api/v1"))
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	s := new(mockAuthService)
	s.On("Register", "noura", "hunter22").Return(&model.Analyst{ID: 1, Username: "noura", Role: model.RoleAdmin}, "tok", nil)
	s.On("Register", "omar", "hunter22").Return(nil, "", service.ErrUserAlreadyExists)
	r := authRouter(s)

	w := post(r, "/api/v1/auth/register", `{"username":"noura","password":"hunter22"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"tok"`)

	assert.Equal(t, http.StatusConflict, post(r, "/api/v1/auth/register", `{"username":"omar","password":"hunter22"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/v1/auth/register", `{"username":"omar","password":"123"}`).Code)
}

func TestAuthHandler_Login(t *testing.T) {
	s := new(mockAuthService)
	s.On("Login", "omar", "hunter22").Return(&model.Analyst{ID: 2, Username: "omar", Role: model.RoleViewer}, "tok", nil)
	s.On("Login", "omar", "wrong").Return(nil, "", service.ErrInvalidCredentials)
	r := authRouter(s)

	w := post(r, "/api/v1/auth/login", `{"username":"omar","password":"hunter22"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"viewer"`)

	assert.Equal(t, http.StatusUnauthorized, post(r, "/api/v1/auth/login", `{"username":"omar","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(r, "/api/v1/auth/login", `{}`).Code)
}
