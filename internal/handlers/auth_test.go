package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, models.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(id string) error {
	return nil
}

func newTestUser(email, password, role string) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return &models.User{
		ID:       "user-1",
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Status:   string(models.StatusActive),
	}
}

func newAuthTestHandler(user *models.User) *AuthHandler {
	repo := &fakeUserRepo{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[string]*models.User{user.ID: user},
	}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiration: 3600}
	return NewAuthHandler(cfg, logger.New("info", "development"), nil, repo)
}

func TestLogin_ValidCredentialsReturnsToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := newTestUser("operator@example.com", "hunter2", string(models.RoleAdmin))
	h := newAuthTestHandler(user)

	body, _ := json.Marshal(models.LoginRequest{Email: "operator@example.com", Password: "hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/auth/login", h.Login)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLogin_WrongPasswordReturnsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := newTestUser("operator@example.com", "hunter2", string(models.RoleAdmin))
	h := newAuthTestHandler(user)

	body, _ := json.Marshal(models.LoginRequest{Email: "operator@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/auth/login", h.Login)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_InactiveAccountReturnsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := newTestUser("operator@example.com", "hunter2", string(models.RoleViewer))
	user.Status = string(models.StatusInactive)
	h := newAuthTestHandler(user)

	body, _ := json.Marshal(models.LoginRequest{Email: "operator@example.com", Password: "hunter2"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r := gin.New()
	r.POST("/api/v1/auth/login", h.Login)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfile_ReturnsAuthenticatedUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := newTestUser("operator@example.com", "hunter2", string(models.RoleAdmin))
	h := newAuthTestHandler(user)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	w := httptest.NewRecorder()

	r := gin.New()
	r.GET("/api/v1/auth/me", func(c *gin.Context) {
		c.Set("user_id", user.ID)
		h.GetProfile(c)
	})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
}
