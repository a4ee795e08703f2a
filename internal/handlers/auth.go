package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jibe0123/mysteryfactory/internal/config"
	"github.com/jibe0123/mysteryfactory/internal/middleware"
	"github.com/jibe0123/mysteryfactory/internal/models"
	"github.com/jibe0123/mysteryfactory/pkg/db"
	"github.com/jibe0123/mysteryfactory/pkg/logger"
)

// AuthHandler handles authentication for operator accounts.
type AuthHandler struct {
	*BaseHandler
	users models.UserRepository
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg *config.Config, log *logger.Logger, database *db.DB, users models.UserRepository) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(cfg, log, database),
		users:       users,
	}
}

// Login authenticates an operator account and returns a JWT token.
// @Summary Operator login
// @Description Authenticate an operator account and return a JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil || !user.IsActive() {
		h.respondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := user.CheckPassword(req.Password); err != nil {
		h.respondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	expiresAt := time.Now().Add(time.Duration(h.config.JWTExpiration) * time.Second)
	claims := &middleware.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.config.JWTSecret))
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := h.users.UpdateLastLogin(user.ID); err != nil {
		h.logger.Warn("auth: failed to update last_login", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// GetProfile returns the authenticated operator's own account.
// @Summary Get operator profile
// @Description Get the authenticated operator's account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SuccessResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, err := h.getUserFromContext(c)
	if err != nil {
		h.respondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		h.respondWithError(c, status, "Failed to load profile")
		return
	}

	h.respondWithSuccess(c, "Profile retrieved successfully", user)
}
