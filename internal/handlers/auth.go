package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"ecommerce-catalog/internal/hash"
	"ecommerce-catalog/internal/logging"
	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/transport"
)

// AuthHandler issues the identity tokens the catalog endpoints consume. New
// registrations are customers; admin and supplier flags are provisioned out
// of band.
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	TokenTTL  time.Duration
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		l.Warn("register_failed", "status", 409, "username", req.Username)
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsCustomer:   true,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		l.Warn("login_failed", "status", 401, "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 401, "username", req.Username)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":         user.ID,
		"username":    user.Username,
		"is_admin":    user.IsAdmin,
		"is_supplier": user.IsSupplier,
		"is_customer": user.IsCustomer,
		"iat":         now.Unix(),
		"exp":         now.Add(h.TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create token")
	}

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.TokenResponse{AccessToken: signed})
}
