package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"ecommerce-catalog/internal/models"
	"ecommerce-catalog/internal/transport"
)

func TestRegisterCreatesCustomer(t *testing.T) {
	env := newTestEnv(t)

	body := transport.RegisterRequest{
		FirstName: "Jamie",
		LastName:  "Doe",
		Username:  "jamie",
		Email:     "jamie@example.com",
		Password:  "s3cret",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", body)

	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, env.DB.Where("username = ?", "jamie").First(&user).Error)
	require.True(t, user.IsCustomer)
	require.False(t, user.IsAdmin)
	require.False(t, user.IsSupplier)
	require.NotEqual(t, "s3cret", user.PasswordHash)

	// The hash must never leak into the response body.
	require.NotContains(t, rec.Body.String(), user.PasswordHash)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	body := transport.RegisterRequest{Username: "jamie"}
	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", body)

	err := env.Auth.Register(c)
	require.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	body := transport.RegisterRequest{Username: "jamie", Password: "s3cret"}
	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", body)
	require.NoError(t, env.Auth.Register(c))

	_, c = env.doJSONRequest(http.MethodPost, "/auth/register", body)
	err := env.Auth.Register(c)
	require.Equal(t, http.StatusConflict, httpStatus(t, err))
}

func TestLoginIssuesToken(t *testing.T) {
	env := newTestEnv(t)

	register := transport.RegisterRequest{Username: "jamie", Password: "s3cret"}
	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", register)
	require.NoError(t, env.Auth.Register(c))

	login := transport.LoginRequest{Username: "jamie", Password: "s3cret"}
	rec, c := env.doJSONRequest(http.MethodPost, "/auth/login", login)
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, "jamie", claims["username"])
	require.Equal(t, true, claims["is_customer"])
	require.Equal(t, false, claims["is_admin"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	register := transport.RegisterRequest{Username: "jamie", Password: "s3cret"}
	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", register)
	require.NoError(t, env.Auth.Register(c))

	login := transport.LoginRequest{Username: "jamie", Password: "wrong"}
	_, c = env.doJSONRequest(http.MethodPost, "/auth/login", login)
	err := env.Auth.Login(c)
	require.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	login := transport.LoginRequest{Username: "ghost", Password: "whatever"}
	_, c := env.doJSONRequest(http.MethodPost, "/auth/login", login)
	err := env.Auth.Login(c)
	require.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}
