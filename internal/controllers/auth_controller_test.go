package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"botfactory/internal/services"
	"botfactory/pkg/config"
	"botfactory/pkg/service"
	"botfactory/pkg/utils"
)

func newAuthController(t *testing.T) *AuthController {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour)
	authSvc := services.NewAuthService(config.AdminAPIConfig{
		Login:        "admin",
		PasswordHash: string(hash),
	}, jwtSvc, zap.NewNop())
	return NewAuthController(authSvc, zap.NewNop())
}

func postJSON(t *testing.T, handler echo.HandlerFunc, body string) (*httptest.ResponseRecorder, utils.HttpResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))

	var resp utils.HttpResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestLogin_ReturnsTokenPair(t *testing.T) {
	c := newAuthController(t)

	rec, resp := postJSON(t, c.Login, `{"login":"admin","password":"secret-password"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Status)

	body, ok := resp.Body.(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, body["accessToken"])
	assert.NotEmpty(t, body["refreshToken"])
}

func TestLogin_WrongPassword(t *testing.T) {
	c := newAuthController(t)

	rec, resp := postJSON(t, c.Login, `{"login":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Status)
}

func TestLogin_MissingFields(t *testing.T) {
	c := newAuthController(t)

	rec, resp := postJSON(t, c.Login, `{"login":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Status)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	c := newAuthController(t)

	_, resp := postJSON(t, c.Login, `{"login":"admin","password":"secret-password"}`)
	body := resp.Body.(map[string]interface{})
	refreshToken := body["refreshToken"].(string)

	rec, resp := postJSON(t, c.Refresh, `{"refreshToken":"`+refreshToken+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Status)
}

func TestRefresh_RejectsInvalidToken(t *testing.T) {
	c := newAuthController(t)

	rec, resp := postJSON(t, c.Refresh, `{"refreshToken":"мусор"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Status)
}
