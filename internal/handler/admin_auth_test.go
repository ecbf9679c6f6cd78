package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate-hq/booking-api/internal/middleware"
	"github.com/flowstate-hq/booking-api/internal/utils"
)

func newAuthHandler(t *testing.T) *AdminAuthHandler {
	t.Helper()
	hash, err := utils.HashAdminPassword("open-sesame")
	require.NoError(t, err)
	return &AdminAuthHandler{SessionSecret: "test-secret", AdminPasswordHash: hash}
}

func postLogin(t *testing.T, h *AdminAuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Login(e.NewContext(req, rec)))
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := newAuthHandler(t)

	for _, body := range []string{`{"password":"wrong"}`, `{"password":""}`, `{}`} {
		rec := postLogin(t, h, body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "body %s", body)
		assert.Nil(t, sessionCookie(rec), "no cookie on failed login")
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h := newAuthHandler(t)
	rec := postLogin(t, h, `{"password":"open-sesame"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.True(t, utils.ValidateSessionToken(h.SessionSecret, cookie.Value))
}

func TestSessionReportsWithoutGating(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	// No cookie: authenticated=false, still a 200.
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/session", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Session(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Valid cookie: authenticated=true.
	token, err := utils.NewSessionToken(h.SessionSecret)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	require.NoError(t, h.Session(e.NewContext(req, rec)))
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)
}

func TestAdminAuthMiddlewareGate(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.String(http.StatusOK, "reached") }
	gate := middleware.AdminAuth("test-secret")(next)

	// Missing cookie.
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/events", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, gate(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Forged cookie.
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/events", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "not-a-token"})
	rec = httptest.NewRecorder()
	require.NoError(t, gate(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid cookie.
	token, err := utils.NewSessionToken("test-secret")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/admin/events", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	rec = httptest.NewRecorder()
	require.NoError(t, gate(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "reached", rec.Body.String())
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/logout", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Logout(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
