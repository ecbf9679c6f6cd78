package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/flowstate-hq/booking-api/internal/middleware"
	"github.com/flowstate-hq/booking-api/internal/utils"
)

// AdminAuthHandler manages the admin panel session.  There is a single
// admin identity: login compares the submitted password against a
// bcrypt hash from configuration and issues a signed, expiring session
// cookie.
type AdminAuthHandler struct {
	SessionSecret     string
	AdminPasswordHash string
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

// Login verifies the admin password and sets the session cookie.  The
// cookie is HttpOnly and SameSite=Strict so scripts cannot read it and
// cross-site requests cannot ride it.
func (h *AdminAuthHandler) Login(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Password == "" || !utils.VerifyAdminPassword(h.AdminPasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := utils.NewSessionToken(h.SessionSecret)
	if err != nil {
		c.Logger().Errorf("issue session token failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not start session"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"authenticated": true})
}

// Logout clears the session cookie.  Idempotent: logging out without a
// session is still a 200.
func (h *AdminAuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, echo.Map{"authenticated": false})
}

// Session reports whether the caller holds a valid session.  Unlike the
// gated admin routes this never returns 401; the admin UI polls it to
// decide which screen to render.
func (h *AdminAuthHandler) Session(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	authenticated := err == nil && cookie.Value != "" &&
		utils.ValidateSessionToken(h.SessionSecret, cookie.Value)
	return c.JSON(http.StatusOK, echo.Map{"authenticated": authenticated})
}
