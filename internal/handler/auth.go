package handler

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/uniseats/lecture-seat-reservation/internal/catalog"
	"github.com/uniseats/lecture-seat-reservation/internal/config"
	"github.com/uniseats/lecture-seat-reservation/internal/mailer"
	"github.com/uniseats/lecture-seat-reservation/internal/middleware"
	"github.com/uniseats/lecture-seat-reservation/internal/queue"
	"github.com/uniseats/lecture-seat-reservation/internal/service"
	"github.com/uniseats/lecture-seat-reservation/internal/utils"
)

// AuthHandler implements the passwordless magic-link flow: a student asks
// for a login link, receives it by mail, and following it trades the
// one-time token for a session cookie.  The handler never hands out a
// session without a token that proves control of the address.
type AuthHandler struct {
	Cfg     config.Config
	Catalog *catalog.Catalog
	Mailer  *mailer.Mailer
}

// NewAuthHandler constructs an AuthHandler.  All dependencies must be
// non-nil.
func NewAuthHandler(cfg config.Config, cat *catalog.Catalog, m *mailer.Mailer) *AuthHandler {
	if cat == nil || m == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Catalog: cat, Mailer: m}
}

type loginReq struct {
	Email string `json:"email"`
}

// RequestLink handles POST /v1/lectures/:lecture/login.  It validates the
// address, signs a short-lived login token bound to the lecture and
// queues the mail job.  The response is 202 regardless of whether the
// address is known; in dev mode it also echoes the link so the flow can
// be exercised without a mailbox.
func (h *AuthHandler) RequestLink(c echo.Context) error {
	lectureID := c.Param("lecture")
	if _, err := h.Catalog.Lecture(lectureID); err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown lecture"})
	}
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := service.NormalizeIdentity(req.Email)
	if !service.ValidEmail(email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid email address"})
	}

	token, err := utils.NewLoginToken(h.Cfg.JWTSecret, email, lectureID, h.Cfg.LoginTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue login token failed"})
	}
	link := h.Cfg.BaseURL + "/v1/lectures/" + url.PathEscape(lectureID) + "/login/verify?token=" + url.QueryEscape(token)

	ev := queue.LoginLinkEvent{
		Email:       email,
		Lecture:     lectureID,
		Link:        link,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := service.PublishLoginLink(c.Request().Context(), ev); err != nil {
		// Broker down: deliver directly rather than dropping the login.
		if err := h.Mailer.SendLoginLink(email, lectureID, link); err != nil {
			log.Printf("auth: direct mail fallback failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "sending login link failed"})
		}
	}

	resp := echo.Map{"message": "login link sent, check your inbox"}
	if h.Cfg.Dev() {
		resp["link"] = link
	}
	return c.JSON(http.StatusAccepted, resp)
}

// VerifyLink handles GET /v1/lectures/:lecture/login/verify?token=...
// A valid token proves the bearer controls the email address; the handler
// answers with a session cookie scoped to the whole site and reports
// whether the identity has admin rights.
func (h *AuthHandler) VerifyLink(c echo.Context) error {
	lectureID := c.Param("lecture")
	raw := c.QueryParam("token")
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing token"})
	}
	email, lecture, err := utils.ParseLoginToken(h.Cfg.JWTSecret, raw)
	if err != nil || lecture != lectureID {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired login link"})
	}
	admin := h.Cfg.IsAdmin(email)
	session, err := utils.NewSessionToken(h.Cfg.JWTSecret, email, admin, h.Cfg.SessionTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(&http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !h.Cfg.Dev(),
	})
	return c.JSON(http.StatusOK, echo.Map{"email": email, "admin": admin, "lecture": lectureID})
}

// Me handles GET /v1/me and returns the viewer behind the session cookie.
func (h *AuthHandler) Me(c echo.Context) error {
	email, _ := c.Get(middleware.IdentityKey).(string)
	admin, _ := c.Get(middleware.AdminKey).(bool)
	return c.JSON(http.StatusOK, echo.Map{"email": email, "admin": admin})
}

// Logout handles POST /v1/logout by expiring the session cookie.  The
// token itself simply ages out; there is no server-side session state to
// revoke.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.NoContent(http.StatusNoContent)
}
