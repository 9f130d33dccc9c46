package fiber

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"github.com/traveleasy/gate/core"
)

func (a *Adapter) signup(c fiber.Ctx) error {
	var input core.RegisterInput
	if err := c.Bind().Body(&input); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	account, err := a.auth.Register(c.Context(), input)
	if err != nil {
		return a.handleAuthError(c, "signup", input.Username, err)
	}

	log.Infow("account registered", "username", account.Username, "accountId", account.ID)
	return c.Redirect().Status(fiber.StatusSeeOther).To(a.path(a.opts.LoginPath))
}

func (a *Adapter) login(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := a.auth.Login(c.Context(), input, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return a.handleAuthError(c, "login", input.Username, err)
	}

	a.setSessionCookie(c, result.Handle)
	log.Infow("login succeeded", "username", result.Account.Username, "sessionId", result.Session.ID, "ip", c.IP())
	return c.Redirect().Status(fiber.StatusSeeOther).To(a.opts.DashboardPath)
}

func (a *Adapter) logout(c fiber.Ctx) error {
	if err := a.auth.Logout(c.Context(), a.extractHandle(c)); err != nil {
		log.Errorw("logout failed", "error", err)
		return respondError(c, http.StatusInternalServerError, "internal server error")
	}

	a.clearSessionCookie(c)
	return c.Redirect().Status(fiber.StatusSeeOther).To(a.path(a.opts.LoginPath))
}

func (a *Adapter) setSessionCookie(c fiber.Ctx, handle string) {
	cookie := &fiber.Cookie{
		Name:     a.opts.CookieName,
		Value:    handle,
		Path:     "/",
		HTTPOnly: true,
		Secure:   a.opts.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if a.sessions.MaxAge > 0 {
		cookie.MaxAge = int(a.sessions.MaxAge / time.Second)
	}
	c.Cookie(cookie)
}

func (a *Adapter) clearSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     a.opts.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   a.opts.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}

// extractHandle reads the session handle from the cookie, falling back to
// an Authorization: Bearer header for non-browser clients.
func (a *Adapter) extractHandle(c fiber.Ctx) string {
	if handle := c.Cookies(a.opts.CookieName); handle != "" {
		return handle
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func (a *Adapter) handleAuthError(c fiber.Ctx, action, username string, err error) error {
	status := mapErrorToStatus(err)

	switch status {
	case http.StatusInternalServerError:
		log.Errorw(action+" failed", "username", username, "error", err)
	default:
		log.Warnw(action+" rejected", "username", username, "ip", c.IP(), "reason", err.Error())
	}

	return respondError(c, status, errorMessage(status, err))
}

// errorMessage is the client-facing text for err.
func errorMessage(status int, err error) string {
	switch {
	case errors.Is(err, core.ErrAccountExists):
		return "User already exists"
	case errors.Is(err, core.ErrInvalidCredentials):
		return "Invalid credentials"
	case status == http.StatusBadRequest:
		return err.Error()
	default:
		return "internal server error"
	}
}

// respondError answers JSON requests with {"error": msg} and everything
// else with plain text.
func respondError(c fiber.Ctx, status int, msg string) error {
	if c.Is("json") {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.Status(status).SendString(msg)
}

func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrAccountExists),
		core.IsValidation(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
