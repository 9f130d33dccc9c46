package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/log"

	"github.com/traveleasy/gate/core"
)

const (
	localsAccount = "account"
	localsSession = "session"
)

// RequireSession guards the routes after it. Requests without a valid
// session are redirected to the login page; otherwise the account and
// session are stored in Locals for downstream handlers.
func (a *Adapter) RequireSession() fiber.Handler {
	return func(c fiber.Ctx) error {
		if a.auth == nil {
			log.Errorw("RequireSession used before RegisterRoutes")
			return respondError(c, http.StatusInternalServerError, "internal server error")
		}

		data, err := a.auth.GetSession(c.Context(), a.extractHandle(c))
		if err != nil {
			if errors.Is(err, core.ErrUnauthenticated) {
				return c.Redirect().Status(fiber.StatusSeeOther).To(a.path(a.opts.LoginPath))
			}
			log.Errorw("session lookup failed", "path", c.Path(), "error", err)
			return respondError(c, http.StatusInternalServerError, "internal server error")
		}

		c.Locals(localsAccount, data.Account)
		c.Locals(localsSession, data.Session)

		return c.Next()
	}
}

// AccountFrom returns the account RequireSession stored, or nil.
func AccountFrom(c fiber.Ctx) *core.Account {
	account, _ := c.Locals(localsAccount).(*core.Account)
	return account
}

// SessionFrom returns the session RequireSession stored, or nil.
func SessionFrom(c fiber.Ctx) *core.Session {
	session, _ := c.Locals(localsSession).(*core.Session)
	return session
}
