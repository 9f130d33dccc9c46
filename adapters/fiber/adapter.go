package fiber

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/traveleasy/gate/core"
)

const DefaultCookieName = "gate_session"

// Options configures paths and the session cookie. Zero fields take the
// defaults shown in DefaultOptions.
type Options struct {
	BasePath      string
	SignupPath    string
	LoginPath     string
	LogoutPath    string
	DashboardPath string // where a successful login lands
	CookieName    string
	CookieSecure  bool
}

func DefaultOptions() Options {
	return Options{
		SignupPath:    "/signup",
		LoginPath:     "/login",
		LogoutPath:    "/logout",
		DashboardPath: "/dashboard",
		CookieName:    DefaultCookieName,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.SignupPath == "" {
		o.SignupPath = d.SignupPath
	}
	if o.LoginPath == "" {
		o.LoginPath = d.LoginPath
	}
	if o.LogoutPath == "" {
		o.LogoutPath = d.LogoutPath
	}
	if o.DashboardPath == "" {
		o.DashboardPath = d.DashboardPath
	}
	if o.CookieName == "" {
		o.CookieName = d.CookieName
	}
	o.BasePath = strings.TrimSuffix(o.BasePath, "/")
	return o
}

type Adapter struct {
	app      *fiber.App
	opts     Options
	auth     core.Authenticator
	sessions core.SessionConfig
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App, opts ...Options) *Adapter {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Adapter{app: app, opts: o.withDefaults()}
}

// path prefixes p with the base path.
func (a *Adapter) path(p string) string {
	return a.opts.BasePath + p
}

func (a *Adapter) RegisterRoutes(auth core.Authenticator, sessions core.SessionConfig) error {
	a.auth = auth
	a.sessions = sessions

	api := a.app.Group(a.opts.BasePath)

	api.Post(a.opts.SignupPath, a.signup)
	api.Post(a.opts.LoginPath, a.login)
	api.Post(a.opts.LogoutPath, a.logout)
	api.Get(a.opts.LogoutPath, a.logout)

	return nil
}
