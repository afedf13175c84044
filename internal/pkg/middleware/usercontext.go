package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sochai/sochai-web/internal/pkg/broadcast"
	"github.com/sochai/sochai-web/internal/pkg/session"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

type SessionConfig struct {
	Codec   *session.Codec
	Bus     broadcast.Bus
	Cookies session.CookieOptions
}

// UserContextMiddleware builds the request's session service from its cookies
// and publishes the derived user context in locals.
func UserContextMiddleware(cfg SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		browserID := session.BrowserID(c, cfg.Cookies)
		opts := []session.Option{}
		if cfg.Bus != nil {
			opts = append(opts, session.WithBroadcast(cfg.Bus, browserID))
		}
		svc := session.New(session.NewFiberJar(c, cfg.Cookies), cfg.Codec, opts...)
		usercontext.Set(c, svc, browserID)
		return c.Next()
	}
}
