package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/sochai/sochai-web/internal/pkg/env"
)

// csrfToken accepts the token from the X-CSRF-Token header sent by scripted
// clients, or from the _csrf field of a plain form post.
func csrfToken(c *fiber.Ctx) (string, error) {
	if token, err := csrf.CsrfFromHeader(csrf.HeaderName)(c); err == nil {
		return token, nil
	}
	return csrf.CsrfFromForm("_csrf")(c)
}

func corsConfig() cors.Config {
	origins := env.GetEnv("CORS_ORIGINS", "")
	if origins == "" {
		return cors.Config{}
	}
	// credentials may only be allowed for explicit origins
	return cors.Config{AllowOrigins: origins, AllowCredentials: !strings.Contains(origins, "*")}
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	protect := csrf.New(csrf.Config{
		Extractor:      csrfToken,
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour,
		// the group prefix is empty, so the JSON API mounted later passes through here
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
	})

	auth := app.Group("", cors.New(corsConfig()), protect)
	auth.Get("/login", h.ctrl.Auth.HandleLoginPage)
	auth.Post("/login", h.ctrl.Auth.HandleLogin)
	auth.Post("/signup", h.ctrl.Auth.HandleSignup)
	auth.Post("/logout", h.ctrl.Auth.HandleLogout)
}
