package oauth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/sochai/sochai-web/internal/pkg/cache"
	"github.com/sochai/sochai-web/internal/pkg/env"
)

// Enabled reports whether Google sign-in is configured.
func Enabled() bool {
	return env.GetEnv("GOOGLE_KEY", "") != "" && env.GetEnv("GOOGLE_SECRET", "") != ""
}

// CallbackURL is where Google sends the browser back to.
func CallbackURL() string {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}
	return base + "/auth/google/callback"
}

// Setup registers the Google provider and keeps the OAuth state in redis.
// It is safe to call multiple times; providers will just be re-registered.
func Setup() {
	if !Enabled() {
		log.Warn("[OAuth] GOOGLE_KEY/GOOGLE_SECRET not set, Google sign-in is disabled")
		return
	}

	goth.UseProviders(
		google.New(
			env.GetEnv("GOOGLE_KEY", ""),
			env.GetEnv("GOOGLE_SECRET", ""),
			CallbackURL(),
			"email", "profile",
		),
	)

	// OAuth state lives next to the server sessions, in its own database
	gothfiber.SessionStore = session.New(session.Config{
		Storage:        cache.Storage(2),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     time.Hour,
	})
	log.Info("[OAuth] Google sign-in enabled")
}
