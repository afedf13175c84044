package router

import (
	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/sochai/sochai-web/internal/pkg/authgate"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Social OAuth
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", h.ctrl.Auth.HandleOAuthCallback)

	// Cross-tab session sync
	app.Get("/events/session", h.ctrl.Events.HandleSessionEvents)

	// Pro-only pages
	app.Get("/upload-model", authgate.RequireProUser, h.ctrl.Listing.HandleUploadPage)
}
