package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sochai/sochai-web/app/controllers"
	"github.com/sochai/sochai-web/internal/pkg/middleware"
)

type HttpRouter struct {
	ctrl *controllers.Controllers
	cfg  middleware.SessionConfig
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware(h.cfg))

	h.registerPublicRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter(ctrl *controllers.Controllers, cfg middleware.SessionConfig) *HttpRouter {
	return &HttpRouter{ctrl: ctrl, cfg: cfg}
}
