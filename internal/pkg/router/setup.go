package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sochai/sochai-web/app/controllers"
	"github.com/sochai/sochai-web/internal/pkg/middleware"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App, ctrl *controllers.Controllers, cfg middleware.SessionConfig) {
	// HttpRouter installs the session middleware every API route relies on,
	// so it goes first.
	setup(app, NewHttpRouter(ctrl, cfg), NewApiRouter(ctrl))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
