package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/sochai/sochai-web/app/controllers"
	"github.com/sochai/sochai-web/internal/pkg/authgate"
	"github.com/sochai/sochai-web/internal/pkg/middleware"
)

type ApiRouter struct {
	ctrl *controllers.Controllers
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Session and plans
	api.Get("/session", h.ctrl.Auth.HandleSession)
	api.Get("/plans", h.ctrl.Auth.HandlePlans)
	api.Post("/auth/login", h.ctrl.Auth.HandleLogin)
	api.Post("/auth/signup", h.ctrl.Auth.HandleSignup)
	api.Post("/auth/logout", h.ctrl.Auth.HandleLogout)
	api.Get("/gate/model-upload", authgate.HandleModelUploadGate)

	// Checkout
	api.Post("/checkout/select", h.ctrl.Checkout.HandleSelect)
	api.Post("/checkout/resolve", h.ctrl.Checkout.HandleResolve)

	// Directory
	api.Get("/models", h.ctrl.Listing.HandleList)
	api.Post("/models", authgate.RequireProUser, h.ctrl.Listing.HandleSubmit)
	api.Get("/models/:id", h.ctrl.Listing.HandleGet)
	api.Post("/models/:id/click", h.ctrl.Listing.HandleClick)

	// Uploads
	uploads := api.Group("/uploads", authgate.RequireProUser)
	uploads.Post("/logo", h.ctrl.Upload.HandleLogo)
	uploads.Post("/screenshots", h.ctrl.Upload.HandleScreenshots)
	uploads.Delete("/", h.ctrl.Upload.HandleRemove)

	h.registerAdminRoutes(api)
}

func (h ApiRouter) registerAdminRoutes(api fiber.Router) {
	admin := api.Group("/admin", middleware.RequireAPIAdmin)
	admin.Get("/models", h.ctrl.Admin.HandleModels)
	admin.Patch("/models/:id/status", h.ctrl.Admin.HandleModelStatus)
	admin.Get("/users", h.ctrl.Admin.HandleUsers)
	admin.Patch("/users/:id/subscription", h.ctrl.Admin.HandleTogglePro)
	admin.Get("/reconciliations", h.ctrl.Admin.HandleReconciliations)
	admin.Post("/reconciliations/:id/resolve", h.ctrl.Admin.HandleResolveReconciliation)
	admin.Get("/stats", h.ctrl.Admin.HandleStats)
}

func NewApiRouter(ctrl *controllers.Controllers) *ApiRouter {
	return &ApiRouter{ctrl: ctrl}
}
