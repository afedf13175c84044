package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sochai/sochai-web/internal/pkg/apiclient"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/broadcast"
	"github.com/sochai/sochai-web/internal/pkg/cache"
	"github.com/sochai/sochai-web/internal/pkg/checkout"
	"github.com/sochai/sochai-web/internal/pkg/flash"
	"github.com/sochai/sochai-web/internal/pkg/media"
	"github.com/sochai/sochai-web/internal/pkg/metrics/counter"
	"github.com/sochai/sochai-web/internal/pkg/reconcile"
	"github.com/sochai/sochai-web/internal/pkg/session"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

// Deps are the services the handlers work with.
type Deps struct {
	API      *apiclient.Client
	Checkout *checkout.Orchestrator
	Media    *media.Uploader
	Ledger   reconcile.Ledger
	Bus      broadcast.Bus
	Counters *counter.Counters
	// FirstClick defaults to the redis click dedup.
	FirstClick func(browserID, listingID string) bool
	// ForgetClick undoes FirstClick when the click could not be recorded.
	ForgetClick func(browserID, listingID string)
	// Attempts defaults to the browser's server-side session.
	Attempts func(c *fiber.Ctx) checkout.AttemptStore
}

// Controllers groups every handler of the BFF.
type Controllers struct {
	Auth     *AuthController
	Checkout *CheckoutController
	Upload   *UploadController
	Listing  *ListingController
	Admin    *AdminController
	Events   *EventsController
}

func New(d Deps) *Controllers {
	if d.Attempts == nil {
		d.Attempts = checkout.NewSessionAttemptStore
	}
	if d.FirstClick == nil {
		d.FirstClick = cache.FirstClick
	}
	if d.ForgetClick == nil {
		d.ForgetClick = cache.ForgetClick
	}
	return &Controllers{
		Auth:     &AuthController{api: d.API},
		Checkout: &CheckoutController{orch: d.Checkout, attempts: d.Attempts, counters: d.Counters},
		Upload:   &UploadController{media: d.Media, counters: d.Counters},
		Listing:  &ListingController{api: d.API, media: d.Media, firstClick: d.FirstClick, forgetClick: d.ForgetClick},
		Admin:    &AdminController{api: d.API, ledger: d.Ledger, counters: d.Counters},
		Events:   &EventsController{bus: d.Bus},
	}
}

// respond writes a successful JSON envelope including queued notices.
func respond(c *fiber.Ctx, status int, data interface{}) error {
	body := fiber.Map{"success": true, "data": data}
	if n := flash.Pending(c); len(n) > 0 {
		body["notices"] = n
	}
	return c.Status(status).JSON(body)
}

// respondError maps err onto a status code and a failed JSON envelope.
func respondError(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"success": false,
		"error":   string(apperr.KindOf(err)),
		"message": apperr.Message(err),
	}
	if n := flash.Pending(c); len(n) > 0 {
		body["notices"] = n
	}
	return c.Status(apperr.HTTPStatus(err)).JSON(body)
}

func currentSession(c *fiber.Ctx) session.Store {
	return usercontext.GetSession(c)
}

// wantsJSON is true for XHR and API requests.
func wantsJSON(c *fiber.Ctx) bool {
	if strings.HasPrefix(c.Path(), "/api/") || c.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) ||
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
