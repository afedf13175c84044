package authgate

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/internal/pkg/flash"
	"github.com/sochai/sochai-web/internal/pkg/session"
	"github.com/sochai/sochai-web/internal/pkg/usercontext"
)

// RequireProUser gates a route to authenticated pro users. Navigations get a
// flash notice and a redirect, JSON requests get 401 or 403.
func RequireProUser(c *fiber.Ctx) error {
	d := Evaluate(current(c), c.OriginalURL())
	if d.Outcome == Allow {
		return c.Next()
	}

	log.Debugf("[AuthGate] %s on %s", d.Outcome, c.Path())
	if wantsJSON(c) {
		status := fiber.StatusForbidden
		if d.Outcome == RedirectLogin {
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(d)
	}
	return flash.Redirect(c, *d.Notice, d.Redirect)
}

// HandleModelUploadGate lets a mounted view re-check the gate after a
// session change.
func HandleModelUploadGate(c *fiber.Ctx) error {
	intended := c.Query("intended", "/upload-model")
	return c.JSON(Evaluate(current(c), SafeDestination(intended)))
}

func current(c *fiber.Ctx) session.Session {
	svc := usercontext.GetSession(c)
	if svc == nil {
		return session.Session{}
	}
	return svc.Refresh()
}

func wantsJSON(c *fiber.Ctx) bool {
	if c.Get("X-Requested-With") == "XMLHttpRequest" || c.Get("HX-Request") == "true" {
		return true
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return true
	}
	return strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}
