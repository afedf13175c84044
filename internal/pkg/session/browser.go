package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// BrowserCookie identifies a browser across tabs and logins.
	BrowserCookie = "sid"
	browserTTL    = 365 * 24 * time.Hour
	localBrowser  = "browser_id"
)

// BrowserID returns the browser id of the request, issuing a new sid cookie when
// the browser has none.
func BrowserID(c *fiber.Ctx, opts CookieOptions) string {
	if id, ok := c.Locals(localBrowser).(string); ok && id != "" {
		return id
	}
	id := c.Cookies(BrowserCookie)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		sameSite := opts.SameSite
		if sameSite == "" {
			sameSite = fiber.CookieSameSiteLaxMode
		}
		c.Cookie(&fiber.Cookie{
			Name:     BrowserCookie,
			Value:    id,
			Path:     "/",
			Domain:   opts.Domain,
			Expires:  time.Now().Add(browserTTL),
			Secure:   opts.Secure,
			HTTPOnly: true,
			SameSite: sameSite,
		})
	}
	c.Locals(localBrowser, id)
	return id
}
