package session

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserIDIssuedOnceAndReused(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(BrowserID(c, CookieOptions{}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var issued string
	for _, ck := range resp.Cookies() {
		if ck.Name == BrowserCookie {
			issued = ck.Value
		}
	}
	require.NotEmpty(t, issued)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", BrowserCookie+"="+issued)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())
}

func TestFiberJarReadsOwnWrites(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		jar := NewFiberJar(c, CookieOptions{})
		s := New(jar, testCodec())
		if err := s.Login(testUser(), "tok123"); err != nil {
			return err
		}
		if !s.Refresh().IsAuthenticated {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	names := map[string]bool{}
	for _, ck := range resp.Cookies() {
		names[ck.Name] = ck.HttpOnly
	}
	assert.True(t, names[CookieToken])
	assert.True(t, names[CookieUser])
}
