package flash

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirectKeepsNoticeLevel(t *testing.T) {
	app := fiber.New()
	app.Get("/pay", func(c *fiber.Ctx) error {
		return Redirect(c, Notice{Level: LevelWarning, Message: "pending"}, "/done")
	})
	app.Get("/done", func(c *fiber.Ctx) error {
		return c.JSON(Get(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/pay", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/done", resp.Header.Get("Location"))

	req := httptest.NewRequest("GET", "/done", nil)
	req.Header.Set("Cookie", strings.SplitN(resp.Header.Get(fiber.HeaderSetCookie), ";", 2)[0])
	resp, err = app.Test(req)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "warning", got["type"])
	assert.Equal(t, "pending", got["message"])
	assert.NotContains(t, got, "error")
}

func TestPendingCollectsNotices(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		n := NewNotifier(c)
		n.Notify(Notice{Level: LevelSuccess, Message: "one"})
		n.Notify(Notice{Level: LevelError, Message: "two"})
		return c.JSON(Pending(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var got []Notice
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, LevelError, got[1].Level)
}
