package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/sochai/sochai-web/internal/pkg/cache"
	"github.com/sochai/sochai-web/internal/pkg/env"
)

var serverStore *fibersession.Store

// NewServerStore creates the server-side session store, backed by redis
// database 1. It keeps short-lived per-browser state such as the current
// checkout attempt and the page to return to after login.
func NewServerStore() *fibersession.Store {
	serverStore = fibersession.New(fibersession.Config{
		Storage:        cache.Storage(1),
		CookieHTTPOnly: true,
		CookieSecure:   env.GetBool("COOKIE_SECURE", false),
		Expiration:     time.Hour,
		KeyLookup:      "cookie:session_id",
	})
	return serverStore
}

// SetServerStore installs a store, typically an in-memory one in tests.
func SetServerStore(s *fibersession.Store) {
	serverStore = s
}

func GetServerStore() *fibersession.Store {
	return serverStore
}

// SetValue stores a value in the browser's server-side session.
func SetValue(c *fiber.Ctx, key string, value string) error {
	if serverStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := serverStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %v", err)
	}
	sess.Set(key, value)
	return sess.Save()
}

// GetValue reads a value from the browser's server-side session.
func GetValue(c *fiber.Ctx, key string) string {
	if serverStore == nil {
		return ""
	}
	sess, err := serverStore.Get(c)
	if err != nil {
		return ""
	}
	if v, ok := sess.Get(key).(string); ok {
		return v
	}
	return ""
}

// DeleteValue removes key from the browser's server-side session.
func DeleteValue(c *fiber.Ctx, key string) error {
	if serverStore == nil {
		return fmt.Errorf("session store not initialized")
	}
	sess, err := serverStore.Get(c)
	if err != nil {
		return fmt.Errorf("failed to get session: %v", err)
	}
	sess.Delete(key)
	return sess.Save()
}
