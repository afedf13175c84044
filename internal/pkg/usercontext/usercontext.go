package usercontext

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sochai/sochai-web/internal/pkg/session"
)

// UserContext is the per-request view of who is calling.
type UserContext struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"is_logged_in"`
	IsAdmin    bool   `json:"is_admin"`
	IsProUser  bool   `json:"is_pro_user"`
	BrowserID  string `json:"-"`
}

// FromSession derives the context from a session snapshot.
func FromSession(s session.Session, browserID string) UserContext {
	uc := UserContext{BrowserID: browserID}
	if !s.IsAuthenticated || s.User == nil {
		return uc
	}
	uc.UserID = s.User.ID
	uc.Name = s.User.DisplayName()
	uc.Email = s.User.Email
	uc.IsLoggedIn = true
	uc.IsAdmin = s.User.IsAdmin()
	uc.IsProUser = s.User.IsProUser
	return uc
}

// Set stores the session service and the derived context on the request.
func Set(c *fiber.Ctx, svc session.Store, browserID string) {
	c.Locals(KeySession, svc)
	c.Locals(KeyBrowserID, browserID)
	Sync(c)
}

// Sync re-derives the context after the session changed during the request.
func Sync(c *fiber.Ctx) {
	svc := GetSession(c)
	if svc == nil {
		return
	}
	uc := FromSession(svc.Current(), GetBrowserID(c))
	c.Locals(KeyUserContext, uc)
	c.Locals(KeyFromProtected, uc.IsLoggedIn)
	c.Locals(KeyIsAdmin, uc.IsAdmin)
}

// GetUserContext retrieves the user context from fiber context
// Returns a default anonymous context if none is set
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx, ok := c.Locals(KeyUserContext).(UserContext); ok {
		return ctx
	}
	return UserContext{}
}

// GetSession returns the request's session service, nil outside the middleware.
func GetSession(c *fiber.Ctx) session.Store {
	if s, ok := c.Locals(KeySession).(session.Store); ok {
		return s
	}
	return nil
}

func GetBrowserID(c *fiber.Ctx) string {
	id, _ := c.Locals(KeyBrowserID).(string)
	return id
}

func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

func IsAdmin(c *fiber.Ctx) bool {
	return GetUserContext(c).IsAdmin
}
