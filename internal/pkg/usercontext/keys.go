package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	KeyUserContext   = "USER_CONTEXT"
	KeySession       = "SESSION"
	KeyBrowserID     = "browser_id"
	KeyFromProtected = "from_protected"
	KeyIsAdmin       = "isAdmin"
)
