package flash

import (
	"github.com/gofiber/fiber/v2"
	sflash "github.com/sujit-baniya/flash"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-facing message with a severity.
type Notice struct {
	Level   Level  `json:"type"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

func (n Notice) Map() fiber.Map {
	m := fiber.Map{"type": string(n.Level), "message": n.Message}
	if n.Title != "" {
		m["title"] = n.Title
	}
	return m
}

// Locals key for notices queued during the current request
const FlashKey = "flash_notices"

// Add queues a notice on the request. Handlers answering JSON include Pending(c)
// in the body, handlers redirecting call Redirect.
func Add(c *fiber.Ctx, n Notice) {
	c.Locals(FlashKey, append(Pending(c), n))
}

func Pending(c *fiber.Ctx) []Notice {
	if v, ok := c.Locals(FlashKey).([]Notice); ok {
		return v
	}
	return nil
}

// Redirect carries n across the redirect in the flash cookie.
func Redirect(c *fiber.Ctx, n Notice, to string) error {
	m := n.Map()
	switch n.Level {
	case LevelSuccess:
		return sflash.WithSuccess(c, m).Redirect(to, fiber.StatusSeeOther)
	case LevelInfo:
		return sflash.WithInfo(c, m).Redirect(to, fiber.StatusSeeOther)
	case LevelWarning:
		return sflash.WithWarn(c, m).Redirect(to, fiber.StatusSeeOther)
	default:
		return sflash.WithError(c, m).Redirect(to, fiber.StatusSeeOther)
	}
}

// Get returns the notice carried over from the previous redirect, if any.
func Get(c *fiber.Ctx) fiber.Map {
	return sflash.Get(c)
}

// Notifier delivers notices to the request that triggered them.
type Notifier struct {
	c *fiber.Ctx
}

func NewNotifier(c *fiber.Ctx) *Notifier {
	return &Notifier{c: c}
}

func (n *Notifier) Notify(notice Notice) {
	Add(n.c, notice)
}

// Recorder collects notices in memory.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.Notices = append(r.Notices, n)
}

// Last returns the most recent notice, or the zero Notice.
func (r *Recorder) Last() Notice {
	if len(r.Notices) == 0 {
		return Notice{}
	}
	return r.Notices[len(r.Notices)-1]
}
