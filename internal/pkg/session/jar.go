package session

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Jar is the durable, expiring key/value storage the session lives in.
type Jar interface {
	Get(name string) string
	Set(name, value string, expires time.Time)
	Delete(name string)
}

// CookieOptions control the attributes of every cookie the BFF writes.
type CookieOptions struct {
	Secure   bool
	Domain   string
	SameSite string
}

// FiberJar stores entries as cookies on a fiber request. Writes made during the
// request are visible to later reads of the same request.
type FiberJar struct {
	c       *fiber.Ctx
	opts    CookieOptions
	written map[string]*string
}

func NewFiberJar(c *fiber.Ctx, opts CookieOptions) *FiberJar {
	if opts.SameSite == "" {
		opts.SameSite = fiber.CookieSameSiteLaxMode
	}
	return &FiberJar{c: c, opts: opts, written: make(map[string]*string)}
}

func (j *FiberJar) Get(name string) string {
	if v, ok := j.written[name]; ok {
		if v == nil {
			return ""
		}
		return *v
	}
	return j.c.Cookies(name)
}

func (j *FiberJar) Set(name, value string, expires time.Time) {
	j.c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.opts.Domain,
		Expires:  expires,
		Secure:   j.opts.Secure,
		HTTPOnly: true,
		SameSite: j.opts.SameSite,
	})
	v := value
	j.written[name] = &v
}

func (j *FiberJar) Delete(name string) {
	j.c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   j.opts.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   j.opts.Secure,
		HTTPOnly: true,
		SameSite: j.opts.SameSite,
	})
	j.written[name] = nil
}

// MemoryJar keeps entries in memory and honours expiry. Used by tests and tools.
type MemoryJar struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value   string
	expires time.Time
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{now: time.Now, entries: make(map[string]memoryEntry)}
}

// SetClock replaces the clock used for expiry checks.
func (j *MemoryJar) SetClock(now func() time.Time) {
	j.mu.Lock()
	j.now = now
	j.mu.Unlock()
}

func (j *MemoryJar) Get(name string) string {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[name]
	if !ok {
		return ""
	}
	if !e.expires.IsZero() && !j.now().Before(e.expires) {
		delete(j.entries, name)
		return ""
	}
	return e.value
}

func (j *MemoryJar) Set(name, value string, expires time.Time) {
	j.mu.Lock()
	j.entries[name] = memoryEntry{value: value, expires: expires}
	j.mu.Unlock()
}

func (j *MemoryJar) Delete(name string) {
	j.mu.Lock()
	delete(j.entries, name)
	j.mu.Unlock()
}

// Has reports whether name is present and unexpired.
func (j *MemoryJar) Has(name string) bool {
	return j.Get(name) != ""
}

// Expiry returns the expiry recorded for name.
func (j *MemoryJar) Expiry(name string) time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.entries[name].expires
}
