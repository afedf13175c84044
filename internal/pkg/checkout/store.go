package checkout

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/sochai/sochai-web/internal/pkg/session"
)

const attemptKey = "checkout_attempt"

// AttemptStore keeps the browser's current attempt between Select and Resolve.
type AttemptStore interface {
	Save(a *Attempt) error
	Load() (*Attempt, error)
	Clear() error
}

type sessionAttemptStore struct {
	c *fiber.Ctx
}

// NewSessionAttemptStore stores attempts in the browser's server-side session.
func NewSessionAttemptStore(c *fiber.Ctx) AttemptStore {
	return &sessionAttemptStore{c: c}
}

func (s *sessionAttemptStore) Save(a *Attempt) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return session.SetValue(s.c, attemptKey, string(raw))
}

// Load returns nil without error when no attempt is stored.
func (s *sessionAttemptStore) Load() (*Attempt, error) {
	raw := session.GetValue(s.c, attemptKey)
	if raw == "" {
		return nil, nil
	}
	var a Attempt
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *sessionAttemptStore) Clear() error {
	return session.DeleteValue(s.c, attemptKey)
}
