// Package session is the single source of truth for who is logged in. State lives
// in two cookies, authToken and userData, that expire after seven days.
package session

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/broadcast"
)

const (
	CookieToken = "authToken"
	CookieUser  = "userData"
	CookieTTL   = 7 * 24 * time.Hour
)

// Session is a snapshot of the authentication state.
type Session struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *models.User `json:"user"`
}

// Store is the narrow interface handlers and the checkout orchestrator depend on.
type Store interface {
	Login(user *models.User, token string) error
	Logout()
	Refresh() Session
	Current() Session
	Token() string
	ReplaceUser(user *models.User) error
}

// Service implements Store over a Jar. One Service serves one request; it is not
// shared between goroutines.
type Service struct {
	jar       Jar
	codec     *Codec
	bus       broadcast.Bus
	browserID string
	now       func() time.Time
	state     Session
}

type Option func(*Service)

// WithBroadcast publishes every change on the browser's session channel.
func WithBroadcast(bus broadcast.Bus, browserID string) Option {
	return func(s *Service) {
		s.bus = bus
		s.browserID = browserID
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds a Service and derives its state from the jar.
func New(jar Jar, codec *Codec, opts ...Option) *Service {
	s := &Service{jar: jar, codec: codec, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.Refresh()
	return s
}

func (s *Service) Login(user *models.User, token string) error {
	encoded, err := s.codec.EncodeUser(user)
	if err != nil {
		return err
	}
	expires := s.now().Add(CookieTTL)
	s.jar.Set(CookieToken, token, expires)
	s.jar.Set(CookieUser, encoded, expires)

	s.state = Session{IsAuthenticated: true, User: user.Clone()}
	s.publish(broadcast.EventLogin)
	return nil
}

func (s *Service) Logout() {
	s.jar.Delete(CookieToken)
	s.jar.Delete(CookieUser)
	s.state = Session{}
	s.publish(broadcast.EventLogout)
}

// Refresh re-reads the jar. Safe to call any number of times.
func (s *Service) Refresh() Session {
	token := s.jar.Get(CookieToken)
	if token == "" || tokenExpired(token, s.now()) {
		s.state = Session{}
		return s.Current()
	}
	raw := s.jar.Get(CookieUser)
	if raw == "" {
		s.state = Session{}
		return s.Current()
	}
	user, err := s.codec.DecodeUser(raw)
	if err != nil {
		log.Warnf("[Session] Discarding undecodable %s cookie: %v", CookieUser, err)
		s.state = Session{}
		return s.Current()
	}
	s.state = Session{IsAuthenticated: true, User: user}
	return s.Current()
}

func (s *Service) Current() Session {
	return Session{IsAuthenticated: s.state.IsAuthenticated, User: s.state.User.Clone()}
}

func (s *Service) Token() string {
	if !s.state.IsAuthenticated {
		return ""
	}
	return s.jar.Get(CookieToken)
}

// ReplaceUser overwrites the stored user record, keeps the token and refreshes.
func (s *Service) ReplaceUser(user *models.User) error {
	encoded, err := s.codec.EncodeUser(user)
	if err != nil {
		return err
	}
	s.jar.Set(CookieUser, encoded, s.now().Add(CookieTTL))
	if token := s.jar.Get(CookieToken); token != "" {
		// the token's cookie is extended together with the user record
		s.jar.Set(CookieToken, token, s.now().Add(CookieTTL))
	}
	s.Refresh()
	s.publish(broadcast.EventUserUpdated)
	return nil
}

func (s *Service) publish(kind broadcast.EventKind) {
	if s.bus == nil || s.browserID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.bus.Publish(ctx, broadcast.SessionChannel(s.browserID), broadcast.NewEvent(kind)); err != nil {
		log.Warnf("[Session] Broadcast %s failed: %v", kind, err)
	}
}
