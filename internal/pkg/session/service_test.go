package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/broadcast"
)

func testCodec() *Codec {
	return NewCodec([]byte("0123456789abcdef0123456789abcdef"), []byte("abcdef0123456789"))
}

func testUser() *models.User {
	return &models.User{ID: "u1", Email: "a@x.io", Name: "Asha", IsProUser: false}
}

func TestLoginPersistsForSevenDays(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	jar := NewMemoryJar()
	jar.SetClock(func() time.Time { return now })

	s := New(jar, testCodec(), WithClock(func() time.Time { return now }))
	require.NoError(t, s.Login(testUser(), "tok123"))

	cur := s.Current()
	assert.True(t, cur.IsAuthenticated)
	assert.Equal(t, "a@x.io", cur.User.Email)
	assert.Equal(t, "tok123", s.Token())
	assert.Equal(t, "tok123", jar.Get(CookieToken))
	assert.Equal(t, now.Add(CookieTTL), jar.Expiry(CookieToken))
	assert.Equal(t, now.Add(CookieTTL), jar.Expiry(CookieUser))
}

func TestSessionVisibleToOtherService(t *testing.T) {
	jar := NewMemoryJar()
	codec := testCodec()
	require.NoError(t, New(jar, codec).Login(testUser(), "tok123"))

	other := New(jar, codec)
	assert.True(t, other.Current().IsAuthenticated)
	assert.Equal(t, "u1", other.Current().User.ID)
}

func TestLogoutClearsBothEntries(t *testing.T) {
	jar := NewMemoryJar()
	s := New(jar, testCodec())
	require.NoError(t, s.Login(testUser(), "tok123"))

	s.Logout()

	assert.False(t, s.Current().IsAuthenticated)
	assert.Nil(t, s.Current().User)
	assert.Empty(t, s.Token())
	assert.False(t, jar.Has(CookieToken))
	assert.False(t, jar.Has(CookieUser))
}

func TestExpiredEntriesAreUnauthenticated(t *testing.T) {
	now := time.Now()
	jar := NewMemoryJar()
	jar.SetClock(func() time.Time { return now })
	codec := testCodec()
	require.NoError(t, New(jar, codec, WithClock(func() time.Time { return now })).Login(testUser(), "tok123"))

	later := now.Add(CookieTTL + time.Minute)
	jar.SetClock(func() time.Time { return later })

	s := New(jar, codec, WithClock(func() time.Time { return later }))
	assert.False(t, s.Current().IsAuthenticated)
}

func TestExpiredJWTIsUnauthenticated(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	jar := NewMemoryJar()
	s := New(jar, testCodec())
	require.NoError(t, s.Login(testUser(), token))

	assert.False(t, s.Refresh().IsAuthenticated)
}

func TestValidJWTIsAuthenticated(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	s := New(NewMemoryJar(), testCodec())
	require.NoError(t, s.Login(testUser(), token))

	assert.True(t, s.Refresh().IsAuthenticated)
}

func TestMissingOrTamperedUserIsUnauthenticated(t *testing.T) {
	jar := NewMemoryJar()
	jar.Set(CookieToken, "tok123", time.Now().Add(time.Hour))
	assert.False(t, New(jar, testCodec()).Current().IsAuthenticated)

	jar.Set(CookieUser, "not-a-signed-value", time.Now().Add(time.Hour))
	assert.False(t, New(jar, testCodec()).Current().IsAuthenticated)

	// signed with another key
	other, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"), nil).EncodeUser(testUser())
	require.NoError(t, err)
	jar.Set(CookieUser, other, time.Now().Add(time.Hour))
	assert.False(t, New(jar, testCodec()).Current().IsAuthenticated)
}

func TestMissingTokenIsUnauthenticated(t *testing.T) {
	jar := NewMemoryJar()
	codec := testCodec()
	require.NoError(t, New(jar, codec).Login(testUser(), "tok123"))
	jar.Delete(CookieToken)

	assert.False(t, New(jar, codec).Current().IsAuthenticated)
}

func TestRefreshIsIdempotent(t *testing.T) {
	s := New(NewMemoryJar(), testCodec())
	require.NoError(t, s.Login(testUser(), "tok123"))

	first := s.Refresh()
	second := s.Refresh()
	assert.Equal(t, first, second)
}

func TestReplaceUserKeepsToken(t *testing.T) {
	jar := NewMemoryJar()
	s := New(jar, testCodec())
	require.NoError(t, s.Login(testUser(), "tok123"))

	upgraded := testUser()
	upgraded.IsProUser = true
	upgraded.SubscriptionType = models.SubscriptionPro
	require.NoError(t, s.ReplaceUser(upgraded))

	assert.True(t, s.Current().User.IsProUser)
	assert.Equal(t, "tok123", s.Token())
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := New(NewMemoryJar(), testCodec())
	require.NoError(t, s.Login(testUser(), "tok123"))

	s.Current().User.IsProUser = true
	assert.False(t, s.Current().User.IsProUser)
}

func TestChangesAreBroadcast(t *testing.T) {
	bus := broadcast.NewMemoryBus()
	events, cancel, err := bus.Subscribe(context.Background(), broadcast.SessionChannel("b1"))
	require.NoError(t, err)
	defer cancel()

	s := New(NewMemoryJar(), testCodec(), WithBroadcast(bus, "b1"))
	require.NoError(t, s.Login(testUser(), "tok123"))
	s.Logout()

	for _, want := range []broadcast.EventKind{broadcast.EventLogin, broadcast.EventLogout} {
		select {
		case ev := <-events:
			assert.Equal(t, want, ev.Kind)
		case <-time.After(time.Second):
			t.Fatalf("no %s event received", want)
		}
	}
}
