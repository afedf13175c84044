package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apiclient"
	"github.com/sochai/sochai-web/internal/pkg/authgate"
	"github.com/sochai/sochai-web/internal/pkg/broadcast"
	"github.com/sochai/sochai-web/internal/pkg/checkout"
	"github.com/sochai/sochai-web/internal/pkg/media"
	"github.com/sochai/sochai-web/internal/pkg/middleware"
	"github.com/sochai/sochai-web/internal/pkg/reconcile"
	"github.com/sochai/sochai-web/internal/pkg/session"
	"github.com/sochai/sochai-web/internal/pkg/storage"
)

var testCodec = session.NewCodec([]byte("0123456789abcdef0123456789abcdef"), nil)

// memoryAttempts keeps one attempt for the single browser of a test.
type memoryAttempts struct {
	mu      sync.Mutex
	attempt *checkout.Attempt
}

func (m *memoryAttempts) Save(a *checkout.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.attempt = &cp
	return nil
}

func (m *memoryAttempts) Load() (*checkout.Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempt == nil {
		return nil, nil
	}
	cp := *m.attempt
	return &cp, nil
}

func (m *memoryAttempts) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempt = nil
	return nil
}

type harness struct {
	app      *fiber.App
	backend  *http.ServeMux
	attempts *memoryAttempts
	ledger   *reconcile.MemoryLedger
	objects  *storage.MemoryStore
	clicks   map[string]bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		backend:  http.NewServeMux(),
		attempts: &memoryAttempts{},
		ledger:   reconcile.NewMemoryLedger(),
		objects:  storage.NewMemoryStore("https://cdn.test"),
		clicks:   map[string]bool{},
	}
	srv := httptest.NewServer(h.backend)
	t.Cleanup(srv.Close)

	api := apiclient.NewClient(srv.URL)
	orch := checkout.New(api, scriptOK{}, h.ledger, checkout.Config{KeyID: "rzp_env", MerchantName: "Soch AI"})
	var mu sync.Mutex
	ctrl := New(Deps{
		API:      api,
		Checkout: orch,
		Media:    media.NewStaticUploader(h.objects),
		Ledger:   h.ledger,
		Bus:      broadcast.NewMemoryBus(),
		Attempts: func(*fiber.Ctx) checkout.AttemptStore { return h.attempts },
		FirstClick: func(browserID, listingID string) bool {
			mu.Lock()
			defer mu.Unlock()
			key := browserID + ":" + listingID
			if h.clicks[key] {
				return false
			}
			h.clicks[key] = true
			return true
		},
		ForgetClick: func(browserID, listingID string) {
			mu.Lock()
			defer mu.Unlock()
			delete(h.clicks, browserID+":"+listingID)
		},
	})

	app := fiber.New()
	app.Use(middleware.UserContextMiddleware(middleware.SessionConfig{Codec: testCodec}))
	app.Get("/api/session", ctrl.Auth.HandleSession)
	app.Post("/api/auth/login", ctrl.Auth.HandleLogin)
	app.Post("/api/auth/logout", ctrl.Auth.HandleLogout)
	app.Post("/api/checkout/select", ctrl.Checkout.HandleSelect)
	app.Post("/api/checkout/resolve", ctrl.Checkout.HandleResolve)
	app.Get("/api/models/:id", ctrl.Listing.HandleGet)
	app.Post("/api/models/:id/click", ctrl.Listing.HandleClick)
	app.Post("/api/uploads/logo", authgate.RequireProUser, ctrl.Upload.HandleLogo)
	app.Delete("/api/uploads", authgate.RequireProUser, ctrl.Upload.HandleRemove)
	app.Patch("/api/admin/models/:id/status", middleware.RequireAPIAdmin, ctrl.Admin.HandleModelStatus)
	app.Get("/api/admin/reconciliations", middleware.RequireAPIAdmin, ctrl.Admin.HandleReconciliations)
	app.Post("/api/admin/reconciliations/:id/resolve", middleware.RequireAPIAdmin, ctrl.Admin.HandleResolveReconciliation)
	app.Get("/events/session", ctrl.Events.HandleSessionEvents)
	h.app = app
	return h
}

type scriptOK struct{}

func (scriptOK) Ensure(context.Context) error { return nil }

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// cookieFor returns the Cookie header of a logged-in browser.
func cookieFor(t *testing.T, u *models.User) string {
	t.Helper()
	if u == nil {
		return ""
	}
	encoded, err := testCodec.EncodeUser(u)
	require.NoError(t, err)
	return session.CookieToken + "=tok; " + session.CookieUser + "=" + encoded + "; " + session.BrowserCookie + "=browser-1"
}

func (h *harness) do(t *testing.T, method, path string, body interface{}, user *models.User) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c := cookieFor(t, user); c != "" {
		req.Header.Set("Cookie", c)
	}
	return h.send(t, req)
}

func (h *harness) send(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func cookieValue(resp *http.Response, name string) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

var (
	freeUser  = &models.User{ID: "u1", Email: "asha@example.com", FirstName: "Asha", LastName: "Rao", MobileNumber: "9876543210"}
	proUser   = &models.User{ID: "u2", Email: "pro@example.com", IsProUser: true, SubscriptionType: models.SubscriptionPro}
	adminUser = &models.User{ID: "u3", Email: "admin@example.com", Role: models.ROLE_ADMIN}
)
