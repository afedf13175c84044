package checkout

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ScriptLoader makes sure the gateway's widget script is available before a
// widget is opened.
type ScriptLoader interface {
	Ensure(ctx context.Context) error
}

// HTTPScriptLoader checks once per process that the script URL serves. Success
// is remembered, failures are retried on the next call.
type HTTPScriptLoader struct {
	URL    string
	Client *http.Client

	mu     sync.Mutex
	loaded bool
}

func NewHTTPScriptLoader(url string) *HTTPScriptLoader {
	return &HTTPScriptLoader{URL: url, Client: &http.Client{Timeout: 10 * time.Second}}
}

func (l *HTTPScriptLoader) Ensure(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("script %s returned status %d", l.URL, resp.StatusCode)
	}

	l.loaded = true
	log.Infof("[Checkout] Payment script available at %s", l.URL)
	return nil
}

// Loaded reports whether a previous Ensure succeeded.
func (l *HTTPScriptLoader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded
}
