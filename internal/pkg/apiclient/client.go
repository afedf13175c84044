package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sochai/sochai-web/internal/pkg/apperr"
	"github.com/sochai/sochai-web/internal/pkg/env"
)

const defaultAPIBaseURL = "http://localhost:5000"

// Client talks to the directory backend. Every response is a JSON envelope with a
// boolean success flag; anything else is a hard failure and is never partially parsed.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// envelope is the part of every backend response the client checks before decoding the rest.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func NewClientFromEnv() *Client {
	base := strings.TrimSpace(env.GetEnv("API_BASE_URL", ""))
	if base == "" {
		base = defaultAPIBaseURL
	}
	return NewClient(base)
}

// do sends body as JSON and decodes a successful envelope into out (which may be nil).
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return apperr.Wrap(apperr.KindValidation, "Request could not be encoded", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindNetwork, "Request could not be created", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Warnf("[APIClient] %s %s unreachable: %v", method, path, err)
		return apperr.Wrap(apperr.KindNetwork, "Server is unreachable. Please try again later.", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warnf("[APIClient] %s %s failed: status=%d", method, path, resp.StatusCode)
		return &apperr.Error{
			Kind:    apperr.KindNetwork,
			Message: fmt.Sprintf("Request failed with status %d", resp.StatusCode),
			Status:  resp.StatusCode,
		}
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return &apperr.Error{
			Kind:    apperr.KindProtocol,
			Message: "Server returned an unexpected response",
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("content-type %q", resp.Header.Get("Content-Type")),
		}
	}

	var head envelope
	if err := json.Unmarshal(raw, &head); err != nil {
		return &apperr.Error{Kind: apperr.KindProtocol, Message: "Server returned malformed JSON", Status: resp.StatusCode, Err: err}
	}
	if !head.Success {
		msg := strings.TrimSpace(head.Message)
		if msg == "" {
			msg = "Request was not successful"
		}
		return &apperr.Error{Kind: apperr.KindBusiness, Message: msg, Status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperr.Error{Kind: apperr.KindProtocol, Message: "Server returned malformed JSON", Status: resp.StatusCode, Err: err}
	}
	return nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var e *apperr.Error
	return errors.As(err, &e) && e.Kind == apperr.KindNetwork && e.Status == http.StatusNotFound
}
