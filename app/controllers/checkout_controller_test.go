package controllers

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/checkout"
	"github.com/sochai/sochai-web/internal/pkg/session"
)

func withOrder(h *harness, orders *atomic.Int32) {
	h.backend.HandleFunc("/api/payments/create-order", func(w http.ResponseWriter, r *http.Request) {
		orders.Add(1)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"order":   map[string]interface{}{"id": "order_1", "amount": 14900, "currency": "INR"},
		})
	})
}

func payment() map[string]interface{} {
	return map[string]interface{}{
		"razorpay_payment_id": "pay_1",
		"razorpay_order_id":   "order_1",
		"razorpay_signature":  "sig",
	}
}

func TestCheckoutSelectEnterpriseRedirects(t *testing.T) {
	h := newHarness(t)
	var orders atomic.Int32
	withOrder(h, &orders)

	resp, body := h.do(t, "POST", "/api/checkout/select", map[string]string{"planId": "enterprise"}, freeUser)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, checkout.ContactPath, body["data"].(map[string]interface{})["redirect"])
	assert.Equal(t, int32(0), orders.Load())

	a, err := h.attempts.Load()
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestCheckoutSelectAndResolve(t *testing.T) {
	h := newHarness(t)
	var orders atomic.Int32
	withOrder(h, &orders)
	h.backend.HandleFunc("/api/payments/complete-subscription", func(w http.ResponseWriter, r *http.Request) {
		var req models.CompleteSubscriptionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pro", req.PlanID)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		upgraded := *freeUser
		upgraded.IsProUser = true
		upgraded.SubscriptionType = models.SubscriptionPro
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"user": upgraded}})
	})

	resp, body := h.do(t, "POST", "/api/checkout/select", map[string]string{"planId": "six_months"}, freeUser)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	widget := body["data"].(map[string]interface{})["widget"].(map[string]interface{})
	assert.Equal(t, "rzp_env", widget["key"])
	assert.Equal(t, "order_1", widget["order_id"])
	assert.Equal(t, "asha@example.com", widget["prefill"].(map[string]interface{})["email"])

	stored, err := h.attempts.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, checkout.StateAwaitingPayment, stored.State)

	resp, body = h.do(t, "POST", "/api/checkout/resolve", payment(), freeUser)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, string(checkout.StateCompleted), data["attempt"].(map[string]interface{})["state"])
	assert.Equal(t, true, data["session"].(map[string]interface{})["user"].(map[string]interface{})["isProUser"])

	encoded, ok := cookieValue(resp, session.CookieUser)
	require.True(t, ok)
	u, err := testCodec.DecodeUser(encoded)
	require.NoError(t, err)
	assert.True(t, u.IsProUser)

	stored, err = h.attempts.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCheckoutResolvePartialFailure(t *testing.T) {
	h := newHarness(t)
	var orders atomic.Int32
	withOrder(h, &orders)
	h.backend.HandleFunc("/api/payments/complete-subscription", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	resp, _ := h.do(t, "POST", "/api/checkout/select", map[string]string{"planId": "monthly"}, freeUser)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := h.do(t, "POST", "/api/checkout/resolve", payment(), freeUser)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "partial_failure", body["error"])
	_, ok := cookieValue(resp, session.CookieUser)
	assert.False(t, ok, "user cookie must not change")

	rows, err := h.ledger.ListPending(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "pay_1", rows[0].PaymentID)
	assert.Equal(t, "u1", rows[0].UserID)
}

func TestCheckoutResolveDismissed(t *testing.T) {
	h := newHarness(t)
	var orders atomic.Int32
	withOrder(h, &orders)

	h.do(t, "POST", "/api/checkout/select", map[string]string{"planId": "monthly"}, freeUser)
	resp, body := h.do(t, "POST", "/api/checkout/resolve", map[string]interface{}{"dismissed": true}, freeUser)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(checkout.StateIdle), body["data"].(map[string]interface{})["attempt"].(map[string]interface{})["state"])

	resp, _ = h.do(t, "POST", "/api/checkout/resolve", map[string]interface{}{"dismissed": true}, freeUser)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutResolveAfterAttemptExpiredIsRecorded(t *testing.T) {
	h := newHarness(t)
	var completes atomic.Int32
	h.backend.HandleFunc("/api/payments/complete-subscription", func(w http.ResponseWriter, r *http.Request) {
		completes.Add(1)
	})

	resp, body := h.do(t, "POST", "/api/checkout/resolve", payment(), freeUser)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "partial_failure", body["error"])
	notices := body["notices"].([]interface{})
	require.Len(t, notices, 1)
	assert.Equal(t, "warning", notices[0].(map[string]interface{})["type"])
	assert.Equal(t, int32(0), completes.Load())

	rows, err := h.ledger.ListPending(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "order_1", rows[0].OrderID)
	assert.Equal(t, "u1", rows[0].UserID)
}

func TestCheckoutResolveSupersededOrderKeepsNewAttempt(t *testing.T) {
	h := newHarness(t)
	var orders atomic.Int32
	withOrder(h, &orders)

	h.do(t, "POST", "/api/checkout/select", map[string]string{"planId": "monthly"}, freeUser)
	stored, err := h.attempts.Load()
	require.NoError(t, err)
	stored.OrderID = "order_2"
	require.NoError(t, h.attempts.Save(stored))

	resp, _ := h.do(t, "POST", "/api/checkout/resolve", payment(), freeUser)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	rows, err := h.ledger.ListPending(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "order_1", rows[0].OrderID)

	kept, err := h.attempts.Load()
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.Equal(t, "order_2", kept.OrderID)
	assert.Equal(t, checkout.StateAwaitingPayment, kept.State)
}

func TestCheckoutSelectUnknownPlan(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, "POST", "/api/checkout/select", map[string]string{"planId": "lifetime"}, freeUser)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Unknown plan", body["message"])
}
