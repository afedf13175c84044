package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateOrder_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payments/create-order", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pro", body["planId"])
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"order":   map[string]interface{}{"id": "order_1", "amount": 14900, "currency": "INR"},
			"key_id":  "rzp_test",
		})
	})

	out, err := c.CreateOrder(context.Background(), "pro")
	require.NoError(t, err)
	assert.Equal(t, "order_1", out.Order.ID)
	assert.Equal(t, int64(14900), out.Order.Amount)
	assert.Equal(t, "INR", out.Order.Currency)
	assert.Equal(t, "rzp_test", out.KeyID)
}

func TestDo_NonSuccessStatusIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": true})
	})

	_, err := c.CreateOrder(context.Background(), "pro")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.Network))
	assert.True(t, IsNotFound(err))
}

func TestDo_ServerErrorIsNotNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.CreateOrder(context.Background(), "pro")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.Network))
	assert.False(t, IsNotFound(err))
}

func TestDo_NonJSONIsProtocolError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>oops</html>"))
	})

	_, err := c.CreateOrder(context.Background(), "pro")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.Protocol))
}

func TestDo_MalformedJSONIsProtocolError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": tru`))
	})

	err := c.RecordClick(context.Background(), "m1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.Protocol))
}

func TestDo_SuccessFalseIsBusinessError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false, "message": "Invalid credentials"})
	})

	_, err := c.Login(context.Background(), models.LoginForm{Email: "a@b.co", Password: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.Business))
	assert.Equal(t, "Invalid credentials", apperr.Message(err))
}

func TestDo_UnreachableIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).ListUsers(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.Network))
}

func TestCompleteSubscription_SendsBearerAndPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		var body models.CompleteSubscriptionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, models.CompleteSubscriptionRequest{PlanID: "pro", PaymentID: "pay_1", OrderID: "order_1", Signature: "sig_1"}, body)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"user": map[string]interface{}{"id": "u1", "email": "a@b.co", "isProUser": true, "subscriptionType": "pro"}},
		})
	})

	u, err := c.CompleteSubscription(context.Background(), "tok-1", models.CompleteSubscriptionRequest{
		PlanID: "pro", PaymentID: "pay_1", OrderID: "order_1", Signature: "sig_1",
	})
	require.NoError(t, err)
	assert.True(t, u.IsProUser)
	assert.Equal(t, "pro", u.SubscriptionType)
}

func TestLogin_MissingTokenIsProtocolError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"user": map[string]interface{}{"id": "u1"}}})
	})

	_, err := c.Login(context.Background(), models.LoginForm{Email: "a@b.co", Password: "x"})
	assert.True(t, errors.Is(err, apperr.Protocol))
}

func TestListModels_EncodesFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chat", r.URL.Query().Get("search"))
		assert.Equal(t, "code", r.URL.Query().Get("category"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"models": []map[string]interface{}{{"_id": "m1", "name": "Coder"}}, "total": 1, "page": 2},
		})
	})

	page, err := c.ListModels(context.Background(), models.ListingFilter{Search: "chat", Category: "code", Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Models, 1)
	assert.Equal(t, "m1", page.Models[0].ID)
}

func TestUpdateModelStatus_OmitsEmptyReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/admin/models/m1/status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasReason := body["rejectionReason"]
		assert.False(t, hasReason)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"model": map[string]interface{}{"_id": "m1", "status": "approved"}}})
	})

	m, err := c.UpdateModelStatus(context.Background(), "tok", "m1", models.LISTING_APPROVED, "")
	require.NoError(t, err)
	assert.Equal(t, models.LISTING_APPROVED, m.Status)
}
