package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("create order: %w", Wrap(KindNetwork, "Payment service not found", errors.New("status 404")))

	assert.True(t, errors.Is(err, Network))
	assert.False(t, errors.Is(err, Protocol))
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.Equal(t, "Payment service not found", Message(err))
}

func TestMessageFallsBackForForeignErrors(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: New(KindValidation, "bad"), want: http.StatusBadRequest},
		{err: New(KindInvalidFile, "bad"), want: http.StatusBadRequest},
		{err: New(KindBusiness, "no"), want: http.StatusUnprocessableEntity},
		{err: New(KindProtocol, "html"), want: http.StatusBadGateway},
		{err: New(KindConfiguration, "off"), want: http.StatusServiceUnavailable},
		{err: New(KindPartialFailure, "pending"), want: http.StatusAccepted},
		{err: errors.New("other"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "%v", tt.err)
	}
}
