package apiclient

import (
	"context"
	"net/http"

	"github.com/sochai/sochai-web/app/models"
	"github.com/sochai/sochai-web/internal/pkg/apperr"
)

type CreateOrderResponse struct {
	Order models.Order `json:"order"`
	KeyID string       `json:"key_id"`
}

type completeSubscriptionResponse struct {
	Data struct {
		User *models.User `json:"user"`
	} `json:"data"`
}

// CreateOrder asks the backend for a payment order for the given billing plan.
func (c *Client) CreateOrder(ctx context.Context, apiPlanID string) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	body := map[string]string{"planId": apiPlanID}
	if err := c.do(ctx, http.MethodPost, "/api/payments/create-order", "", body, &out); err != nil {
		return nil, err
	}
	if out.Order.ID == "" {
		return nil, protocolError("order response carried no order id")
	}
	return &out, nil
}

// CompleteSubscription forwards the signed payment result and returns the updated user.
func (c *Client) CompleteSubscription(ctx context.Context, token string, req models.CompleteSubscriptionRequest) (*models.User, error) {
	var out completeSubscriptionResponse
	if err := c.do(ctx, http.MethodPost, "/api/payments/complete-subscription", token, req, &out); err != nil {
		return nil, err
	}
	if out.Data.User == nil {
		return nil, protocolError("confirmation response carried no user")
	}
	return out.Data.User, nil
}

func protocolError(msg string) error {
	return apperr.New(apperr.KindProtocol, msg)
}
