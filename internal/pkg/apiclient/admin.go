package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sochai/sochai-web/app/models"
)

type adminListingsResponse struct {
	Data struct {
		Models []models.Listing `json:"models"`
	} `json:"data"`
}

type usersResponse struct {
	Data struct {
		Users []models.User `json:"users"`
	} `json:"data"`
}

type userResponse struct {
	Data struct {
		User models.User `json:"user"`
	} `json:"data"`
}

type SubscriptionUpdate struct {
	SubscriptionType string `json:"subscriptionType"`
	IsProUser        bool   `json:"isProUser"`
}

// ListModelsAdmin lists submissions; an empty status lists all of them.
func (c *Client) ListModelsAdmin(ctx context.Context, token, status string) ([]models.Listing, error) {
	path := "/api/admin/models"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out adminListingsResponse
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Data.Models, nil
}

func (c *Client) UpdateModelStatus(ctx context.Context, token, id, status, rejectionReason string) (*models.Listing, error) {
	body := map[string]string{"status": status}
	if rejectionReason != "" {
		body["rejectionReason"] = rejectionReason
	}
	var out listingResponse
	if err := c.do(ctx, http.MethodPatch, "/api/admin/models/"+url.PathEscape(id)+"/status", token, body, &out); err != nil {
		return nil, err
	}
	return &out.Data.Model, nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var out usersResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Data.Users, nil
}

func (c *Client) UpdateUserSubscription(ctx context.Context, token, id string, update SubscriptionUpdate) (*models.User, error) {
	var out userResponse
	if err := c.do(ctx, http.MethodPatch, "/api/admin/users/"+url.PathEscape(id)+"/subscription", token, update, &out); err != nil {
		return nil, err
	}
	return &out.Data.User, nil
}
