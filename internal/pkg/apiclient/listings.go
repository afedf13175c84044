package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sochai/sochai-web/app/models"
)

type ListingPage struct {
	Models []models.Listing `json:"models"`
	Total  int              `json:"total"`
	Page   int              `json:"page"`
}

type listingPageResponse struct {
	Data ListingPage `json:"data"`
}

type listingResponse struct {
	Data struct {
		Model models.Listing `json:"model"`
	} `json:"data"`
}

func (c *Client) ListModels(ctx context.Context, filter models.ListingFilter) (*ListingPage, error) {
	q := url.Values{}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/api/models"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out listingPageResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) GetModel(ctx context.Context, id string) (*models.Listing, error) {
	var out listingResponse
	if err := c.do(ctx, http.MethodGet, "/api/models/"+url.PathEscape(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data.Model, nil
}

// SubmitModel sends a new listing for moderation on behalf of the token owner.
func (c *Client) SubmitModel(ctx context.Context, token string, listing models.Listing) (*models.Listing, error) {
	var out listingResponse
	if err := c.do(ctx, http.MethodPost, "/api/models", token, listing, &out); err != nil {
		return nil, err
	}
	return &out.Data.Model, nil
}

func (c *Client) RecordClick(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/api/models/"+url.PathEscape(id)+"/click", "", nil, nil)
}
