package leadapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"lead-console/internal/model"
)

// ListAds fetches ads, optionally narrowed by activity.
// API: GET /api/ads?is_active={true|false}
func (c *Client) ListAds(ctx context.Context, filter model.AdFilter) ([]model.Ad, error) {
	q := url.Values{}
	if v := filter.IsActiveParam(); v != "" {
		q.Set("is_active", v)
	}
	b, err := c.do(ctx, "list ads", http.MethodGet, "/api/ads", q, nil)
	if err != nil {
		return nil, err
	}
	ads := []model.Ad{}
	if err := decode("list ads", b, "data", &ads); err != nil {
		return nil, err
	}
	return ads, nil
}

// GetAd fetches a single ad by its internal id.
func (c *Client) GetAd(ctx context.Context, id int64) (model.Ad, error) {
	op := fmt.Sprintf("get ad %d", id)
	b, err := c.do(ctx, op, http.MethodGet, fmt.Sprintf("/api/ads/%d", id), nil, nil)
	if err != nil {
		return model.Ad{}, err
	}
	var ad model.Ad
	if err := decode(op, b, "data", &ad); err != nil {
		return model.Ad{}, err
	}
	return ad, nil
}

// SyncAds asks the server to refresh ads from Facebook.
func (c *Client) SyncAds(ctx context.Context) (model.SyncResult, error) {
	b, err := c.do(ctx, "sync ads", http.MethodPost, "/api/ads/sync", nil, nil)
	if err != nil {
		return model.SyncResult{}, err
	}
	var res model.SyncResult
	if err := decode("sync ads", b, "message", &res.Message); err != nil {
		return model.SyncResult{}, err
	}
	if err := decode("sync ads", b, "stats", &res.Stats); err != nil {
		return model.SyncResult{}, err
	}
	return res, nil
}

// DeleteAd removes an ad from the server's database.
func (c *Client) DeleteAd(ctx context.Context, id int64) error {
	_, err := c.do(ctx, fmt.Sprintf("delete ad %d", id), http.MethodDelete, fmt.Sprintf("/api/ads/%d", id), nil, nil)
	return err
}
