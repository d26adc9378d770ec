package leadapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"lead-console/internal/model"
)

// ListLeads fetches one page of leads, newest first. Zero values let the
// server apply its defaults.
func (c *Client) ListLeads(ctx context.Context, page, perPage int) (model.LeadPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	b, err := c.do(ctx, "list leads", http.MethodGet, "/api/leads", q, nil)
	if err != nil {
		return model.LeadPage{}, err
	}
	out := model.LeadPage{Leads: []model.Lead{}}
	if err := decode("list leads", b, "data", &out.Leads); err != nil {
		return model.LeadPage{}, err
	}
	if err := decode("list leads", b, "pagination", &out.Pagination); err != nil {
		return model.LeadPage{}, err
	}
	return out, nil
}

// GetLead fetches one lead by its internal id.
func (c *Client) GetLead(ctx context.Context, id int64) (model.Lead, error) {
	op := fmt.Sprintf("get lead %d", id)
	b, err := c.do(ctx, op, http.MethodGet, fmt.Sprintf("/api/leads/%d", id), nil, nil)
	if err != nil {
		return model.Lead{}, err
	}
	var l model.Lead
	if err := decode(op, b, "data", &l); err != nil {
		return model.Lead{}, err
	}
	return l, nil
}

// LeadStats fetches aggregate delivery counters.
func (c *Client) LeadStats(ctx context.Context) (model.LeadStats, error) {
	b, err := c.do(ctx, "lead stats", http.MethodGet, "/api/leads/stats", nil, nil)
	if err != nil {
		return model.LeadStats{}, err
	}
	var s model.LeadStats
	if err := decode("lead stats", b, "data", &s); err != nil {
		return model.LeadStats{}, err
	}
	return s, nil
}
