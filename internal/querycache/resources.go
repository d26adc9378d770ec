package querycache

import (
	"context"
	"fmt"

	"lead-console/internal/leadapi"
	"lead-console/internal/model"
)

const (
	resourceAds      = "ads"
	resourceMessages = "messages"
	resourceLeads    = "leads"
)

func (c *Client) ListAds(ctx context.Context, filter model.AdFilter) ([]model.Ad, error) {
	if filter == "" {
		filter = model.AdFilterAll
	}
	return query(ctx, c, fmt.Sprintf("%s:list:%s", resourceAds, filter), func(ctx context.Context) ([]model.Ad, error) {
		return c.api.ListAds(ctx, filter)
	})
}

func (c *Client) GetAd(ctx context.Context, id int64) (model.Ad, error) {
	return query(ctx, c, fmt.Sprintf("%s:get:%d", resourceAds, id), func(ctx context.Context) (model.Ad, error) {
		return c.api.GetAd(ctx, id)
	})
}

// SyncAds triggers a server-side refresh and drops cached ads on success.
func (c *Client) SyncAds(ctx context.Context) (model.SyncResult, error) {
	res, err := c.api.SyncAds(ctx)
	if err != nil {
		return res, err
	}
	c.Invalidate(ctx, resourceAds)
	return res, nil
}

func (c *Client) DeleteAd(ctx context.Context, id int64) error {
	if err := c.api.DeleteAd(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, resourceAds, resourceMessages)
	return nil
}

func (c *Client) ListTemplates(ctx context.Context) ([]model.MessageTemplate, error) {
	return query(ctx, c, resourceMessages+":list", c.api.ListTemplates)
}

func (c *Client) GetTemplate(ctx context.Context, id int64) (model.MessageTemplate, error) {
	return query(ctx, c, fmt.Sprintf("%s:get:%d", resourceMessages, id), func(ctx context.Context) (model.MessageTemplate, error) {
		return c.api.GetTemplate(ctx, id)
	})
}

// TemplateForAd returns the template of adID from the cached template list,
// or nil when the ad has none.
func (c *Client) TemplateForAd(ctx context.Context, adID int64) (*model.MessageTemplate, error) {
	ts, err := c.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return leadapi.FindForAd(ts, adID), nil
}

// CreateTemplate also invalidates ads, whose has_template flag changes.
func (c *Client) CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	out, err := c.api.CreateTemplate(ctx, t)
	if err != nil {
		return out, err
	}
	c.Invalidate(ctx, resourceMessages, resourceAds)
	return out, nil
}

func (c *Client) UpdateTemplate(ctx context.Context, id int64, t model.MessageTemplate) (model.MessageTemplate, error) {
	out, err := c.api.UpdateTemplate(ctx, id, t)
	if err != nil {
		return out, err
	}
	c.Invalidate(ctx, resourceMessages, resourceAds)
	return out, nil
}

func (c *Client) DeleteTemplate(ctx context.Context, id int64) error {
	if err := c.api.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, resourceMessages, resourceAds)
	return nil
}

// PreviewTemplate is never cached: lead data varies per call.
func (c *Client) PreviewTemplate(ctx context.Context, id int64, leadData map[string]string) (model.TemplatePreview, error) {
	return c.api.PreviewTemplate(ctx, id, leadData)
}

func (c *Client) ListLeads(ctx context.Context, page, perPage int) (model.LeadPage, error) {
	return query(ctx, c, fmt.Sprintf("%s:list:%d:%d", resourceLeads, page, perPage), func(ctx context.Context) (model.LeadPage, error) {
		return c.api.ListLeads(ctx, page, perPage)
	})
}

func (c *Client) GetLead(ctx context.Context, id int64) (model.Lead, error) {
	return query(ctx, c, fmt.Sprintf("%s:get:%d", resourceLeads, id), func(ctx context.Context) (model.Lead, error) {
		return c.api.GetLead(ctx, id)
	})
}

func (c *Client) LeadStats(ctx context.Context) (model.LeadStats, error) {
	return query(ctx, c, resourceLeads+":stats", c.api.LeadStats)
}
