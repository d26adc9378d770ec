package leadapi

import (
	"context"
	"fmt"
	"net/http"

	"lead-console/internal/model"
)

// ListTemplates fetches all message templates.
func (c *Client) ListTemplates(ctx context.Context) ([]model.MessageTemplate, error) {
	b, err := c.do(ctx, "list templates", http.MethodGet, "/api/messages", nil, nil)
	if err != nil {
		return nil, err
	}
	ts := []model.MessageTemplate{}
	if err := decode("list templates", b, "data", &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// GetTemplate fetches one template by id.
func (c *Client) GetTemplate(ctx context.Context, id int64) (model.MessageTemplate, error) {
	op := fmt.Sprintf("get template %d", id)
	b, err := c.do(ctx, op, http.MethodGet, fmt.Sprintf("/api/messages/%d", id), nil, nil)
	if err != nil {
		return model.MessageTemplate{}, err
	}
	var t model.MessageTemplate
	if err := decode(op, b, "data", &t); err != nil {
		return model.MessageTemplate{}, err
	}
	return t, nil
}

// FindForAd returns the template bound to adID from ts, or nil.
func FindForAd(ts []model.MessageTemplate, adID int64) *model.MessageTemplate {
	for i := range ts {
		if ts[i].AdID == adID {
			t := ts[i]
			return &t
		}
	}
	return nil
}

// TemplateForAd returns the template of adID, or nil when the ad has none.
func (c *Client) TemplateForAd(ctx context.Context, adID int64) (*model.MessageTemplate, error) {
	ts, err := c.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return FindForAd(ts, adID), nil
}

// CreateTemplate stores a new template for an ad. The server refuses a
// second template for the same ad with 409.
func (c *Client) CreateTemplate(ctx context.Context, t model.MessageTemplate) (model.MessageTemplate, error) {
	t.ID = nil
	b, err := c.do(ctx, "create template", http.MethodPost, "/api/messages", nil, t)
	if err != nil {
		return model.MessageTemplate{}, err
	}
	var out model.MessageTemplate
	if err := decode("create template", b, "data", &out); err != nil {
		return model.MessageTemplate{}, err
	}
	return out, nil
}

// UpdateTemplate replaces the fields of template id.
func (c *Client) UpdateTemplate(ctx context.Context, id int64, t model.MessageTemplate) (model.MessageTemplate, error) {
	op := fmt.Sprintf("update template %d", id)
	t.ID = nil
	b, err := c.do(ctx, op, http.MethodPut, fmt.Sprintf("/api/messages/%d", id), nil, t)
	if err != nil {
		return model.MessageTemplate{}, err
	}
	var out model.MessageTemplate
	if err := decode(op, b, "data", &out); err != nil {
		return model.MessageTemplate{}, err
	}
	return out, nil
}

// DeleteTemplate removes template id.
func (c *Client) DeleteTemplate(ctx context.Context, id int64) error {
	_, err := c.do(ctx, fmt.Sprintf("delete template %d", id), http.MethodDelete, fmt.Sprintf("/api/messages/%d", id), nil, nil)
	return err
}

type previewRequest struct {
	LeadData map[string]string `json:"lead_data,omitempty"`
}

// PreviewTemplate renders a stored template on the server. A nil leadData
// lets the server use its own sample lead.
func (c *Client) PreviewTemplate(ctx context.Context, id int64, leadData map[string]string) (model.TemplatePreview, error) {
	op := fmt.Sprintf("preview template %d", id)
	b, err := c.do(ctx, op, http.MethodPost, fmt.Sprintf("/api/messages/%d/preview", id), nil, previewRequest{LeadData: leadData})
	if err != nil {
		return model.TemplatePreview{}, err
	}
	var out model.TemplatePreview
	if err := decode(op, b, "data", &out); err != nil {
		return model.TemplatePreview{}, err
	}
	return out, nil
}
