package mailer

import (
	"context"
	"fmt"
)

// GetTemplates retrieves all templates visible in the active workspace:
// the workspace's own plus the shared system templates.
func (c *Client) GetTemplates(ctx context.Context) ([]Template, error) {
	var response struct {
		Templates []Template `json:"templates"`
	}
	if err := c.Get(ctx, "/api/v1/templates", &response); err != nil {
		return nil, err
	}
	return response.Templates, nil
}

// GetTemplate retrieves a single template with its full HTML body.
func (c *Client) GetTemplate(ctx context.Context, id int) (*Template, error) {
	var tmpl Template
	if err := c.Get(ctx, fmt.Sprintf("/api/v1/templates/%d", id), &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// CreateTemplate creates a workspace template.
func (c *Client) CreateTemplate(ctx context.Context, input TemplateInput) (*Template, error) {
	var tmpl Template
	if err := c.Post(ctx, "/api/v1/templates", input, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// UpdateTemplate updates a workspace template. System templates are
// read-only; the server rejects updates to them.
func (c *Client) UpdateTemplate(ctx context.Context, id int, input TemplateInput) (*Template, error) {
	var tmpl Template
	if err := c.Put(ctx, fmt.Sprintf("/api/v1/templates/%d", id), input, &tmpl); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// DeleteTemplate deletes a workspace template.
func (c *Client) DeleteTemplate(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/api/v1/templates/%d", id))
}
