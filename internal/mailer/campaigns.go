package mailer

import (
	"context"
	"fmt"
	"net/url"
)

// GetCampaigns retrieves campaigns, optionally filtered by lifecycle status
// (draft, scheduled, sending, sent, failed). An empty status returns all.
func (c *Client) GetCampaigns(ctx context.Context, status string) ([]Campaign, error) {
	endpoint := "/api/v1/campaigns"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}
	var page Page[Campaign]
	if err := c.Get(ctx, endpoint, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetCampaign retrieves the full campaign record, including audience lists.
func (c *Client) GetCampaign(ctx context.Context, id int) (*CampaignDetail, error) {
	var detail CampaignDetail
	if err := c.Get(ctx, fmt.Sprintf("/api/v1/campaigns/%d", id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateCampaign creates a draft campaign.
func (c *Client) CreateCampaign(ctx context.Context, input CampaignInput) (*CampaignDetail, error) {
	var detail CampaignDetail
	if err := c.Post(ctx, "/api/v1/campaigns", input, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// UpdateCampaign updates a campaign. Only drafts are editable.
func (c *Client) UpdateCampaign(ctx context.Context, id int, input CampaignInput) (*CampaignDetail, error) {
	var detail CampaignDetail
	if err := c.Put(ctx, fmt.Sprintf("/api/v1/campaigns/%d", id), input, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteCampaign deletes a campaign.
func (c *Client) DeleteCampaign(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/api/v1/campaigns/%d", id))
}

// SetCampaignAudience replaces the campaign's audience with the given lists.
func (c *Client) SetCampaignAudience(ctx context.Context, id int, listIDs []int) error {
	body := map[string][]int{"list_ids": listIDs}
	return c.Post(ctx, fmt.Sprintf("/api/v1/campaigns/%d/audience", id), body, nil)
}

// PreviewCampaign renders the campaign body against one contact's fields and
// returns the personalized HTML.
func (c *Client) PreviewCampaign(ctx context.Context, id, contactID int) (string, error) {
	body := map[string]int{"contact_id": contactID}
	var response struct {
		HTML string `json:"html"`
	}
	if err := c.Post(ctx, fmt.Sprintf("/api/v1/campaigns/%d/preview", id), body, &response); err != nil {
		return "", err
	}
	return response.HTML, nil
}

// ScheduleCampaign queues the campaign to send at the given RFC 3339 time.
func (c *Client) ScheduleCampaign(ctx context.Context, id int, scheduledAt string) error {
	body := map[string]string{"scheduled_at": scheduledAt}
	return c.Post(ctx, fmt.Sprintf("/api/v1/campaigns/%d/schedule", id), body, nil)
}

// SendCampaignNow sends the campaign to its audience immediately.
func (c *Client) SendCampaignNow(ctx context.Context, id int) error {
	return c.Post(ctx, fmt.Sprintf("/api/v1/campaigns/%d/send-now", id), nil, nil)
}

// GetCampaignStats retrieves the campaign's delivery rollup.
func (c *Client) GetCampaignStats(ctx context.Context, id int) (*CampaignStats, error) {
	var stats CampaignStats
	if err := c.Get(ctx, fmt.Sprintf("/api/v1/campaigns/%d/stats", id), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
