package mailer

import "context"

// GetUsage retrieves the active workspace's quota report: plan limits,
// consumption this billing period, and what remains.
func (c *Client) GetUsage(ctx context.Context) (*Usage, error) {
	var usage Usage
	if err := c.Get(ctx, "/api/v1/usage", &usage); err != nil {
		return nil, err
	}
	return &usage, nil
}
