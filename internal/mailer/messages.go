package mailer

import (
	"context"
	"net/url"
	"strconv"
)

// MessageQuery filters the delivery monitoring feed. Zero values are omitted.
type MessageQuery struct {
	Page    int
	PerPage int
	Status  string
	Search  string
}

func (q MessageQuery) encode() string {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// GetMessages retrieves one page of delivery messages, newest first.
func (c *Client) GetMessages(ctx context.Context, query MessageQuery) (*Page[Message], error) {
	var page Page[Message]
	if err := c.Get(ctx, "/api/v1/messages"+query.encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
