package mailer

import (
	"context"
	"fmt"
)

// GetLists retrieves all mailing lists in the active workspace. Lists are
// few per workspace, so the endpoint is not paginated.
func (c *Client) GetLists(ctx context.Context) ([]List, error) {
	var response struct {
		Lists []List `json:"lists"`
	}
	if err := c.Get(ctx, "/api/v1/lists", &response); err != nil {
		return nil, err
	}
	return response.Lists, nil
}

// CreateList creates a mailing list.
func (c *Client) CreateList(ctx context.Context, input ListInput) (*List, error) {
	var list List
	if err := c.Post(ctx, "/api/v1/lists", input, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateList updates a mailing list.
func (c *Client) UpdateList(ctx context.Context, id int, input ListInput) (*List, error) {
	var list List
	if err := c.Put(ctx, fmt.Sprintf("/api/v1/lists/%d", id), input, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteList deletes a mailing list. Memberships go with it; the contacts
// themselves are untouched.
func (c *Client) DeleteList(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/api/v1/lists/%d", id))
}

// AddListContacts attaches the given contacts to a list. Contacts already on
// the list are skipped server-side.
func (c *Client) AddListContacts(ctx context.Context, listID int, contactIDs []int) error {
	body := map[string][]int{"contact_ids": contactIDs}
	return c.Post(ctx, fmt.Sprintf("/api/v1/lists/%d/contacts", listID), body, nil)
}
