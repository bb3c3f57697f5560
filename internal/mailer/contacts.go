package mailer

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// ContactQuery filters the contact list. Zero values are omitted.
type ContactQuery struct {
	Page    int
	PerPage int
	Search  string
}

func (q ContactQuery) encode() string {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// GetContacts retrieves one page of contacts.
func (c *Client) GetContacts(ctx context.Context, query ContactQuery) (*Page[Contact], error) {
	var page Page[Contact]
	if err := c.Get(ctx, "/api/v1/contacts"+query.encode(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateContact creates a contact.
func (c *Client) CreateContact(ctx context.Context, input ContactInput) (*Contact, error) {
	var contact Contact
	if err := c.Post(ctx, "/api/v1/contacts", input, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// UpdateContact updates an existing contact.
func (c *Client) UpdateContact(ctx context.Context, id int, input ContactInput) (*Contact, error) {
	var contact Contact
	if err := c.Put(ctx, fmt.Sprintf("/api/v1/contacts/%d", id), input, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact deletes a contact.
func (c *Client) DeleteContact(ctx context.Context, id int) error {
	return c.Delete(ctx, fmt.Sprintf("/api/v1/contacts/%d", id))
}

// ImportContacts uploads a CSV of contacts. The expected columns are
// email,first_name,last_name,phone with a header row.
func (c *Client) ImportContacts(ctx context.Context, filename string, csv io.Reader) (*ImportResult, error) {
	var result ImportResult
	if err := c.Upload(ctx, "/api/v1/contacts/import-csv", "file", filename, csv, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
