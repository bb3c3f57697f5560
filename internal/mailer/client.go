// Package mailer is the client for the mailer platform's REST API: auth,
// contacts, lists, templates, campaigns, delivery messages, and usage quotas.
// Every request reads the bearer token and active workspace from the session
// store at send time; an authorization failure on any path except login
// clears the session and fires the configured expiry callback.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ignite/mailerctl/internal/pkg/logger"
	"github.com/ignite/mailerctl/internal/session"
)

// DefaultBaseURL is the local development endpoint used when no override is
// configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// LoginPath is exempt from the session-expiry policy: a 401 here means bad
// credentials and must surface to the caller, not end the session.
const LoginPath = "/api/v1/auth/login"

// HTTPDoer is the interface for executing HTTP requests.
// *http.Client satisfies it; tests substitute their own.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ExpiryPolicy controls what a non-login 401 does to the session.
type ExpiryPolicy int

const (
	// ClearSessionOnAuthFailure drops the cached credentials and fires the
	// expiry callback. This is the production console's behavior.
	ClearSessionOnAuthFailure ExpiryPolicy = iota
	// KeepSessionOnAuthFailure surfaces the 401 without touching the
	// session. Useful when a 401 may be workspace scoping rather than an
	// expired token.
	KeepSessionOnAuthFailure
)

// Options configures a Client. The zero value is usable: default base URL,
// 30s timeout, clear-on-401 policy, no expiry callback.
type Options struct {
	BaseURL          string
	Timeout          time.Duration
	HTTPClient       HTTPDoer
	ExpiryPolicy     ExpiryPolicy
	OnSessionExpired func()
}

// Client is the mailer API client. It holds no request state of its own;
// credentials live in the injected session store.
type Client struct {
	baseURL          string
	httpClient       HTTPDoer
	sess             *session.Store
	policy           ExpiryPolicy
	onSessionExpired func()
}

// NewClient creates a client bound to the given session store.
func NewClient(sess *session.Store, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:          baseURL,
		httpClient:       httpClient,
		sess:             sess,
		policy:           opts.ExpiryPolicy,
		onSessionExpired: opts.OnSessionExpired,
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing).
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// Session returns the session store this client reads credentials from.
func (c *Client) Session() *session.Store {
	return c.sess
}

// Get performs a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST with a JSON body and decodes the response into out.
// body and out may each be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE. The response body is discarded.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// Upload performs a multipart POST, sending file under field with the given
// filename. Used for CSV imports, where the content type is the one per-call
// override to the JSON default.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}
	return c.do(ctx, method, path, reqBody, "application/json", out)
}

// do issues one request. Credentials are read from the session store at this
// moment, not cached. No retries: each call either decodes the server's body
// or returns its error.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	// Absent credentials just mean the request goes out unauthenticated;
	// the server decides whether that is acceptable.
	token, workspaceID := c.sess.Credentials()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if workspaceID != "" {
		req.Header.Set("X-Workspace-ID", workspaceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := parseAPIError(resp.StatusCode, respBody)
		// The exemption keys on the requested path, not the resolved URL:
		// a base URL with its own path prefix must not defeat it.
		if apiErr.IsUnauthorized() && path != LoginPath {
			c.expireSession(method, path)
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// expireSession applies the configured 401 policy: clear the cached
// credentials and notify the caller-supplied callback.
func (c *Client) expireSession(method, path string) {
	if c.policy == KeepSessionOnAuthFailure {
		return
	}
	logger.Warn("session expired", "method", method, "path", path)
	c.sess.Logout()
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
