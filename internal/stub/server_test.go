package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is one running stub with a registered account.
type testEnv struct {
	t      *testing.T
	server *httptest.Server
	token  string
	wsID   int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	srv := NewServer(false)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	env := &testEnv{t: t, server: ts}
	status, body := env.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":                  "Test User",
		"email":                 "test@example.com",
		"password":              "secret123",
		"password_confirmation": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var auth struct {
		AccessToken string `json:"access_token"`
		Workspace   struct {
			ID int `json:"id"`
		} `json:"workspace"`
	}
	require.NoError(t, json.Unmarshal(body, &auth))
	env.token = auth.AccessToken
	env.wsID = auth.Workspace.ID
	return env
}

func (e *testEnv) request(method, path string, payload any) *http.Request {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(e.t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	return req
}

func (e *testEnv) do(method, path string, payload any) (int, []byte) {
	e.t.Helper()
	resp, err := http.DefaultClient.Do(e.request(method, path, payload))
	require.NoError(e.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	return resp.StatusCode, body
}

func (e *testEnv) decode(body []byte, out any) {
	e.t.Helper()
	require.NoError(e.t, json.Unmarshal(body, out))
}

func TestRegisterValidation(t *testing.T) {
	srv := NewServer(false)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()
	env := &testEnv{t: t, server: ts}

	status, body := env.do(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":                  "X",
		"email":                 "not-an-email",
		"password":              "123",
		"password_confirmation": "456",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)

	var envelope struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	env.decode(body, &envelope)
	assert.Equal(t, "The given data was invalid.", envelope.Message)
	assert.Contains(t, envelope.Errors, "name")
	assert.Contains(t, envelope.Errors, "email")
	assert.Contains(t, envelope.Errors, "password")
	assert.Contains(t, envelope.Errors, "password_confirmation")
}

func TestLoginWrongPasswordIs401(t *testing.T) {
	env := newTestEnv(t)
	env.token = "" // login is public

	status, body := env.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, string(body), "Invalid credentials.")
}

func TestRequestsWithoutTokenAre401(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""

	status, _ := env.do(http.MethodGet, "/api/v1/contacts", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestForeignWorkspaceHeaderIs401(t *testing.T) {
	env := newTestEnv(t)

	req := env.request(http.MethodGet, "/api/v1/contacts", nil)
	req.Header.Set("X-Workspace-ID", strconv.Itoa(env.wsID+1000))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestContactCRUDAndDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodPost, "/api/v1/contacts", map[string]string{
		"email":      "alice@example.com",
		"first_name": "Alice",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var contact struct {
		ID int `json:"id"`
	}
	env.decode(body, &contact)

	// Same address again is a validation failure
	status, body = env.do(http.MethodPost, "/api/v1/contacts", map[string]string{
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "already been taken")

	status, _ = env.do(http.MethodPut, fmt.Sprintf("/api/v1/contacts/%d", contact.ID), map[string]string{
		"email":      "alice@example.com",
		"first_name": "Alicia",
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/contacts/%d", contact.ID), nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/contacts/%d", contact.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestConcurrentEditsAndReads(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodPost, "/api/v1/contacts", map[string]string{
		"email":      "carol@example.com",
		"first_name": "Carol",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var contact struct {
		ID int `json:"id"`
	}
	env.decode(body, &contact)

	// Writers and readers race on the same row; run under -race this
	// catches any handler touching store rows outside the lock.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			status, _ := env.do(http.MethodPut, fmt.Sprintf("/api/v1/contacts/%d", contact.ID), map[string]string{
				"email":      "carol@example.com",
				"first_name": fmt.Sprintf("Carol%d", n),
			})
			assert.Equal(t, http.StatusOK, status)
		}(i)
		go func() {
			defer wg.Done()
			status, _ := env.do(http.MethodGet, "/api/v1/contacts", nil)
			assert.Equal(t, http.StatusOK, status)
		}()
	}
	wg.Wait()

	status, body = env.do(http.MethodGet, "/api/v1/contacts?search=carol", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "carol@example.com")
}

func TestContactPaginationAndSearch(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 20; i++ {
		status, _ := env.do(http.MethodPost, "/api/v1/contacts", map[string]string{
			"email": fmt.Sprintf("user%02d@example.com", i),
		})
		require.Equal(t, http.StatusCreated, status)
	}

	var page struct {
		Data        []json.RawMessage `json:"data"`
		CurrentPage int               `json:"current_page"`
		LastPage    int               `json:"last_page"`
		Total       int               `json:"total"`
	}
	status, body := env.do(http.MethodGet, "/api/v1/contacts?page=2&per_page=15", nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &page)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, 20, page.Total)
	assert.Len(t, page.Data, 5)

	status, body = env.do(http.MethodGet, "/api/v1/contacts?search=user07", nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &page)
	assert.Equal(t, 1, page.Total)
}

func TestImportContactsCSV(t *testing.T) {
	env := newTestEnv(t)

	csv := "email,first_name,last_name\n" +
		"good@example.com,Good,Row\n" +
		"bad-address,Oops,Row\n" +
		"good@example.com,Dup,Row\n"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "contacts.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/contacts/import-csv", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result struct {
		Imported int      `json:"imported"`
		Skipped  int      `json:"skipped"`
		Errors   []string `json:"errors"`
	}
	env.decode(body, &result)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 1) // the duplicate is skipped silently
	assert.Contains(t, result.Errors[0], "invalid email")
}

func TestListsEnvelopeAndMembership(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodPost, "/api/v1/lists", map[string]string{
		"name": "Newsletter",
	})
	require.Equal(t, http.StatusCreated, status)
	var list struct {
		ID int `json:"id"`
	}
	env.decode(body, &list)

	var contactIDs []int
	for _, email := range []string{"a@example.com", "b@example.com"} {
		status, body = env.do(http.MethodPost, "/api/v1/contacts", map[string]string{"email": email})
		require.Equal(t, http.StatusCreated, status)
		var c struct {
			ID int `json:"id"`
		}
		env.decode(body, &c)
		contactIDs = append(contactIDs, c.ID)
	}

	status, _ = env.do(http.MethodPost, fmt.Sprintf("/api/v1/lists/%d/contacts", list.ID), map[string][]int{
		"contact_ids": contactIDs,
	})
	require.Equal(t, http.StatusOK, status)

	var envelope struct {
		Lists []struct {
			ID            int `json:"id"`
			ContactsCount int `json:"contacts_count"`
		} `json:"lists"`
	}
	status, body = env.do(http.MethodGet, "/api/v1/lists", nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &envelope)
	require.Len(t, envelope.Lists, 1)
	assert.Equal(t, 2, envelope.Lists[0].ContactsCount)
}

func TestSystemTemplatesAreReadOnly(t *testing.T) {
	env := newTestEnv(t)

	var envelope struct {
		Templates []struct {
			ID          int `json:"id"`
			WorkspaceID int `json:"workspace_id"`
		} `json:"templates"`
	}
	status, body := env.do(http.MethodGet, "/api/v1/templates", nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &envelope)
	require.NotEmpty(t, envelope.Templates)

	systemID := 0
	for _, tmpl := range envelope.Templates {
		if tmpl.WorkspaceID == 0 {
			systemID = tmpl.ID
			break
		}
	}
	require.NotZero(t, systemID, "expected seeded system templates")

	status, _ = env.do(http.MethodPut, fmt.Sprintf("/api/v1/templates/%d", systemID), map[string]string{
		"name": "Hijacked", "html_body": "<p>x</p>",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/templates/%d", systemID), nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCampaignLifecycle(t *testing.T) {
	env := newTestEnv(t)

	// Audience: one list with two contacts
	_, body := env.do(http.MethodPost, "/api/v1/lists", map[string]string{"name": "Audience"})
	var list struct {
		ID int `json:"id"`
	}
	env.decode(body, &list)

	var contactIDs []int
	for _, email := range []string{"r1@example.com", "r2@example.com"} {
		_, body = env.do(http.MethodPost, "/api/v1/contacts", map[string]string{
			"email": email, "first_name": "pat",
		})
		var c struct {
			ID int `json:"id"`
		}
		env.decode(body, &c)
		contactIDs = append(contactIDs, c.ID)
	}
	status, _ := env.do(http.MethodPost, fmt.Sprintf("/api/v1/lists/%d/contacts", list.ID), map[string][]int{
		"contact_ids": contactIDs,
	})
	require.Equal(t, http.StatusOK, status)

	// Create draft
	status, body = env.do(http.MethodPost, "/api/v1/campaigns", map[string]any{
		"name":       "Welcome blast",
		"subject":    "Hello there",
		"from_name":  "Test User",
		"from_email": "news@example.com",
		"html_body":  "<p>Hi {{ first_name | capitalize }}</p>",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var campaign struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	env.decode(body, &campaign)
	assert.Equal(t, "draft", campaign.Status)

	// Send without audience fails
	status, body = env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/send-now", campaign.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, string(body), "no audience")

	status, _ = env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/audience", campaign.ID), map[string][]int{
		"list_ids": {list.ID},
	})
	require.Equal(t, http.StatusOK, status)

	// Personalized preview
	status, body = env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/preview", campaign.ID), map[string]int{
		"contact_id": contactIDs[0],
	})
	require.Equal(t, http.StatusOK, status)
	var preview struct {
		HTML string `json:"html"`
	}
	env.decode(body, &preview)
	assert.Equal(t, "<p>Hi Pat</p>", preview.HTML)

	// Send
	status, body = env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/send-now", campaign.ID), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	env.decode(body, &campaign)
	assert.Equal(t, "sent", campaign.Status)

	// Sent campaigns are frozen
	status, _ = env.do(http.MethodPut, fmt.Sprintf("/api/v1/campaigns/%d", campaign.ID), map[string]string{
		"subject": "Changed",
	})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/send-now", campaign.ID), nil)
	assert.Equal(t, http.StatusConflict, status)

	// Stats cover every recipient
	var stats struct {
		TotalMessages int `json:"total_messages"`
	}
	status, body = env.do(http.MethodGet, fmt.Sprintf("/api/v1/campaigns/%d/stats", campaign.ID), nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &stats)
	assert.Equal(t, 2, stats.TotalMessages)

	// The delivery feed has the messages
	var page struct {
		Total int `json:"total"`
	}
	status, body = env.do(http.MethodGet, "/api/v1/messages", nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &page)
	assert.Equal(t, 2, page.Total)
}

func TestScheduleCampaignValidation(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(http.MethodPost, "/api/v1/campaigns", map[string]string{
		"name": "Later", "subject": "Soon", "from_name": "T", "from_email": "t@example.com",
	})
	var campaign struct {
		ID int `json:"id"`
	}
	env.decode(body, &campaign)

	status, _ := env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/schedule", campaign.ID), map[string]string{
		"scheduled_at": "yesterday",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/schedule", campaign.ID), map[string]string{
		"scheduled_at": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	future := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	status, body = env.do(http.MethodPost, fmt.Sprintf("/api/v1/campaigns/%d/schedule", campaign.ID), map[string]string{
		"scheduled_at": future,
	})
	require.Equal(t, http.StatusOK, status)
	var scheduled struct {
		Status      string `json:"status"`
		ScheduledAt string `json:"scheduled_at"`
	}
	env.decode(body, &scheduled)
	assert.Equal(t, "scheduled", scheduled.Status)
	assert.Equal(t, future, scheduled.ScheduledAt)
}

func TestCampaignFromTemplateSeedsBody(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(http.MethodPost, "/api/v1/templates", map[string]string{
		"name": "Promo", "html_body": "<p>{{ first_name }}, sale on now</p>",
	})
	var tmpl struct {
		ID int `json:"id"`
	}
	env.decode(body, &tmpl)

	status, body := env.do(http.MethodPost, "/api/v1/campaigns", map[string]any{
		"name": "From template", "subject": "Sale", "from_name": "T",
		"from_email": "t@example.com", "template_id": tmpl.ID,
	})
	require.Equal(t, http.StatusCreated, status)
	var campaign struct {
		HTMLBody string `json:"html_body"`
	}
	env.decode(body, &campaign)
	assert.Equal(t, "<p>{{ first_name }}, sale on now</p>", campaign.HTMLBody)
}

func TestUsageReflectsSends(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodGet, "/api/v1/usage", nil)
	require.Equal(t, http.StatusOK, status)

	var usage struct {
		Plan struct {
			Name           string `json:"name"`
			MonthlyCredits int    `json:"monthly_credits"`
		} `json:"plan"`
		Usage struct {
			RecipientsSent int `json:"recipients_sent"`
		} `json:"usage"`
		Remaining struct {
			Credits int `json:"credits"`
		} `json:"remaining"`
	}
	env.decode(body, &usage)
	assert.Equal(t, "Free", usage.Plan.Name)
	assert.Zero(t, usage.Usage.RecipientsSent)
	assert.Equal(t, usage.Plan.MonthlyCredits, usage.Remaining.Credits)
}

func TestSeededServerHasDemoData(t *testing.T) {
	srv := NewServer(true)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()
	env := &testEnv{t: t, server: ts}

	status, body := env.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "demo@example.com",
		"password": "password",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var auth struct {
		AccessToken string `json:"access_token"`
	}
	env.decode(body, &auth)
	env.token = auth.AccessToken

	var page struct {
		Total int `json:"total"`
	}
	status, body = env.do(http.MethodGet, "/api/v1/contacts", nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &page)
	assert.Equal(t, 25, page.Total)

	// One campaign was sent during seeding
	status, body = env.do(http.MethodGet, "/api/v1/messages", nil)
	require.Equal(t, http.StatusOK, status)
	env.decode(body, &page)
	assert.Equal(t, 25, page.Total)
}
