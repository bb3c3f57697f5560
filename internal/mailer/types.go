package mailer

import "github.com/ignite/mailerctl/internal/session"

// Page is the server's page-structured list payload. Every list endpoint
// returns one: the current page of rows plus enough metadata for a caller to
// drive pagination.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Workspace is a tenant scope. Requests carry the active workspace in the
// X-Workspace-ID header and the server filters every resource by it.
type Workspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// AuthResult is the login/register response payload.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        session.User `json:"user"`
	Workspace   *Workspace   `json:"workspace,omitempty"`
}

// Contact is a subscriber record.
type Contact struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ContactInput is the create/update payload for a contact.
type ContactInput struct {
	Email     string         `json:"email"`
	FirstName string         `json:"first_name,omitempty"`
	LastName  string         `json:"last_name,omitempty"`
	Phone     string         `json:"phone,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// ImportResult summarizes a CSV contact import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// List is a mailing list.
type List struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ContactsCount int    `json:"contacts_count"`
}

// ListInput is the create/update payload for a list.
type ListInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Template is a reusable email body. System templates are shared across
// workspaces and carry a zero WorkspaceID; they cannot be edited or deleted.
type Template struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	HTMLBody    string `json:"html_body"`
	WorkspaceID int    `json:"workspace_id,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// TemplateInput is the create/update payload for a template.
type TemplateInput struct {
	Name     string `json:"name"`
	HTMLBody string `json:"html_body"`
}

// Campaign lifecycle states.
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
	CampaignFailed    = "failed"
)

// Campaign is the list-view projection of a campaign.
type Campaign struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CampaignDetail is the full campaign record, including its audience lists.
type CampaignDetail struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	FromName    string `json:"from_name"`
	FromEmail   string `json:"from_email"`
	HTMLBody    string `json:"html_body,omitempty"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	Lists       []List `json:"lists,omitempty"`
}

// CampaignInput is the create/update payload for a campaign. TemplateID, when
// non-zero, seeds the body from an existing template.
type CampaignInput struct {
	Name       string `json:"name,omitempty"`
	Subject    string `json:"subject,omitempty"`
	FromName   string `json:"from_name,omitempty"`
	FromEmail  string `json:"from_email,omitempty"`
	HTMLBody   string `json:"html_body,omitempty"`
	TemplateID int    `json:"template_id,omitempty"`
}

// CampaignStats is the per-campaign delivery rollup.
type CampaignStats struct {
	TotalMessages  int     `json:"total_messages"`
	SentCount      int     `json:"sent_count"`
	DeliveredCount int     `json:"delivered_count"`
	OpenedCount    int     `json:"opened_count"`
	ClickedCount   int     `json:"clicked_count"`
	FailedCount    int     `json:"failed_count"`
	OpenRate       float64 `json:"open_rate"`
	ClickRate      float64 `json:"click_rate"`
}

// Message delivery states, in rough lifecycle order.
const (
	MessagePending      = "pending"
	MessageSent         = "sent"
	MessageDelivered    = "delivered"
	MessageOpened       = "opened"
	MessageClicked      = "clicked"
	MessageFailed       = "failed"
	MessageBounced      = "bounced"
	MessageComplained   = "complained"
	MessageUnsubscribed = "unsubscribed"
)

// Message is one delivery attempt to one recipient.
type Message struct {
	ID             int    `json:"id"`
	CampaignName   string `json:"campaign_name"`
	RecipientEmail string `json:"recipient_email"`
	Status         string `json:"status"`
	SentAt         string `json:"sent_at,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// Usage is the workspace's quota report for the current billing period.
type Usage struct {
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
	Plan struct {
		Name                     string `json:"name"`
		MonthlyCredits           int    `json:"monthly_credits"`
		MaxRecipientsPerCampaign int    `json:"max_recipients_per_campaign"`
		MonthlyRecipientLimit    int    `json:"monthly_recipient_limit"`
	} `json:"plan"`
	Usage struct {
		CreditsUsed    int `json:"credits_used"`
		RecipientsSent int `json:"recipients_sent"`
	} `json:"usage"`
	Remaining struct {
		Credits    int `json:"credits"`
		Recipients int `json:"recipients"`
	} `json:"remaining"`
}
