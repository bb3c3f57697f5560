package stub

import (
	"net/http"
	"time"

	"github.com/ignite/mailerctl/internal/mailer"
	"github.com/ignite/mailerctl/internal/pkg/httputil"
	"github.com/ignite/mailerctl/internal/pkg/logger"
	tmpl "github.com/ignite/mailerctl/internal/template"
)

func contactRecord(c Contact) mailer.Contact {
	return mailer.Contact{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	}
}

// campaignView is the detail wire shape, with audience lists expanded.
type campaignView struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	FromName    string     `json:"from_name"`
	FromEmail   string     `json:"from_email"`
	HTMLBody    string     `json:"html_body,omitempty"`
	Status      string     `json:"status"`
	ScheduledAt string     `json:"scheduled_at,omitempty"`
	CreatedAt   string     `json:"created_at"`
	Lists       []listView `json:"lists"`
}

func (s *Server) campaignView(ws *Workspace, c Campaign) campaignView {
	lists := make([]listView, 0, len(c.ListIDs))
	for _, listID := range c.ListIDs {
		if l, ok := s.store.ListByID(ws.ID, listID); ok {
			lists = append(lists, s.listView(l))
		}
	}
	return campaignView{
		ID: c.ID, Name: c.Name, Subject: c.Subject,
		FromName: c.FromName, FromEmail: c.FromEmail,
		HTMLBody: c.HTMLBody, Status: c.Status,
		ScheduledAt: c.ScheduledAt, CreatedAt: c.CreatedAt,
		Lists: lists,
	}
}

func (s *Server) handleGetCampaigns(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaigns := s.store.Campaigns(ws.ID, r.URL.Query().Get("status"))
	httputil.OK(w, paginate(campaigns, queryInt(r, "page", "1"), queryInt(r, "per_page", "15")))
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	httputil.OK(w, s.campaignView(ws, campaign))
}

type campaignInput struct {
	Name       string `json:"name"`
	Subject    string `json:"subject"`
	FromName   string `json:"from_name"`
	FromEmail  string `json:"from_email"`
	HTMLBody   string `json:"html_body"`
	TemplateID int    `json:"template_id"`
}

func validateCampaign(input campaignInput) fieldErrors {
	errs := fieldErrors{}
	if len(input.Name) < 2 {
		errs.add("name", "The name must be at least 2 characters.")
	}
	if len(input.Subject) < 2 {
		errs.add("subject", "The subject must be at least 2 characters.")
	}
	if input.FromName == "" {
		errs.add("from_name", "The from name field is required.")
	}
	if !validEmail(input.FromEmail) {
		errs.add("from_email", "The from email must be a valid email address.")
	}
	return errs
}

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	var input campaignInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if errs := validateCampaign(input); errs.any() {
		httputil.ValidationError(w, errs)
		return
	}

	body := input.HTMLBody
	if body == "" && input.TemplateID != 0 {
		if template, ok := s.store.TemplateByID(ws.ID, input.TemplateID); ok {
			body = template.HTMLBody
		} else {
			httputil.ValidationError(w, fieldErrors{"template_id": {"The selected template is invalid."}})
			return
		}
	}

	campaign := s.store.AddCampaign(ws.ID, Campaign{
		Name: input.Name, Subject: input.Subject,
		FromName: input.FromName, FromEmail: input.FromEmail,
		HTMLBody: body,
	})
	httputil.Created(w, s.campaignView(ws, campaign))
}

func (s *Server) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	if campaign.Status != "draft" {
		httputil.Error(w, http.StatusConflict, "Only draft campaigns can be edited.")
		return
	}

	// Partial update: only provided fields change
	var input campaignInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if input.FromEmail != "" && !validEmail(input.FromEmail) {
		httputil.ValidationError(w, fieldErrors{"from_email": {"The from email must be a valid email address."}})
		return
	}
	updated, ok := s.store.UpdateCampaign(ws.ID, campaign.ID, Campaign{
		Name: input.Name, Subject: input.Subject,
		FromName: input.FromName, FromEmail: input.FromEmail,
		HTMLBody: input.HTMLBody,
	})
	if !ok {
		httputil.NotFound(w, "Campaign not found.")
		return
	}
	httputil.OK(w, s.campaignView(ws, updated))
}

func (s *Server) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok || !s.store.DeleteCampaign(ws.ID, id) {
		httputil.NotFound(w, "Campaign not found.")
		return
	}
	httputil.NoContent(w)
}

func (s *Server) handleSetAudience(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	var input struct {
		ListIDs []int `json:"list_ids"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}
	for _, listID := range input.ListIDs {
		if _, ok := s.store.ListByID(ws.ID, listID); !ok {
			httputil.ValidationError(w, fieldErrors{"list_ids": {"The selected list is invalid."}})
			return
		}
	}
	updated, ok := s.store.SetCampaignAudience(ws.ID, campaign.ID, input.ListIDs)
	if !ok {
		httputil.NotFound(w, "Campaign not found.")
		return
	}
	httputil.OK(w, s.campaignView(ws, updated))
}

func (s *Server) handlePreviewCampaign(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	var input struct {
		ContactID int `json:"contact_id"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}
	contact, ok := s.store.ContactByID(ws.ID, input.ContactID)
	if !ok {
		httputil.ValidationError(w, fieldErrors{"contact_id": {"The selected contact is invalid."}})
		return
	}

	html, err := s.engine.Render(campaign.HTMLBody, tmpl.ContactData(contactRecord(contact)))
	if err != nil {
		httputil.ValidationError(w, fieldErrors{"html_body": {err.Error()}})
		return
	}
	httputil.OK(w, map[string]string{"html": html})
}

func (s *Server) handleScheduleCampaign(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	if campaign.Status != "draft" {
		httputil.Error(w, http.StatusConflict, "Only draft campaigns can be scheduled.")
		return
	}
	var input struct {
		ScheduledAt string `json:"scheduled_at"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}
	at, err := time.Parse(time.RFC3339, input.ScheduledAt)
	if err != nil || at.Before(time.Now()) {
		httputil.ValidationError(w, fieldErrors{"scheduled_at": {"The scheduled at must be a future date."}})
		return
	}
	updated, ok := s.store.ScheduleCampaign(ws.ID, campaign.ID, at.UTC().Format(time.RFC3339))
	if !ok {
		httputil.NotFound(w, "Campaign not found.")
		return
	}
	httputil.OK(w, s.campaignView(ws, updated))
}

func (s *Server) handleSendCampaign(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	if campaign.Status == "sent" || campaign.Status == "sending" {
		httputil.Error(w, http.StatusConflict, "Campaign has already been sent.")
		return
	}
	if len(campaign.ListIDs) == 0 {
		httputil.ValidationError(w, fieldErrors{"list_ids": {"The campaign has no audience."}})
		return
	}

	recipients := s.store.MemberContacts(campaign.ListIDs)
	s.deliver(ws, campaign, recipients)
	updated, ok := s.store.MarkCampaignSent(ws.ID, campaign.ID)
	if !ok {
		httputil.NotFound(w, "Campaign not found.")
		return
	}
	logger.Info("campaign sent", "campaign", updated.Name, "recipients", len(recipients))
	httputil.OK(w, s.campaignView(ws, updated))
}

// deliver synthesizes a delivery outcome per recipient. The distribution is
// deterministic so stub-backed demos and tests are repeatable.
func (s *Server) deliver(ws *Workspace, campaign Campaign, recipients []Contact) {
	sentAt := time.Now().UTC().Format(time.RFC3339)
	for i, contact := range recipients {
		status := "delivered"
		errMsg := ""
		switch {
		case i%13 == 12:
			status = "bounced"
			errMsg = "550 mailbox unavailable"
		case i%7 == 6:
			status = "failed"
			errMsg = "connection timed out"
		case i%3 == 0:
			status = "opened"
		case i%5 == 0:
			status = "clicked"
		}
		s.store.AddMessage(Message{
			WorkspaceID:    ws.ID,
			CampaignID:     campaign.ID,
			CampaignName:   campaign.Name,
			RecipientEmail: contact.Email,
			Status:         status,
			SentAt:         sentAt,
			ErrorMessage:   errMsg,
		})
	}
}

func (s *Server) handleCampaignStats(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	campaign, ok := s.campaignFromPath(w, r)
	if !ok {
		return
	}
	messages := s.store.CampaignMessages(ws.ID, campaign.ID)

	stats := struct {
		TotalMessages  int     `json:"total_messages"`
		SentCount      int     `json:"sent_count"`
		DeliveredCount int     `json:"delivered_count"`
		OpenedCount    int     `json:"opened_count"`
		ClickedCount   int     `json:"clicked_count"`
		FailedCount    int     `json:"failed_count"`
		OpenRate       float64 `json:"open_rate"`
		ClickRate      float64 `json:"click_rate"`
	}{TotalMessages: len(messages)}

	for _, m := range messages {
		switch m.Status {
		case "sent":
			stats.SentCount++
		case "delivered":
			stats.DeliveredCount++
		case "opened":
			stats.OpenedCount++
		case "clicked":
			stats.ClickedCount++
		case "failed", "bounced":
			stats.FailedCount++
		}
	}
	delivered := stats.DeliveredCount + stats.OpenedCount + stats.ClickedCount
	if delivered > 0 {
		stats.OpenRate = float64(stats.OpenedCount+stats.ClickedCount) / float64(delivered) * 100
		stats.ClickRate = float64(stats.ClickedCount) / float64(delivered) * 100
	}
	httputil.OK(w, stats)
}

func (s *Server) campaignFromPath(w http.ResponseWriter, r *http.Request) (Campaign, bool) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok {
		httputil.NotFound(w, "Campaign not found.")
		return Campaign{}, false
	}
	campaign, ok := s.store.CampaignByID(ws.ID, id)
	if !ok {
		httputil.NotFound(w, "Campaign not found.")
		return Campaign{}, false
	}
	return campaign, true
}
