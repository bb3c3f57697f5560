package stub

import (
	"net/http"
	"time"

	"github.com/ignite/mailerctl/internal/pkg/httputil"
)

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	messages := s.store.Messages(ws.ID, r.URL.Query().Get("status"), r.URL.Query().Get("search"))
	httputil.OK(w, paginate(messages, queryInt(r, "page", "1"), queryInt(r, "per_page", "15")))
}

// Free plan limits. Every stub account is on the free plan.
const (
	freeMonthlyCredits = 2000
	freeMaxRecipients  = 500
	freeMonthlyLimit   = 2000
)

func (s *Server) handleGetUsage(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)

	now := time.Now().UTC()
	periodStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Second)

	sent := 0
	for _, m := range s.store.Messages(ws.ID, "", "") {
		if m.SentAt == "" {
			continue
		}
		at, err := time.Parse(time.RFC3339, m.SentAt)
		if err != nil || at.Before(periodStart) {
			continue
		}
		sent++
	}

	usage := map[string]any{
		"period": map[string]string{
			"start": periodStart.Format(time.RFC3339),
			"end":   periodEnd.Format(time.RFC3339),
		},
		"plan": map[string]any{
			"name":                        "Free",
			"monthly_credits":             freeMonthlyCredits,
			"max_recipients_per_campaign": freeMaxRecipients,
			"monthly_recipient_limit":     freeMonthlyLimit,
		},
		"usage": map[string]int{
			"credits_used":    sent,
			"recipients_sent": sent,
		},
		"remaining": map[string]int{
			"credits":    max(freeMonthlyCredits-sent, 0),
			"recipients": max(freeMonthlyLimit-sent, 0),
		},
	}
	httputil.OK(w, usage)
}
