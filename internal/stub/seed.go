package stub

import (
	"fmt"

	"github.com/ignite/mailerctl/internal/pkg/logger"
)

// seedSystemTemplates installs the shared starter templates every workspace
// sees. They carry workspace ID zero and are read-only through the API.
func (s *Server) seedSystemTemplates() {
	s.store.AddTemplate(0, "Welcome Email", `<html><body>
<h1>Welcome, {{ first_name | default: "Friend" }}!</h1>
<p>Thanks for joining us. We're glad to have you on board.</p>
<p>This email was sent to {{ email }}.</p>
</body></html>`)

	s.store.AddTemplate(0, "Newsletter", `<html><body>
<h1>Hello {{ first_name | capitalize | default: "there" }},</h1>
<p>Here's what's new this month.</p>
<p><a href="https://example.com/read?u={{ email | urlencode }}">Read the full issue</a></p>
</body></html>`)

	s.store.AddTemplate(0, "Promotion", `<html><body>
<h2>{{ first_name | default: "Valued customer" }}, a special offer for you</h2>
<p>Use code WELCOME at checkout.</p>
</body></html>`)
}

// seedDemoData creates a demo account with contacts, lists, and one sent
// campaign so a fresh install has data to browse.
//
// Credentials: demo@example.com / password
func (s *Server) seedDemoData() {
	user, ws, _ := s.store.CreateUser("Demo User", "demo@example.com", "password")

	firstNames := []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy"}
	lastNames := []string{"Johnson", "Smith", "Nguyen", "Garcia", "Chen", "Brown", "Davis", "Kim", "Lopez", "Patel"}

	newsletter := s.store.AddList(ws.ID, "Newsletter", "Monthly newsletter subscribers")
	vip := s.store.AddList(ws.ID, "VIP Customers", "High-value repeat customers")

	var contactIDs []int
	for i := 0; i < 25; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
		email := fmt.Sprintf("%s.%s%d@example.com", first, last, i+1)
		c := s.store.AddContact(ws.ID, email, first, last, "")
		contactIDs = append(contactIDs, c.ID)
	}

	s.store.AddMembers(newsletter.ID, contactIDs)
	s.store.AddMembers(vip.ID, contactIDs[:5])

	welcome := s.store.AddCampaign(ws.ID, Campaign{
		Name: "August Newsletter", Subject: "What's new in August",
		FromName: "Demo User", FromEmail: "news@example.com",
		HTMLBody: `<html><body><h1>Hello {{ first_name | default: "there" }},</h1><p>Here's what's new this month.</p></body></html>`,
	})
	welcome, _ = s.store.SetCampaignAudience(ws.ID, welcome.ID, []int{newsletter.ID})
	s.deliver(ws, welcome, s.store.MemberContacts(welcome.ListIDs))
	s.store.MarkCampaignSent(ws.ID, welcome.ID)

	draft := s.store.AddCampaign(ws.ID, Campaign{
		Name: "VIP Thank You", Subject: "A thank you from the team",
		FromName: "Demo User", FromEmail: "hello@example.com",
		HTMLBody: `<html><body><p>{{ first_name | capitalize }}, thank you for being a VIP.</p></body></html>`,
	})
	s.store.SetCampaignAudience(ws.ID, draft.ID, []int{vip.ID})

	logger.Info("seeded demo data",
		"user_email", user.Email,
		"contacts", len(contactIDs),
		"campaigns", 2)
}
