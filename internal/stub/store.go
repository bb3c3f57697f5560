// Package stub is an in-memory implementation of the mailer platform's
// /api/v1 surface for local development. It speaks the production wire
// contract — bearer auth, workspace scoping, page-structured lists,
// field-keyed validation errors — but holds everything in process memory:
// restarting it resets the world.
package stub

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"`
}

// Workspace is a tenant owned by one user.
type Workspace struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	UserID int    `json:"-"`
}

// Contact is a subscriber row scoped to a workspace.
type Contact struct {
	ID          int    `json:"id"`
	WorkspaceID int    `json:"-"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	CreatedAt   string `json:"created_at"`
}

// List is a mailing list; membership lives in Store.members.
type List struct {
	ID          int    `json:"id"`
	WorkspaceID int    `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Template is an email body. WorkspaceID zero marks a shared system template.
type Template struct {
	ID          int    `json:"id"`
	WorkspaceID int    `json:"workspace_id,omitempty"`
	Name        string `json:"name"`
	HTMLBody    string `json:"html_body"`
	CreatedAt   string `json:"created_at"`
}

// Campaign is a campaign row with its audience list IDs.
type Campaign struct {
	ID          int    `json:"id"`
	WorkspaceID int    `json:"-"`
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	FromName    string `json:"from_name"`
	FromEmail   string `json:"from_email"`
	HTMLBody    string `json:"html_body,omitempty"`
	Status      string `json:"status"`
	ScheduledAt string `json:"scheduled_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	ListIDs     []int  `json:"-"`
}

// snapshot copies the row, including its audience slice, so callers never
// hold a reference into store-owned memory.
func (c *Campaign) snapshot() Campaign {
	out := *c
	out.ListIDs = append([]int(nil), c.ListIDs...)
	return out
}

// Message is one delivery attempt, created when a campaign sends.
type Message struct {
	ID             int    `json:"id"`
	WorkspaceID    int    `json:"-"`
	CampaignID     int    `json:"-"`
	CampaignName   string `json:"campaign_name"`
	RecipientEmail string `json:"recipient_email"`
	Status         string `json:"status"`
	SentAt         string `json:"sent_at,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// Store is the process-wide dataset. One mutex guards everything. Lookups
// hand out copies and every field write goes through a Store method, so
// concurrent requests never touch shared rows directly.
type Store struct {
	mu sync.Mutex

	users      []*User
	workspaces []*Workspace
	tokens     map[string]int // token -> user ID
	contacts   []*Contact
	lists      []*List
	members    map[int]map[int]bool // list ID -> contact ID set
	templates  []*Template
	campaigns  []*Campaign
	messages   []*Message

	nextID int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		tokens:  make(map[string]int),
		members: make(map[int]map[int]bool),
		nextID:  1,
	}
}

func (s *Store) id() int {
	id := s.nextID
	s.nextID++
	return id
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// CreateUser registers a user with a personal workspace and returns both
// plus a fresh bearer token.
func (s *Store) CreateUser(name, email, password string) (*User, *Workspace, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := &User{ID: s.id(), Name: name, Email: email, Password: password}
	s.users = append(s.users, user)
	ws := &Workspace{ID: s.id(), Name: name + "'s Workspace", UserID: user.ID}
	s.workspaces = append(s.workspaces, ws)
	token := uuid.NewString()
	s.tokens[token] = user.ID
	return user, ws, token
}

// Authenticate checks credentials and issues a token. Returns false on a
// wrong email or password.
func (s *Store) Authenticate(email, password string) (*User, *Workspace, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.Password == password {
			token := uuid.NewString()
			s.tokens[token] = u.ID
			return u, s.workspaceOf(u.ID), token, true
		}
	}
	return nil, nil, "", false
}

// UserByToken resolves a bearer token. Returns false for unknown tokens.
func (s *Store) UserByToken(token string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	for _, u := range s.users {
		if u.ID == userID {
			return u, true
		}
	}
	return nil, false
}

// RevokeToken invalidates a bearer token.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// WorkspaceFor returns the workspace a request should be scoped to. A zero
// requested ID means the user's own workspace; a non-zero ID must belong to
// the user.
func (s *Store) WorkspaceFor(userID, requestedID int) (*Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if requestedID == 0 {
		ws := s.workspaceOf(userID)
		return ws, ws != nil
	}
	for _, ws := range s.workspaces {
		if ws.ID == requestedID && ws.UserID == userID {
			return ws, true
		}
	}
	return nil, false
}

func (s *Store) workspaceOf(userID int) *Workspace {
	for _, ws := range s.workspaces {
		if ws.UserID == userID {
			return ws
		}
	}
	return nil
}

// EmailTaken reports whether an account already uses the address.
func (s *Store) EmailTaken(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Contacts returns the workspace's contacts matching search, newest first.
func (s *Store) Contacts(workspaceID int, search string) []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Contact
	search = strings.ToLower(search)
	for _, c := range s.contacts {
		if c.WorkspaceID != workspaceID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Email+" "+c.FirstName+" "+c.LastName), search) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// ContactByID looks up one contact within a workspace.
func (s *Store) ContactByID(workspaceID, id int) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID == id && c.WorkspaceID == workspaceID {
			return *c, true
		}
	}
	return Contact{}, false
}

// ContactEmailTaken reports whether the workspace already has the address.
func (s *Store) ContactEmailTaken(workspaceID int, email string, excludeID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.WorkspaceID == workspaceID && c.ID != excludeID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

// AddContact inserts a contact.
func (s *Store) AddContact(workspaceID int, email, firstName, lastName, phone string) Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &Contact{
		ID: s.id(), WorkspaceID: workspaceID,
		Email: email, FirstName: firstName, LastName: lastName, Phone: phone,
		CreatedAt: now(),
	}
	s.contacts = append(s.contacts, c)
	return *c
}

// UpdateContact replaces a contact's fields.
func (s *Store) UpdateContact(workspaceID, id int, email, firstName, lastName, phone string) (Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID == id && c.WorkspaceID == workspaceID {
			c.Email = email
			c.FirstName = firstName
			c.LastName = lastName
			c.Phone = phone
			return *c, true
		}
	}
	return Contact{}, false
}

// DeleteContact removes a contact and its list memberships.
func (s *Store) DeleteContact(workspaceID, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == id && c.WorkspaceID == workspaceID {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			for _, set := range s.members {
				delete(set, id)
			}
			return true
		}
	}
	return false
}

// Lists returns the workspace's lists.
func (s *Store) Lists(workspaceID int) []List {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []List
	for _, l := range s.lists {
		if l.WorkspaceID == workspaceID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListByID looks up one list within a workspace.
func (s *Store) ListByID(workspaceID, id int) (List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.ID == id && l.WorkspaceID == workspaceID {
			return *l, true
		}
	}
	return List{}, false
}

// MemberCount returns how many contacts are on a list.
func (s *Store) MemberCount(listID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members[listID])
}

// AddList inserts a list.
func (s *Store) AddList(workspaceID int, name, description string) List {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &List{ID: s.id(), WorkspaceID: workspaceID, Name: name, Description: description}
	s.lists = append(s.lists, l)
	s.members[l.ID] = make(map[int]bool)
	return *l
}

// UpdateList replaces a list's name and description.
func (s *Store) UpdateList(workspaceID, id int, name, description string) (List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if l.ID == id && l.WorkspaceID == workspaceID {
			l.Name = name
			l.Description = description
			return *l, true
		}
	}
	return List{}, false
}

// DeleteList removes a list and its memberships.
func (s *Store) DeleteList(workspaceID, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lists {
		if l.ID == id && l.WorkspaceID == workspaceID {
			s.lists = append(s.lists[:i], s.lists[i+1:]...)
			delete(s.members, id)
			return true
		}
	}
	return false
}

// AddMembers attaches contacts to a list, skipping ones already on it.
// Returns how many were actually added.
func (s *Store) AddMembers(listID int, contactIDs []int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.members[listID]
	if set == nil {
		set = make(map[int]bool)
		s.members[listID] = set
	}
	added := 0
	for _, id := range contactIDs {
		if !set[id] {
			set[id] = true
			added++
		}
	}
	return added
}

// MemberContacts returns the contacts on the given lists, deduplicated by
// contact ID.
func (s *Store) MemberContacts(listIDs []int) []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := make(map[int]bool)
	for _, listID := range listIDs {
		for contactID := range s.members[listID] {
			want[contactID] = true
		}
	}
	var out []Contact
	for _, c := range s.contacts {
		if want[c.ID] {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Templates returns the workspace's templates plus the system set.
func (s *Store) Templates(workspaceID int) []Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Template
	for _, t := range s.templates {
		if t.WorkspaceID == 0 || t.WorkspaceID == workspaceID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TemplateByID looks up a template visible to the workspace.
func (s *Store) TemplateByID(workspaceID, id int) (Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.templates {
		if t.ID == id && (t.WorkspaceID == 0 || t.WorkspaceID == workspaceID) {
			return *t, true
		}
	}
	return Template{}, false
}

// AddTemplate inserts a template. workspaceID zero creates a system template.
func (s *Store) AddTemplate(workspaceID int, name, htmlBody string) Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Template{
		ID: s.id(), WorkspaceID: workspaceID,
		Name: name, HTMLBody: htmlBody, CreatedAt: now(),
	}
	s.templates = append(s.templates, t)
	return *t
}

// UpdateTemplate replaces a workspace template's name and body. System
// templates are not reachable here; they carry workspace ID zero.
func (s *Store) UpdateTemplate(workspaceID, id int, name, htmlBody string) (Template, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.templates {
		if t.ID == id && t.WorkspaceID == workspaceID {
			t.Name = name
			t.HTMLBody = htmlBody
			return *t, true
		}
	}
	return Template{}, false
}

// DeleteTemplate removes a workspace template. System templates stay.
func (s *Store) DeleteTemplate(workspaceID, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.templates {
		if t.ID == id && t.WorkspaceID == workspaceID {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return true
		}
	}
	return false
}

// Campaigns returns the workspace's campaigns, optionally filtered by
// status, newest first.
func (s *Store) Campaigns(workspaceID int, status string) []Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Campaign
	for _, c := range s.campaigns {
		if c.WorkspaceID != workspaceID {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// CampaignByID looks up one campaign within a workspace.
func (s *Store) CampaignByID(workspaceID, id int) (Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.campaignOf(workspaceID, id); c != nil {
		return c.snapshot(), true
	}
	return Campaign{}, false
}

func (s *Store) campaignOf(workspaceID, id int) *Campaign {
	for _, c := range s.campaigns {
		if c.ID == id && c.WorkspaceID == workspaceID {
			return c
		}
	}
	return nil
}

// AddCampaign inserts a draft campaign.
func (s *Store) AddCampaign(workspaceID int, c Campaign) Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign := c
	campaign.ID = s.id()
	campaign.WorkspaceID = workspaceID
	campaign.Status = "draft"
	campaign.CreatedAt = now()
	s.campaigns = append(s.campaigns, &campaign)
	return campaign.snapshot()
}

// UpdateCampaign applies the non-empty fields of patch to a campaign.
func (s *Store) UpdateCampaign(workspaceID, id int, patch Campaign) (Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.campaignOf(workspaceID, id)
	if c == nil {
		return Campaign{}, false
	}
	if patch.Name != "" {
		c.Name = patch.Name
	}
	if patch.Subject != "" {
		c.Subject = patch.Subject
	}
	if patch.FromName != "" {
		c.FromName = patch.FromName
	}
	if patch.FromEmail != "" {
		c.FromEmail = patch.FromEmail
	}
	if patch.HTMLBody != "" {
		c.HTMLBody = patch.HTMLBody
	}
	return c.snapshot(), true
}

// SetCampaignAudience replaces a campaign's audience lists.
func (s *Store) SetCampaignAudience(workspaceID, id int, listIDs []int) (Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.campaignOf(workspaceID, id)
	if c == nil {
		return Campaign{}, false
	}
	c.ListIDs = append([]int(nil), listIDs...)
	return c.snapshot(), true
}

// ScheduleCampaign marks a campaign scheduled for the given time.
func (s *Store) ScheduleCampaign(workspaceID, id int, at string) (Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.campaignOf(workspaceID, id)
	if c == nil {
		return Campaign{}, false
	}
	c.Status = "scheduled"
	c.ScheduledAt = at
	return c.snapshot(), true
}

// MarkCampaignSent finalizes a campaign after delivery.
func (s *Store) MarkCampaignSent(workspaceID, id int) (Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.campaignOf(workspaceID, id)
	if c == nil {
		return Campaign{}, false
	}
	c.Status = "sent"
	c.ScheduledAt = ""
	return c.snapshot(), true
}

// DeleteCampaign removes a campaign. Its messages stay for the monitoring
// feed, mirroring the production API.
func (s *Store) DeleteCampaign(workspaceID, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.campaigns {
		if c.ID == id && c.WorkspaceID == workspaceID {
			s.campaigns = append(s.campaigns[:i], s.campaigns[i+1:]...)
			return true
		}
	}
	return false
}

// AddMessage appends a delivery message.
func (s *Store) AddMessage(m Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := m
	msg.ID = s.id()
	s.messages = append(s.messages, &msg)
	return msg
}

// Messages returns the workspace's delivery feed, filtered by status and
// recipient search, newest first.
func (s *Store) Messages(workspaceID int, status, search string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	search = strings.ToLower(search)
	for _, m := range s.messages {
		if m.WorkspaceID != workspaceID {
			continue
		}
		if status != "" && m.Status != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.RecipientEmail+" "+m.CampaignName), search) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// CampaignMessages returns every message a campaign produced.
func (s *Store) CampaignMessages(workspaceID, campaignID int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.messages {
		if m.WorkspaceID == workspaceID && m.CampaignID == campaignID {
			out = append(out, *m)
		}
	}
	return out
}
