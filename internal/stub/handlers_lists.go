package stub

import (
	"net/http"

	"github.com/ignite/mailerctl/internal/pkg/httputil"
)

// listView is the wire shape: the list row plus its live membership count.
type listView struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ContactsCount int    `json:"contacts_count"`
}

func (s *Server) listView(l List) listView {
	return listView{
		ID:            l.ID,
		Name:          l.Name,
		Description:   l.Description,
		ContactsCount: s.store.MemberCount(l.ID),
	}
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	lists := s.store.Lists(ws.ID)
	views := make([]listView, 0, len(lists))
	for _, l := range lists {
		views = append(views, s.listView(l))
	}
	httputil.OK(w, map[string]any{"lists": views})
}

type listInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func validateList(input listInput) fieldErrors {
	errs := fieldErrors{}
	if len(input.Name) < 2 {
		errs.add("name", "The name must be at least 2 characters.")
	}
	return errs
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	var input listInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if errs := validateList(input); errs.any() {
		httputil.ValidationError(w, errs)
		return
	}
	list := s.store.AddList(ws.ID, input.Name, input.Description)
	httputil.Created(w, s.listView(list))
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok {
		httputil.NotFound(w, "List not found.")
		return
	}
	if _, ok := s.store.ListByID(ws.ID, id); !ok {
		httputil.NotFound(w, "List not found.")
		return
	}
	var input listInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if errs := validateList(input); errs.any() {
		httputil.ValidationError(w, errs)
		return
	}
	list, ok := s.store.UpdateList(ws.ID, id, input.Name, input.Description)
	if !ok {
		httputil.NotFound(w, "List not found.")
		return
	}
	httputil.OK(w, s.listView(list))
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok || !s.store.DeleteList(ws.ID, id) {
		httputil.NotFound(w, "List not found.")
		return
	}
	httputil.NoContent(w)
}

func (s *Server) handleAddListContacts(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok {
		httputil.NotFound(w, "List not found.")
		return
	}
	list, ok := s.store.ListByID(ws.ID, id)
	if !ok {
		httputil.NotFound(w, "List not found.")
		return
	}
	var input struct {
		ContactIDs []int `json:"contact_ids"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}

	// Only this workspace's contacts may be attached
	valid := input.ContactIDs[:0]
	for _, contactID := range input.ContactIDs {
		if _, ok := s.store.ContactByID(ws.ID, contactID); ok {
			valid = append(valid, contactID)
		}
	}
	added := s.store.AddMembers(list.ID, valid)
	httputil.OK(w, map[string]any{"added": added, "list": s.listView(list)})
}
