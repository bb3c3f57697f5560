package stub

import (
	"net/http"

	"github.com/ignite/mailerctl/internal/pkg/httputil"
)

func (s *Server) handleGetTemplates(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	httputil.OK(w, map[string]any{"templates": s.store.Templates(ws.ID)})
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok {
		httputil.NotFound(w, "Template not found.")
		return
	}
	template, ok := s.store.TemplateByID(ws.ID, id)
	if !ok {
		httputil.NotFound(w, "Template not found.")
		return
	}
	httputil.OK(w, template)
}

type templateInput struct {
	Name     string `json:"name"`
	HTMLBody string `json:"html_body"`
}

func validateTemplate(input templateInput) fieldErrors {
	errs := fieldErrors{}
	if len(input.Name) < 2 {
		errs.add("name", "The name must be at least 2 characters.")
	}
	if input.HTMLBody == "" {
		errs.add("html_body", "The html body field is required.")
	}
	return errs
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	var input templateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if errs := validateTemplate(input); errs.any() {
		httputil.ValidationError(w, errs)
		return
	}
	template := s.store.AddTemplate(ws.ID, input.Name, input.HTMLBody)
	httputil.Created(w, template)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok {
		httputil.NotFound(w, "Template not found.")
		return
	}
	template, ok := s.store.TemplateByID(ws.ID, id)
	if !ok {
		httputil.NotFound(w, "Template not found.")
		return
	}
	// System templates are shared and read-only
	if template.WorkspaceID == 0 {
		httputil.Error(w, http.StatusForbidden, "System templates cannot be modified.")
		return
	}
	var input templateInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if errs := validateTemplate(input); errs.any() {
		httputil.ValidationError(w, errs)
		return
	}
	template, ok = s.store.UpdateTemplate(ws.ID, id, input.Name, input.HTMLBody)
	if !ok {
		httputil.NotFound(w, "Template not found.")
		return
	}
	httputil.OK(w, template)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok {
		httputil.NotFound(w, "Template not found.")
		return
	}
	if template, found := s.store.TemplateByID(ws.ID, id); found && template.WorkspaceID == 0 {
		httputil.Error(w, http.StatusForbidden, "System templates cannot be deleted.")
		return
	}
	if !s.store.DeleteTemplate(ws.ID, id) {
		httputil.NotFound(w, "Template not found.")
		return
	}
	httputil.NoContent(w)
}
