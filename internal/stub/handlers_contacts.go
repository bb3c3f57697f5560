package stub

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/mailerctl/internal/pkg/httputil"
)

func (s *Server) handleGetContacts(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	contacts := s.store.Contacts(ws.ID, r.URL.Query().Get("search"))
	httputil.OK(w, paginate(contacts, queryInt(r, "page", "1"), queryInt(r, "per_page", "15")))
}

type contactInput struct {
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Phone     string         `json:"phone"`
	Meta      map[string]any `json:"meta"`
}

func (s *Server) validateContact(ws *Workspace, input contactInput, excludeID int) fieldErrors {
	errs := fieldErrors{}
	if !validEmail(input.Email) {
		errs.add("email", "The email must be a valid email address.")
	} else if s.store.ContactEmailTaken(ws.ID, input.Email, excludeID) {
		errs.add("email", "The email has already been taken.")
	}
	return errs
}

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	var input contactInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if errs := s.validateContact(ws, input, 0); errs.any() {
		httputil.ValidationError(w, errs)
		return
	}
	contact := s.store.AddContact(ws.ID, input.Email, input.FirstName, input.LastName, input.Phone)
	httputil.Created(w, contact)
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok {
		httputil.NotFound(w, "Contact not found.")
		return
	}
	if _, ok := s.store.ContactByID(ws.ID, id); !ok {
		httputil.NotFound(w, "Contact not found.")
		return
	}
	var input contactInput
	if !httputil.Decode(w, r, &input) {
		return
	}
	if errs := s.validateContact(ws, input, id); errs.any() {
		httputil.ValidationError(w, errs)
		return
	}
	contact, ok := s.store.UpdateContact(ws.ID, id, input.Email, input.FirstName, input.LastName, input.Phone)
	if !ok {
		httputil.NotFound(w, "Contact not found.")
		return
	}
	httputil.OK(w, contact)
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)
	id, ok := pathID(r)
	if !ok || !s.store.DeleteContact(ws.ID, id) {
		httputil.NotFound(w, "Contact not found.")
		return
	}
	httputil.NoContent(w)
}

// handleImportContacts ingests a CSV upload with an email,first_name,
// last_name,phone header row. Rows with a bad or duplicate address are
// skipped and reported, not fatal.
func (s *Server) handleImportContacts(w http.ResponseWriter, r *http.Request) {
	ws := requestWorkspace(r)

	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.ValidationError(w, fieldErrors{"file": {"The file field is required."}})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		httputil.ValidationError(w, fieldErrors{"file": {"The file must be a valid CSV."}})
		return
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	emailCol, ok := col["email"]
	if !ok {
		httputil.ValidationError(w, fieldErrors{"file": {"The CSV must have an email column."}})
		return
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	imported, skipped := 0, 0
	var rowErrors []string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		email := ""
		if emailCol < len(row) {
			email = row[emailCol]
		}
		if !validEmail(email) {
			skipped++
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: invalid email", line))
			continue
		}
		if s.store.ContactEmailTaken(ws.ID, email, 0) {
			skipped++
			continue
		}
		s.store.AddContact(ws.ID, email, cell(row, "first_name"), cell(row, "last_name"), cell(row, "phone"))
		imported++
	}

	httputil.OK(w, map[string]any{
		"imported": imported,
		"skipped":  skipped,
		"errors":   rowErrors,
	})
}
