package stub

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/mailerctl/internal/pkg/httputil"
	tmpl "github.com/ignite/mailerctl/internal/template"
)

// Server routes the /api/v1 surface over an in-memory Store.
type Server struct {
	store  *Store
	engine *tmpl.Engine
}

// NewServer creates a Server. With seed set, the store starts with demo
// data so the CLI has something to show on first run.
func NewServer(seed bool) *Server {
	s := &Server{store: NewStore(), engine: tmpl.NewEngine()}
	s.seedSystemTemplates()
	if seed {
		s.seedDemoData()
	}
	return s
}

// Store exposes the backing store (used by tests).
func (s *Server) Store() *Store {
	return s.store
}

type contextKey string

const (
	userKey      contextKey = "user"
	workspaceKey contextKey = "workspace"
)

// Router builds the chi router with the full route table.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// The web console runs on a different origin in development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Workspace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.OK(w, map[string]string{"status": "healthy", "service": "mailer-stub-api"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints (no bearer token required)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Post("/auth/logout", s.handleLogout)

			r.Get("/contacts", s.handleGetContacts)
			r.Post("/contacts", s.handleCreateContact)
			r.Put("/contacts/{id}", s.handleUpdateContact)
			r.Delete("/contacts/{id}", s.handleDeleteContact)
			r.Post("/contacts/import-csv", s.handleImportContacts)

			r.Get("/lists", s.handleGetLists)
			r.Post("/lists", s.handleCreateList)
			r.Put("/lists/{id}", s.handleUpdateList)
			r.Delete("/lists/{id}", s.handleDeleteList)
			r.Post("/lists/{id}/contacts", s.handleAddListContacts)

			r.Get("/templates", s.handleGetTemplates)
			r.Get("/templates/{id}", s.handleGetTemplate)
			r.Post("/templates", s.handleCreateTemplate)
			r.Put("/templates/{id}", s.handleUpdateTemplate)
			r.Delete("/templates/{id}", s.handleDeleteTemplate)

			r.Get("/campaigns", s.handleGetCampaigns)
			r.Get("/campaigns/{id}", s.handleGetCampaign)
			r.Post("/campaigns", s.handleCreateCampaign)
			r.Put("/campaigns/{id}", s.handleUpdateCampaign)
			r.Delete("/campaigns/{id}", s.handleDeleteCampaign)
			r.Post("/campaigns/{id}/audience", s.handleSetAudience)
			r.Post("/campaigns/{id}/preview", s.handlePreviewCampaign)
			r.Post("/campaigns/{id}/schedule", s.handleScheduleCampaign)
			r.Post("/campaigns/{id}/send-now", s.handleSendCampaign)
			r.Get("/campaigns/{id}/stats", s.handleCampaignStats)

			r.Get("/messages", s.handleGetMessages)
			r.Get("/usage", s.handleGetUsage)
		})
	})

	return r
}

// requireAuth resolves the bearer token and workspace scope. Missing or
// unknown tokens get a 401 — the signal the client's expiry policy keys on.
// A workspace header naming a workspace the user does not own is also a 401.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			httputil.Unauthorized(w, "Unauthenticated.")
			return
		}
		user, ok := s.store.UserByToken(token)
		if !ok {
			httputil.Unauthorized(w, "Unauthenticated.")
			return
		}

		requestedWS := 0
		if header := r.Header.Get("X-Workspace-ID"); header != "" {
			id, err := strconv.Atoi(header)
			if err != nil {
				httputil.Unauthorized(w, "Invalid workspace.")
				return
			}
			requestedWS = id
		}
		ws, ok := s.store.WorkspaceFor(user.ID, requestedWS)
		if !ok {
			httputil.Unauthorized(w, "Invalid workspace.")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, workspaceKey, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return ""
	}
	return strings.TrimPrefix(header, scheme)
}

func requestUser(r *http.Request) *User {
	u, _ := r.Context().Value(userKey).(*User)
	return u
}

func requestWorkspace(r *http.Request) *Workspace {
	ws, _ := r.Context().Value(workspaceKey).(*Workspace)
	return ws
}

// page is the Laravel-style list envelope every paginated endpoint returns.
type page struct {
	Data        any `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// paginate slices items for the requested page. Pages are 1-based; an
// out-of-range page returns an empty data slice, not an error.
func paginate[T any](items []T, pageNum, perPage int) page {
	if pageNum < 1 {
		pageNum = 1
	}
	if perPage < 1 {
		perPage = 15
	}
	total := len(items)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	start := (pageNum - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	data := items[start:end]
	if data == nil {
		data = []T{}
	}
	return page{
		Data:        data,
		CurrentPage: pageNum,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
}

func queryInt(r *http.Request, key, fallback string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		v = fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
