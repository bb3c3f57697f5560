package stub

import (
	"net/http"

	"github.com/ignite/mailerctl/internal/pkg/httputil"
	"github.com/ignite/mailerctl/internal/pkg/logger"
)

type authResponse struct {
	AccessToken string     `json:"access_token"`
	User        *User      `json:"user"`
	Workspace   *Workspace `json:"workspace,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}

	errs := fieldErrors{}
	if !validEmail(input.Email) {
		errs.add("email", "The email must be a valid email address.")
	}
	if len(input.Password) < 6 {
		errs.add("password", "The password must be at least 6 characters.")
	}
	if errs.any() {
		httputil.ValidationError(w, errs)
		return
	}

	user, ws, token, ok := s.store.Authenticate(input.Email, input.Password)
	if !ok {
		// 401 from the login path means bad credentials, not an expired
		// session; the client passes it through to the caller.
		httputil.Unauthorized(w, "Invalid credentials.")
		return
	}

	logger.Info("login", "user_email", user.Email)
	httputil.OK(w, authResponse{AccessToken: token, User: user, Workspace: ws})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name                 string `json:"name"`
		Email                string `json:"email"`
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if !httputil.Decode(w, r, &input) {
		return
	}

	errs := fieldErrors{}
	if len(input.Name) < 2 {
		errs.add("name", "The name must be at least 2 characters.")
	}
	if !validEmail(input.Email) {
		errs.add("email", "The email must be a valid email address.")
	} else if s.store.EmailTaken(input.Email) {
		errs.add("email", "The email has already been taken.")
	}
	if len(input.Password) < 6 {
		errs.add("password", "The password must be at least 6 characters.")
	}
	if input.Password != input.PasswordConfirmation {
		errs.add("password_confirmation", "The password confirmation does not match.")
	}
	if errs.any() {
		httputil.ValidationError(w, errs)
		return
	}

	user, ws, token := s.store.CreateUser(input.Name, input.Email, input.Password)
	logger.Info("register", "user_email", user.Email, "workspace", ws.Name)
	httputil.Created(w, authResponse{AccessToken: token, User: user, Workspace: ws})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, requestUser(r))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.store.RevokeToken(bearerToken(r))
	httputil.NoContent(w)
}
