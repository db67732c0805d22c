package http

import (
	"errors"
	"net/http"

	"fintrack/internal/backend"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// authPage is the model of the login and register forms. Active stays
// empty so the navigation is hidden.
type authPage struct {
	Title    string
	Active   string
	Error    string
	Notice   string
	Username string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentSession(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := authPage{Title: "Log in"}
	if r.URL.Query().Get("registered") == "1" {
		data.Notice = "Registration successful! Please log in."
	}
	s.render(w, r, http.StatusOK, "login.html", data)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.render(w, r, http.StatusBadRequest, "login.html", authPage{Title: "Log in", Error: "Invalid request"})
		return
	}
	username, password := p.Get("username"), p.Get("password")
	if username == "" || password == "" {
		s.render(w, r, http.StatusUnprocessableEntity, "login.html",
			authPage{Title: "Log in", Error: "Username and password are required", Username: username})
		return
	}

	token, err := s.finance.API().Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) {
			s.logger.InfoContext(r.Context(), "Login failed",
				log.FieldUsername, username, log.FieldOperation, log.OpLogin)
			s.render(w, r, http.StatusUnauthorized, "login.html",
				authPage{Title: "Log in", Error: "Login failed: incorrect username or password", Username: username})
			return
		}
		s.structured.LogError(r.Context(), "Login request failed", err, log.ComponentAuth, log.OpLogin,
			log.NewFields().WithUser(username))
		s.render(w, r, http.StatusBadGateway, "login.html",
			authPage{Title: "Log in", Error: "The finance service is unavailable. Please try again.", Username: username})
		return
	}

	sess, err := s.startSession(r.Context(), w, token, username)
	if err != nil {
		s.structured.LogError(r.Context(), "Failed to store session", err, log.ComponentStorage, log.OpCreate, nil)
		s.render(w, r, http.StatusInternalServerError, "login.html", authPage{Title: "Log in", Error: "Could not start a session"})
		return
	}
	s.logger.InfoContext(r.Context(), "User logged in",
		log.FieldUsername, sess.Username, log.FieldOperation, log.OpLogin)
	s.redirect(w, r, "/")
}

func (s *Server) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.html", authPage{Title: "Register"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.render(w, r, http.StatusBadRequest, "register.html", authPage{Title: "Register", Error: "Invalid request"})
		return
	}
	username, password := p.Get("username"), p.Get("password")
	page := authPage{Title: "Register", Username: username}
	switch {
	case username == "" || password == "":
		page.Error = "Username and password are required"
	case p.Get("password_confirm") != "" && p.Get("password_confirm") != password:
		page.Error = "Passwords do not match"
	}
	if page.Error != "" {
		s.render(w, r, http.StatusUnprocessableEntity, "register.html", page)
		return
	}

	if err := s.finance.API().Register(r.Context(), username, password); err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			page.Error = "Registration failed: " + apiErr.Detail
			s.render(w, r, http.StatusUnprocessableEntity, "register.html", page)
			return
		}
		s.structured.LogError(r.Context(), "Registration request failed", err, log.ComponentAuth, log.OpCreate,
			log.NewFields().WithUser(username))
		page.Error = "The finance service is unavailable. Please try again."
		s.render(w, r, http.StatusBadGateway, "register.html", page)
		return
	}
	s.logger.InfoContext(r.Context(), "User registered", log.FieldUsername, username)
	s.redirect(w, r, "/login?registered=1")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.currentSession(r)
	if !ok {
		sess = storage.Session{}
	}
	s.endSession(w, r, sess)
	if ok {
		s.logger.InfoContext(r.Context(), "User logged out",
			log.FieldUsername, sess.Username, log.FieldOperation, log.OpLogout)
	}
	s.redirect(w, r, "/login")
}

// redirect navigates the whole page, through HX-Redirect for htmx requests.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		NewHTMXResponse().Redirect(url).Write(w)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
