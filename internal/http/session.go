package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/backend"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

const sessionCookie = "fintrack_session"

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess storage.Session)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// requireSession loads the session named by the cookie. Requests without a
// live session are sent to the login page.
func (s *Server) requireSession(next sessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.currentSession(r)
		if !ok {
			s.toLogin(w, r)
			return
		}
		if (backend.Session{Token: sess.Token}).Expired(time.Now()) {
			s.endSession(w, r, sess)
			s.toLogin(w, r)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		next(w, r, sess)
	})
}

func (s *Server) currentSession(r *http.Request) (storage.Session, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return storage.Session{}, false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return storage.Session{}, false
	}
	sess, err := s.sessions.GetSession(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, storage.ErrSessionNotFound) {
			s.logger.ErrorContext(r.Context(), "Session lookup failed",
				log.FieldComponent, log.ComponentStorage,
				log.FieldError, err)
		}
		return storage.Session{}, false
	}
	return sess, true
}

// startSession stores a new session for a freshly issued token and sets the
// cookie. username is used when the token carries no subject.
func (s *Server) startSession(ctx context.Context, w http.ResponseWriter, token backend.Session, username string) (storage.Session, error) {
	now := time.Now().UTC()
	sess := storage.Session{
		ID:        uuid.NewString(),
		Token:     token.Token,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if claims, err := token.Claims(); err == nil {
		if claims.Username != "" {
			sess.Username = claims.Username
		}
		if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(sess.ExpiresAt) {
			sess.ExpiresAt = claims.ExpiresAt.UTC()
		}
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return storage.Session{}, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// endSession forgets the session server-side and clears the cookie.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	if sess.ID != "" {
		if err := s.sessions.DeleteSession(r.Context(), sess.ID); err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
			s.logger.WarnContext(r.Context(), "Failed to delete session", log.FieldError, err)
		}
		s.finance.Forget(backendSession(sess))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) toLogin(w http.ResponseWriter, r *http.Request) {
	if isHTMX(r) {
		UnauthorizedResponse().Write(w)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func backendSession(sess storage.Session) backend.Session {
	return backend.Session{Token: sess.Token}
}
