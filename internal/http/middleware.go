package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"hosteldesk-backend-go/internal/services"
	"hosteldesk-backend-go/internal/session"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)
		if recorder.status == 0 {
			recorder.status = http.StatusOK
		}
		log.Printf("%s %s %d %dB %s", r.Method, r.URL.Path, recorder.status, recorder.bytes, time.Since(start))
	})
}

type contextKey string

const ctxSession contextKey = "session"

// issueSession writes the session to the store under a fresh token and sets
// the cookie carrying it.
func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	token := uuid.NewString()
	if err := s.Sessions.Set(r.Context(), token, sess); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.Config.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.Config.SessionTTLSeconds),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// currentSession resolves the cookie token against the store. Missing cookie,
// unknown token and store errors all read as "no session".
func (s *Server) currentSession(r *http.Request) *session.Session {
	cookie, err := r.Cookie(s.Config.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	sess, err := s.Sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		log.Printf("session lookup: %v", err)
		return nil
	}
	return sess
}

func (s *Server) clearSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.Config.SessionCookieName); err == nil && cookie.Value != "" {
		_ = s.Sessions.Clear(r.Context(), cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.Config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireRole rejects requests without a live session of the expected role
// and stashes the session in the request context.
func (s *Server) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := s.currentSession(r)
			if sess == nil || sess.Role != role {
				WriteServiceError(w, services.ErrUnauthenticated())
				return
			}
			ctx := context.WithValue(r.Context(), ctxSession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFromRequest(r *http.Request) *session.Session {
	if sess, ok := r.Context().Value(ctxSession).(*session.Session); ok {
		return sess
	}
	return nil
}
