package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hosteldesk-backend-go/internal/config"
	"hosteldesk-backend-go/internal/mail"
	"hosteldesk-backend-go/internal/services"
	"hosteldesk-backend-go/internal/session"
)

func testServer(t *testing.T) (*Server, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	cfg := config.Config{
		SessionCookieName: "hosteldesk_session",
		SessionTTLSeconds: 3600,
		OverdueDays:       3,
		SessionSecret:     "test-secret",
	}
	srv := NewServer(nil, cfg, store, mail.LogMailer{}, services.NewMetricsHub())
	return srv, store
}

func seedSession(t *testing.T, store *session.MemoryStore, token string, sess *session.Session) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), token, sess))
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: "hosteldesk_session", Value: token}
}

func TestSessionCheckLoggedOut(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session-check", nil)
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["logged_in"])
	assert.NotContains(t, body, "shid")
}

func TestSessionCheckLoggedIn(t *testing.T) {
	srv, store := testServer(t)
	seedSession(t, store, "tok-student", &session.Session{Role: session.RoleStudent, SID: 9, SHID: "ABC1ID009", Name: "Ada"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session-check", nil)
	req.AddCookie(sessionCookie("tok-student"))
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["logged_in"])
	assert.Equal(t, "ABC1ID009", body["shid"])
}

func TestAdminProfileRequiresAdminSession(t *testing.T) {
	srv, store := testServer(t)

	// no cookie at all
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// student session on an admin route
	seedSession(t, store, "tok-student", &session.Session{Role: session.RoleStudent, SHID: "ABC1ID001"})
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/profile", nil)
	req.AddCookie(sessionCookie("tok-student"))
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminProfileReturnsSession(t *testing.T) {
	srv, store := testServer(t)
	seedSession(t, store, "tok-admin", &session.Session{Role: session.RoleAdmin, AID: 1, Name: "Chief", Email: "admin@hosteldesk.local"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/profile", nil)
	req.AddCookie(sessionCookie("tok-admin"))
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Admin session.Session `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Admin.AID)
	assert.Equal(t, "admin@hosteldesk.local", body.Admin.Email)
}

func TestAdminLogoutClearsSession(t *testing.T) {
	srv, store := testServer(t)
	seedSession(t, store, "tok-admin", &session.Session{Role: session.RoleAdmin, AID: 1})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/admin/logout", nil)
	req.AddCookie(sessionCookie("tok-admin"))
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	sess, err := store.Get(context.Background(), "tok-admin")
	require.NoError(t, err)
	assert.Nil(t, sess)

	var expired bool
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "hosteldesk_session" && cookie.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired)
}

func TestMetricsSocketRejectsAnonymous(t *testing.T) {
	srv, store := testServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/metrics", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	seedSession(t, store, "tok-warden", &session.Session{Role: session.RoleWarden, WID: 2})
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/metrics?token=tok-warden", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDataURLPrefix(t *testing.T) {
	assert.Nil(t, dataURLPrefix(nil))

	empty := ""
	assert.Nil(t, dataURLPrefix(&empty))

	raw := "aGVsbG8="
	got := dataURLPrefix(&raw)
	require.NotNil(t, got)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", *got)

	already := "data:image/jpeg;base64,aGVsbG8="
	got = dataURLPrefix(&already)
	require.NotNil(t, got)
	assert.Equal(t, already, *got)
}
