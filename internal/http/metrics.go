package httpapi

import (
	"net/http"

	"github.com/gorilla/websocket"

	"hosteldesk-backend-go/internal/services"
	"hosteldesk-backend-go/internal/session"
)

type MetricsHistoryResponse struct {
	Items []services.MetricSample `json:"items"`
}

func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r.URL.Query().Get("limit"), 120)
	if limit > 500 {
		limit = 500
	}
	items, err := services.LatestMetrics(s.DB, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, MetricsHistoryResponse{Items: items})
}

// MetricsSocket streams metric samples to admin dashboards. Browsers cannot
// set headers on websocket upgrades, so the session token rides in the query
// string instead of the cookie.
func (s *Server) MetricsSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		if cookie, err := r.Cookie(s.Config.SessionCookieName); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		WriteError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	sess, err := s.Sessions.Get(r.Context(), token)
	if err != nil || sess == nil || sess.Role != session.RoleAdmin {
		WriteError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.MetricsHub.Add(conn)
	defer func() {
		s.MetricsHub.Remove(conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
