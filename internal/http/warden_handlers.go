package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"hosteldesk-backend-go/internal/services"
	"hosteldesk-backend-go/internal/session"
)

type WardenSignupRequest struct {
	Name     string `json:"name"`
	Mail     string `json:"mail"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	HID      int    `json:"hid"`
}

func (s *Server) WardenSignup(w http.ResponseWriter, r *http.Request) {
	var req WardenSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	mail := strings.ToLower(strings.TrimSpace(req.Mail))
	if strings.TrimSpace(req.Name) == "" || mail == "" || strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Name, mail, phone and password are required")
		return
	}
	hash, err := s.Credentials.HashPassword(req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	var wid int
	err = s.DB.Get(&wid, `
INSERT INTO wardens (name, mail, phone, password_hash, hid)
VALUES ($1, $2, $3, $4, $5)
RETURNING wid
`, strings.TrimSpace(req.Name), mail, strings.TrimSpace(req.Phone), hash, req.HID)
	if err != nil {
		WriteServiceError(w, services.MapDBError(err, "Warden not found", "E-mail or phone already registered", "Invalid hid (hostel not found)"))
		return
	}
	WriteJSON(w, http.StatusCreated, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		WID     int    `json:"wid"`
	}{"success", "Warden registered", wid})
}

type WardenLoginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

// WardenLogin deliberately collapses "no such mail" and "wrong password" into
// one response.
func (s *Server) WardenLogin(w http.ResponseWriter, r *http.Request) {
	var req WardenLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	mail := strings.ToLower(strings.TrimSpace(req.Mail))
	if mail == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Mail and password are required")
		return
	}
	row := struct {
		WID          int    `db:"wid"`
		Name         string `db:"name"`
		Phone        string `db:"phone"`
		HID          int    `db:"hid"`
		PasswordHash string `db:"password_hash"`
	}{}
	err := s.DB.Get(&row, `
SELECT wid, name, phone, hid, password_hash FROM wardens WHERE lower(mail) = $1
`, mail)
	if err != nil {
		WriteServiceError(w, credentialLookupError(err))
		return
	}
	if !s.Credentials.VerifyPassword(req.Password, row.PasswordHash) {
		WriteServiceError(w, services.ErrInvalidCredentials())
		return
	}
	sess := &session.Session{
		Role:  session.RoleWarden,
		WID:   row.WID,
		Name:  row.Name,
		Phone: row.Phone,
		HID:   row.HID,
	}
	if err := s.issueSession(w, r, sess); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		Status  string           `json:"status"`
		Message string           `json:"message"`
		Warden  *session.Session `json:"warden"`
	}{"success", "Warden logged in", sess})
}

func (s *Server) WardenLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w, r)
	WriteStatus(w, http.StatusOK, "Logged out")
}

// WardenProfile joins the hostel name onto the session identity so the
// dashboard header needs a single call.
func (s *Server) WardenProfile(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromRequest(r)
	profile := struct {
		WID        int    `db:"wid" json:"wid"`
		Name       string `db:"name" json:"name"`
		Mail       string `db:"mail" json:"mail"`
		Phone      string `db:"phone" json:"phone"`
		HID        int    `db:"hid" json:"hid"`
		HostelName string `db:"hostel_name" json:"hostelName"`
	}{}
	err := s.DB.Get(&profile, `
SELECT w.wid, w.name, w.mail, w.phone, w.hid, h.name AS hostel_name
FROM wardens w
JOIN hostels h ON h.hid = w.hid
WHERE w.wid = $1
`, sess.WID)
	if err != nil {
		WriteServiceError(w, services.MapDBError(err, "Warden not found", "Duplicate value", "Invalid reference"))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"warden": profile})
}
