package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hosteldesk-backend-go/internal/mail"
	"hosteldesk-backend-go/internal/services"
	"hosteldesk-backend-go/internal/session"
)

type StudentCredentialRequest struct {
	SHID     string `json:"shid"`
	Password string `json:"password"`
}

// RegisterStudentCredential creates the login credential for an enrolled
// student. The student row must already exist; one credential per SHID.
func (s *Server) RegisterStudentCredential(w http.ResponseWriter, r *http.Request) {
	var req StudentCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	shid := strings.TrimSpace(req.SHID)
	if shid == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "SHID and password are required")
		return
	}
	if _, err := services.ResolveStudentID(s.DB, shid); err != nil {
		WriteServiceError(w, err)
		return
	}
	var exists bool
	if err := s.DB.Get(&exists, `SELECT EXISTS (SELECT 1 FROM user_auth WHERE shid = $1)`, shid); err != nil {
		WriteServiceError(w, err)
		return
	}
	if exists {
		WriteServiceError(w, services.ErrAlreadyRegistered("Student already registered"))
		return
	}
	hash, err := s.Credentials.HashPassword(req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if _, err := s.DB.Exec(`INSERT INTO user_auth (shid, password_hash) VALUES ($1, $2)`, shid, hash); err != nil {
		WriteServiceError(w, services.MapDBError(err, "Student not found", "Student already registered", "Student not found"))
		return
	}
	WriteStatus(w, http.StatusCreated, "Registration successful")
}

type StudentLoginRequest struct {
	SHID     string `json:"shid"`
	Password string `json:"password"`
}

// StudentLogin distinguishes three failure shapes: unknown SHID, enrolled but
// never registered, and wrong password.
func (s *Server) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req StudentLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	shid := strings.TrimSpace(req.SHID)
	if shid == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "SHID and password are required")
		return
	}
	student := struct {
		SID  int    `db:"sid"`
		Name string `db:"name"`
	}{}
	if err := s.DB.Get(&student, `SELECT sid, name FROM students WHERE shid = $1`, shid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteServiceError(w, services.ErrNotFound("Student not found"))
			return
		}
		WriteServiceError(w, err)
		return
	}
	var hash string
	if err := s.DB.Get(&hash, `SELECT password_hash FROM user_auth WHERE shid = $1`, shid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteServiceError(w, services.ErrNotRegistered("Student not registered. Please sign up first."))
			return
		}
		WriteServiceError(w, err)
		return
	}
	if !s.Credentials.VerifyPassword(req.Password, hash) {
		WriteServiceError(w, services.ErrInvalidCredentials())
		return
	}
	sess := &session.Session{
		Role: session.RoleStudent,
		SID:  student.SID,
		SHID: shid,
		Name: student.Name,
	}
	if err := s.issueSession(w, r, sess); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		SHID    string `json:"shid"`
		Name    string `json:"name"`
	}{"success", "Login successful", shid, student.Name})
}

func (s *Server) StudentLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w, r)
	WriteStatus(w, http.StatusOK, "Logged out")
}

func (s *Server) SessionCheck(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(r)
	if sess == nil || sess.Role != session.RoleStudent {
		WriteJSON(w, http.StatusOK, map[string]interface{}{"logged_in": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"logged_in": true, "shid": sess.SHID})
}

type dashboardComplaint struct {
	CID         int       `db:"cid" json:"cid"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	ProofImage  *string   `db:"proof_image" json:"proofImage,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	Status      string    `db:"status" json:"status"`
}

// StudentDashboard bundles the student's profile, hostel, warden, complaint
// counters and five most recent complaints into one response.
func (s *Server) StudentDashboard(w http.ResponseWriter, r *http.Request) {
	shid := chi.URLParam(r, "shid")
	profile := struct {
		SID        int        `db:"sid" json:"sid"`
		Name       string     `db:"name" json:"name"`
		Phone      string     `db:"phone" json:"phone"`
		Mail       string     `db:"mail" json:"mail"`
		DOB        *time.Time `db:"dob" json:"dob,omitempty"`
		SHID       string     `db:"shid" json:"shid"`
		HID        int        `db:"hid" json:"hid"`
		HostelName string     `db:"hostel_name" json:"hostelName"`
		Location   string     `db:"location" json:"location"`
		WardenName *string    `db:"warden_name" json:"wardenName,omitempty"`
		WardenMail *string    `db:"warden_mail" json:"wardenMail,omitempty"`
	}{}
	err := s.DB.Get(&profile, `
SELECT s.sid, s.name, s.phone, s.mail, s.dob, s.shid, s.hid,
       h.name AS hostel_name, h.location,
       w.name AS warden_name, w.mail AS warden_mail
FROM students s
JOIN hostels h ON h.hid = s.hid
LEFT JOIN wardens w ON w.hid = h.hid
WHERE s.shid = $1
`, shid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteServiceError(w, services.ErrNotFound("Student not found"))
			return
		}
		WriteServiceError(w, err)
		return
	}
	counts := struct {
		Total    int `db:"total" json:"total"`
		Pending  int `db:"pending" json:"pending"`
		Resolved int `db:"resolved" json:"resolved"`
	}{}
	if err := s.DB.Get(&counts, `
SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'Pending') AS pending,
       COUNT(*) FILTER (WHERE status = 'Resolved') AS resolved
FROM complaints WHERE sid = $1
`, profile.SID); err != nil {
		WriteServiceError(w, err)
		return
	}
	recent := []dashboardComplaint{}
	if err := s.DB.Select(&recent, `
SELECT cid, type, description, proof_image, created_at, status
FROM complaints WHERE sid = $1
ORDER BY created_at DESC
LIMIT 5
`, profile.SID); err != nil {
		WriteServiceError(w, err)
		return
	}
	for i := range recent {
		recent[i].ProofImage = dataURLPrefix(recent[i].ProofImage)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"student":          profile,
		"complaint_counts": counts,
		"recent":           recent,
	})
}

type ComplaintCreateRequest struct {
	SHID        string `json:"shid"`
	Type        string `json:"type"`
	Description string `json:"description"`
	ProofImage  string `json:"proof_image"`
}

func (s *Server) AddComplaint(w http.ResponseWriter, r *http.Request) {
	var req ComplaintCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.SHID) == "" || strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Description) == "" {
		WriteError(w, http.StatusBadRequest, "SHID, type and description are required")
		return
	}
	cid, err := services.CreateComplaint(s.DB, strings.TrimSpace(req.SHID), strings.TrimSpace(req.Type), req.Description, req.ProofImage)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		CID     int    `json:"cid"`
	}{"success", "Complaint registered", cid})
}

type studentComplaintRow struct {
	CID           int       `db:"cid" json:"cid"`
	Type          string    `db:"type" json:"type"`
	Description   string    `db:"description" json:"description"`
	ProofImage    *string   `db:"proof_image" json:"proofImage,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	Status        string    `db:"status" json:"status"`
	WithdrawCount int       `db:"withdraw_count" json:"withdrawCount"`
	IsWithdrawn   bool      `db:"is_withdrawn" json:"isWithdrawn"`
}

func (s *Server) FetchComplaints(w http.ResponseWriter, r *http.Request) {
	shid := chi.URLParam(r, "shid")
	sid, err := services.ResolveStudentID(s.DB, shid)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	rows := []studentComplaintRow{}
	if err := s.DB.Select(&rows, `
SELECT cid, type, description, proof_image, created_at, status, withdraw_count, is_withdrawn
FROM complaints WHERE sid = $1
ORDER BY created_at DESC
`, sid); err != nil {
		WriteServiceError(w, err)
		return
	}
	for i := range rows {
		rows[i].ProofImage = dataURLPrefix(rows[i].ProofImage)
	}
	WriteJSON(w, http.StatusOK, map[string][]studentComplaintRow{"complaints": rows})
}

type ComplaintWithdrawRequest struct {
	SHID string `json:"shid"`
	CID  int    `json:"cid"`
}

func (s *Server) WithdrawComplaint(w http.ResponseWriter, r *http.Request) {
	var req ComplaintWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.SHID) == "" || req.CID <= 0 {
		WriteError(w, http.StatusBadRequest, "SHID and cid are required")
		return
	}
	if err := services.WithdrawComplaint(s.DB, strings.TrimSpace(req.SHID), req.CID); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteStatus(w, http.StatusOK, "Complaint withdrawn")
}

func (s *Server) ComplaintTrend(w http.ResponseWriter, r *http.Request) {
	shid := chi.URLParam(r, "shid")
	days := parseIntQuery(r.URL.Query().Get("days"), 7)
	points, err := services.ComplaintTrend(s.DB, shid, days)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		SHID  string                `json:"shid"`
		Days  int                   `json:"days"`
		Trend []services.TrendPoint `json:"trend"`
	}{shid, days, points})
}

type ForgotPasswordRequest struct {
	SHID string `json:"shid"`
}

// ForgotPassword mails a reset link carrying a short-lived signed token. Only
// registered students get one.
func (s *Server) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	shid := strings.TrimSpace(req.SHID)
	if shid == "" {
		WriteError(w, http.StatusBadRequest, "SHID is required")
		return
	}
	target := struct {
		Name string `db:"name"`
		Mail string `db:"mail"`
	}{}
	err := s.DB.Get(&target, `
SELECT s.name, s.mail
FROM students s
JOIN user_auth u ON u.shid = s.shid
WHERE s.shid = $1
`, shid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteServiceError(w, services.ErrNotFound("No registered account for that SHID"))
			return
		}
		WriteServiceError(w, err)
		return
	}
	token, err := s.ResetTokens.CreateResetToken(shid)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	link := strings.TrimRight(s.Config.ResetLinkBaseURL, "/") + "/reset-password/" + token
	body := fmt.Sprintf("Hi %s,\n\nA password reset was requested for your hostel account (%s).\n"+
		"Use the link below within %d minutes:\n\n%s\n\nIf you did not ask for this, ignore this mail.\n",
		target.Name, shid, int(s.ResetTokens.TTL.Minutes()), link)
	if err := s.Mailer.Send(mail.Message{To: target.Mail, Subject: "Password reset", Body: body}); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteStatus(w, http.StatusOK, "Reset link sent to registered e-mail")
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.NewPassword) == "" {
		WriteError(w, http.StatusBadRequest, "Token and new password are required")
		return
	}
	shid, err := s.ResetTokens.ParseResetToken(req.Token)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	hash, err := s.Credentials.HashPassword(req.NewPassword)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	res, err := s.DB.Exec(`UPDATE user_auth SET password_hash = $2 WHERE shid = $1`, shid, hash)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		WriteServiceError(w, services.ErrNotFound("No registered account for that SHID"))
		return
	}
	WriteStatus(w, http.StatusOK, "Password updated")
}

// dataURLPrefix makes stored base64 proof images directly renderable in an
// <img> tag.
func dataURLPrefix(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	if strings.HasPrefix(*raw, "data:") {
		return raw
	}
	prefixed := "data:image/png;base64," + *raw
	return &prefixed
}
