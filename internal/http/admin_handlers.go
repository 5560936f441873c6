package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hosteldesk-backend-go/internal/models"
	"hosteldesk-backend-go/internal/services"
	"hosteldesk-backend-go/internal/session"
)

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	row := struct {
		AID          int    `db:"aid"`
		Name         string `db:"name"`
		Email        string `db:"email"`
		PasswordHash string `db:"password_hash"`
	}{}
	if err := s.DB.Get(&row, `
SELECT aid, name, email, password_hash FROM admins WHERE lower(email) = $1
`, email); err != nil {
		WriteServiceError(w, credentialLookupError(err))
		return
	}
	if !s.Credentials.VerifyPassword(req.Password, row.PasswordHash) {
		WriteServiceError(w, services.ErrInvalidCredentials())
		return
	}
	sess := &session.Session{
		Role:  session.RoleAdmin,
		AID:   row.AID,
		Name:  row.Name,
		Email: row.Email,
	}
	if err := s.issueSession(w, r, sess); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		Status  string           `json:"status"`
		Message string           `json:"message"`
		Admin   *session.Session `json:"admin"`
	}{"success", "Admin logged in", sess})
}

func (s *Server) AdminLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSession(w, r)
	WriteStatus(w, http.StatusOK, "Logged out")
}

func (s *Server) AdminProfile(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromRequest(r)
	WriteJSON(w, http.StatusOK, map[string]*session.Session{"admin": sess})
}

type wardenRow struct {
	WID        int    `db:"wid" json:"wid"`
	Name       string `db:"name" json:"name"`
	Mail       string `db:"mail" json:"mail"`
	Phone      string `db:"phone" json:"phone"`
	HID        int    `db:"hid" json:"hid"`
	HostelName string `db:"hostel_name" json:"hostelName"`
}

type studentRow struct {
	SID        int        `db:"sid" json:"sid"`
	Name       string     `db:"name" json:"name"`
	Phone      string     `db:"phone" json:"phone"`
	Mail       string     `db:"mail" json:"mail"`
	DOB        *time.Time `db:"dob" json:"dob,omitempty"`
	HID        int        `db:"hid" json:"hid"`
	SHID       string     `db:"shid" json:"shid"`
	HostelName string     `db:"hostel_name" json:"hostelName"`
}

type complaintAdminRow struct {
	CID           int       `db:"cid" json:"cid"`
	SID           int       `db:"sid" json:"sid"`
	Type          string    `db:"type" json:"type"`
	Description   string    `db:"description" json:"description"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	Status        string    `db:"status" json:"status"`
	WithdrawCount int       `db:"withdraw_count" json:"withdrawCount"`
	IsWithdrawn   bool      `db:"is_withdrawn" json:"isWithdrawn"`
	SHID          string    `db:"shid" json:"shid"`
	StudentName   string    `db:"student_name" json:"studentName"`
}

type AnalyticsResponse struct {
	Hostels    []models.Hostel     `json:"hostels"`
	Rooms      []models.Room       `json:"rooms"`
	Wardens    []wardenRow         `json:"wardens"`
	Students   []studentRow        `json:"students"`
	Complaints []complaintAdminRow `json:"complaints"`
	Meta       struct {
		GeneratedAt    time.Time `json:"generatedAt"`
		StudentCount   int       `json:"studentCount"`
		ComplaintsOpen int       `json:"complaintsOpen"`
	} `json:"meta"`
}

// AdminAnalytics returns the full dashboard snapshot in one response.
func (s *Server) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	resp := AnalyticsResponse{
		Hostels:    []models.Hostel{},
		Rooms:      []models.Room{},
		Wardens:    []wardenRow{},
		Students:   []studentRow{},
		Complaints: []complaintAdminRow{},
	}
	if err := s.DB.Select(&resp.Hostels, `SELECT hid, name, location, number_of_rooms FROM hostels ORDER BY hid`); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.DB.Select(&resp.Rooms, `SELECT rid, room_number, capacity, hid FROM rooms ORDER BY rid`); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.DB.Select(&resp.Wardens, `
SELECT w.wid, w.name, w.mail, w.phone, w.hid, h.name AS hostel_name
FROM wardens w
JOIN hostels h ON h.hid = w.hid
ORDER BY w.wid
`); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.DB.Select(&resp.Students, `
SELECT s.sid, s.name, s.phone, s.mail, s.dob, s.hid, s.shid, h.name AS hostel_name
FROM students s
JOIN hostels h ON h.hid = s.hid
ORDER BY s.sid
`); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.DB.Select(&resp.Complaints, `
SELECT c.cid, c.sid, c.type, c.description, c.created_at, c.status,
       c.withdraw_count, c.is_withdrawn, s.shid, s.name AS student_name
FROM complaints c
JOIN students s ON s.sid = c.sid
ORDER BY c.cid DESC
`); err != nil {
		WriteServiceError(w, err)
		return
	}
	resp.Meta.GeneratedAt = time.Now().UTC()
	if err := s.DB.Get(&resp.Meta.StudentCount, `SELECT COUNT(*) FROM students`); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := s.DB.Get(&resp.Meta.ComplaintsOpen, `SELECT COUNT(*) FROM complaints WHERE status = 'Pending'`); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) ListStudents(w http.ResponseWriter, r *http.Request) {
	students := []studentRow{}
	if err := s.DB.Select(&students, `
SELECT s.sid, s.name, s.phone, s.mail, s.dob, s.hid, s.shid, h.name AS hostel_name
FROM students s
JOIN hostels h ON h.hid = s.hid
ORDER BY s.sid
`); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]studentRow{"students": students})
}

type StudentUpdateRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Mail  *string `json:"mail"`
	DOB   *string `json:"dob"`
	HID   *int    `json:"hid"`
}

func (s *Server) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	sid, err := strconv.Atoi(chi.URLParam(r, "sid"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid student id")
		return
	}
	var req StudentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch := services.Patch{}
	patch.SetString("name", req.Name)
	patch.SetString("phone", req.Phone)
	patch.SetString("mail", req.Mail)
	if dob := parseDate(req.DOB); dob != nil {
		patch.Set("dob", *dob)
	}
	patch.SetInt("hid", req.HID)
	query, args, err := patch.Build("students", "sid", sid)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		WriteServiceError(w, services.MapDBError(err, "Student not found", "Duplicate value", "Invalid hid (hostel not found)"))
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		WriteServiceError(w, services.ErrNotFound("Student not found"))
		return
	}
	WriteStatus(w, http.StatusOK, "Student updated")
}

// DeleteStudent removes the student and its login credential in one
// transaction so no orphaned credential can survive.
func (s *Server) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	sid, err := strconv.Atoi(chi.URLParam(r, "sid"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid student id")
		return
	}
	tx, err := s.DB.Beginx()
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	defer func() { _ = tx.Rollback() }()

	if err := services.DeleteStudent(tx, sid); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := tx.Commit(); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteStatus(w, http.StatusOK, "Student deleted")
}

func (s *Server) ListWardens(w http.ResponseWriter, r *http.Request) {
	wardens := []wardenRow{}
	if err := s.DB.Select(&wardens, `
SELECT w.wid, w.name, w.mail, w.phone, w.hid, h.name AS hostel_name
FROM wardens w
JOIN hostels h ON h.hid = w.hid
ORDER BY w.wid
`); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]wardenRow{"wardens": wardens})
}

type WardenCreateRequest struct {
	Name  string `json:"name"`
	Mail  string `json:"mail"`
	Phone string `json:"phone"`
	HID   int    `json:"hid"`
}

// CreateWarden inserts a warden with an auto-derived initial password. The
// plaintext is returned exactly once so the admin can hand it over; only the
// hash is stored.
func (s *Server) CreateWarden(w http.ResponseWriter, r *http.Request) {
	var req WardenCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Mail) == "" || strings.TrimSpace(req.Phone) == "" {
		WriteError(w, http.StatusBadRequest, "Name, mail and phone are required")
		return
	}
	defaultPassword := services.DefaultWardenPassword(req.Name)
	hash, err := s.Credentials.HashPassword(defaultPassword)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	var wid int
	err = s.DB.Get(&wid, `
INSERT INTO wardens (name, mail, phone, password_hash, hid)
VALUES ($1, $2, $3, $4, $5)
RETURNING wid
`, strings.TrimSpace(req.Name), strings.TrimSpace(req.Mail), strings.TrimSpace(req.Phone), hash, req.HID)
	if err != nil {
		WriteServiceError(w, services.MapDBError(err, "Warden not found", "Duplicate e-mail or phone", "Invalid hid (hostel not found)"))
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		Status          string `json:"status"`
		Message         string `json:"message"`
		WID             int    `json:"wid"`
		DefaultPassword string `json:"default_password"`
	}{"success", "Warden added", wid, defaultPassword})
}

type WardenUpdateRequest struct {
	Name  *string `json:"name"`
	Mail  *string `json:"mail"`
	Phone *string `json:"phone"`
	HID   *int    `json:"hid"`
}

func (s *Server) UpdateWarden(w http.ResponseWriter, r *http.Request) {
	wid, err := strconv.Atoi(chi.URLParam(r, "wid"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid warden id")
		return
	}
	var req WardenUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch := services.Patch{}
	patch.SetString("name", req.Name)
	patch.SetString("mail", req.Mail)
	patch.SetString("phone", req.Phone)
	patch.SetInt("hid", req.HID)
	query, args, err := patch.Build("wardens", "wid", wid)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	res, err := s.DB.Exec(query, args...)
	if err != nil {
		WriteServiceError(w, services.MapDBError(err, "Warden not found", "Duplicate e-mail or phone", "Invalid hid (hostel not found)"))
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		WriteServiceError(w, services.ErrNotFound("Warden not found"))
		return
	}
	WriteStatus(w, http.StatusOK, "Warden updated")
}

func (s *Server) DeleteWarden(w http.ResponseWriter, r *http.Request) {
	wid, err := strconv.Atoi(chi.URLParam(r, "wid"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid warden id")
		return
	}
	res, err := s.DB.Exec(`DELETE FROM wardens WHERE wid = $1`, wid)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		WriteServiceError(w, services.ErrNotFound("Warden not found"))
		return
	}
	WriteStatus(w, http.StatusOK, "Warden deleted")
}

func (s *Server) AdminComplaints(w http.ResponseWriter, r *http.Request) {
	items, err := services.ListComplaints(s.DB)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string][]services.ComplaintListItem{"complaints": items})
}

func (s *Server) ComplaintSummary(w http.ResponseWriter, r *http.Request) {
	days := parseIntQuery(r.URL.Query().Get("days"), s.Config.OverdueDays)
	summary, err := services.ComplaintSummary(s.DB, days)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		Summary       []services.HostelComplaintSummary `json:"summary"`
		ThresholdDays int                               `json:"overdue_threshold_days"`
	}{summary, days})
}

func (s *Server) OverdueComplaints(w http.ResponseWriter, r *http.Request) {
	days := parseIntQuery(r.URL.Query().Get("days"), s.Config.OverdueDays)
	overdue, err := services.OverdueComplaints(s.DB, days)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		Overdue       []services.OverdueComplaint `json:"overdue"`
		ThresholdDays int                         `json:"threshold_days"`
	}{overdue, days})
}

type ComplaintStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateComplaintStatus(w http.ResponseWriter, r *http.Request) {
	cid, err := strconv.Atoi(chi.URLParam(r, "cid"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}
	var req ComplaintStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		WriteError(w, http.StatusBadRequest, "Status is required")
		return
	}
	if err := services.UpdateComplaintStatus(s.DB, cid, status); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		Status    string `json:"status"`
		CID       int    `json:"cid"`
		NewStatus string `json:"new_status"`
	}{"success", cid, status})
}

type AdminCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req AdminCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	hash, err := s.Credentials.HashPassword(req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	var aid int
	err = s.DB.Get(&aid, `
INSERT INTO admins (name, email, password_hash)
VALUES ($1, $2, $3)
RETURNING aid
`, strings.TrimSpace(req.Name), email, hash)
	if err != nil {
		WriteServiceError(w, services.MapDBError(err, "Admin not found", "Email already exists", "Invalid reference"))
		return
	}
	WriteJSON(w, http.StatusCreated, struct {
		Status string `json:"status"`
		AID    int    `json:"aid"`
	}{"success", aid})
}

type AdminUpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateAdminSelf patches the logged-in admin's row and keeps the session
// object in sync with name/email changes.
func (s *Server) UpdateAdminSelf(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromRequest(r)
	var req AdminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch := services.Patch{}
	patch.SetString("name", req.Name)
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		patch.Set("email", strings.ToLower(strings.TrimSpace(*req.Email)))
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hash, err := s.Credentials.HashPassword(*req.Password)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		patch.Set("password_hash", hash)
	}
	query, args, err := patch.Build("admins", "aid", sess.AID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	if _, err := s.DB.Exec(query, args...); err != nil {
		WriteServiceError(w, services.MapDBError(err, "Admin not found", "E-mail already in use", "Invalid reference"))
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		sess.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		sess.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if cookie, cerr := r.Cookie(s.Config.SessionCookieName); cerr == nil && cookie.Value != "" {
		_ = s.Sessions.Set(r.Context(), cookie.Value, sess)
	}
	WriteStatus(w, http.StatusOK, "Profile updated")
}

func parseDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseIntQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
