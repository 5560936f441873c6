package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"hosteldesk-backend-go/internal/models"
)

// MaxWithdrawals caps how often a single complaint can be withdrawn.
const MaxWithdrawals = 3

// DefaultOverdueDays is the age threshold after which a pending complaint
// counts as overdue, unless overridden by config or query parameter.
const DefaultOverdueDays = 3

// ResolveStudentID maps the institution-assigned SHID to the internal sid.
func ResolveStudentID(db *sqlx.DB, shid string) (int, error) {
	var sid int
	if err := db.Get(&sid, `SELECT sid FROM students WHERE shid = $1`, shid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound("Student not found")
		}
		return 0, ErrInternal()
	}
	return sid, nil
}

// CreateComplaint files a new complaint for the student behind shid. The row
// starts Pending with a zeroed withdrawal counter.
func CreateComplaint(db *sqlx.DB, shid, complaintType, description, proofImage string) (int, error) {
	sid, err := ResolveStudentID(db, shid)
	if err != nil {
		return 0, err
	}
	var proof interface{}
	if proofImage != "" {
		proof = proofImage
	}
	var cid int
	err = db.Get(&cid, `
INSERT INTO complaints (sid, type, description, proof_image, status, withdraw_count, is_withdrawn)
VALUES ($1, $2, $3, $4, $5, 0, FALSE)
RETURNING cid
`, sid, complaintType, description, proof, models.ComplaintStatusPending)
	if err != nil {
		return 0, MapDBError(err, "Student not found", "Duplicate complaint", "Invalid student reference")
	}
	return cid, nil
}

// CanWithdraw is the withdrawal gate: a withdrawn complaint stays withdrawn,
// and the counter never passes MaxWithdrawals.
func CanWithdraw(withdrawCount int, isWithdrawn bool) error {
	if isWithdrawn {
		return ErrAlreadyWithdrawn()
	}
	if withdrawCount >= MaxWithdrawals {
		return ErrLimitExceeded()
	}
	return nil
}

// WithdrawComplaint withdraws cid on behalf of the student behind shid. The
// guard conditions live in the UPDATE itself so concurrent callers cannot
// both pass the counter check; a zero-row result is re-read once to decide
// which taxonomy error to return.
func WithdrawComplaint(db *sqlx.DB, shid string, cid int) error {
	sid, err := ResolveStudentID(db, shid)
	if err != nil {
		return err
	}
	res, err := db.Exec(`
UPDATE complaints
SET status = $3,
    withdraw_count = withdraw_count + 1,
    is_withdrawn = TRUE
WHERE cid = $1 AND sid = $2
  AND NOT is_withdrawn
  AND withdraw_count < $4
`, cid, sid, models.ComplaintStatusWithdrawn, MaxWithdrawals)
	if err != nil {
		return ErrInternal()
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return ErrInternal()
	}
	if rows > 0 {
		return nil
	}
	state := struct {
		WithdrawCount int  `db:"withdraw_count"`
		IsWithdrawn   bool `db:"is_withdrawn"`
	}{}
	if err := db.Get(&state, `
SELECT withdraw_count, is_withdrawn FROM complaints WHERE cid = $1 AND sid = $2
`, cid, sid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound("Complaint not found")
		}
		return ErrInternal()
	}
	if gateErr := CanWithdraw(state.WithdrawCount, state.IsWithdrawn); gateErr != nil {
		return gateErr
	}
	return ErrInternal()
}

// UpdateComplaintStatus overwrites the status of cid. Status strings are
// free-form; the UI standardizes values. A withdrawn complaint is terminal
// and cannot be re-statused.
func UpdateComplaintStatus(db *sqlx.DB, cid int, status string) error {
	res, err := db.Exec(`
UPDATE complaints SET status = $2 WHERE cid = $1 AND NOT is_withdrawn
`, cid, status)
	if err != nil {
		return ErrInternal()
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return ErrInternal()
	}
	if rows > 0 {
		return nil
	}
	var withdrawn bool
	if err := db.Get(&withdrawn, `SELECT is_withdrawn FROM complaints WHERE cid = $1`, cid); err != nil {
		return ErrNotFound("Complaint not found")
	}
	if withdrawn {
		return ErrAlreadyWithdrawn()
	}
	return ErrNotFound("Complaint not found")
}

// AgeDays is (now - createdAt) in seconds over 86400. Age is always derived,
// never stored.
func AgeDays(createdAt, now time.Time) float64 {
	return now.Sub(createdAt).Seconds() / 86400
}

// IsOverdue classifies a complaint: only pending complaints older than the
// threshold count.
func IsOverdue(status string, ageDays float64, thresholdDays int) bool {
	return status == models.ComplaintStatusPending && ageDays > float64(thresholdDays)
}

type ComplaintListItem struct {
	models.Complaint
	AgeDays     float64 `db:"age_days" json:"ageDays"`
	StudentName string  `db:"student_name" json:"studentName"`
	SHID        string  `db:"shid" json:"shid"`
	HID         int     `db:"hid" json:"hid"`
	HostelName  string  `db:"hostel_name" json:"hostelName"`
	WID         *int    `db:"wid" json:"wid,omitempty"`
	WardenName  *string `db:"warden_name" json:"wardenName,omitempty"`
}

// ListComplaints returns every complaint with hostel and warden context plus
// its derived age in days.
func ListComplaints(db *sqlx.DB) ([]ComplaintListItem, error) {
	items := []ComplaintListItem{}
	err := db.Select(&items, `
SELECT c.cid, c.sid, c.type, c.description, c.proof_image, c.created_at,
       c.status, c.withdraw_count, c.is_withdrawn,
       EXTRACT(EPOCH FROM (now() - c.created_at))/86400 AS age_days,
       s.name AS student_name, s.shid,
       h.hid, h.name AS hostel_name,
       w.wid, w.name AS warden_name
FROM complaints c
JOIN students s ON s.sid = c.sid
JOIN hostels h ON h.hid = s.hid
LEFT JOIN wardens w ON w.hid = h.hid
ORDER BY c.cid DESC
`)
	if err != nil {
		return nil, ErrInternal()
	}
	return items, nil
}

type HostelComplaintSummary struct {
	HID        int    `db:"hid" json:"hid"`
	HostelName string `db:"hostel_name" json:"hostelName"`
	Total      int    `db:"total" json:"total"`
	Pending    int    `db:"pending" json:"pending"`
	Resolved   int    `db:"resolved" json:"resolved"`
	Overdue    int    `db:"overdue" json:"overdue"`
}

// ComplaintSummary aggregates total/pending/resolved/overdue counts per
// hostel in a single grouped query.
func ComplaintSummary(db *sqlx.DB, overdueDays int) ([]HostelComplaintSummary, error) {
	if overdueDays <= 0 {
		overdueDays = DefaultOverdueDays
	}
	rows := []HostelComplaintSummary{}
	err := db.Select(&rows, `
SELECT h.hid, h.name AS hostel_name,
       COUNT(*) AS total,
       COUNT(*) FILTER (WHERE c.status = 'Pending') AS pending,
       COUNT(*) FILTER (WHERE c.status = 'Resolved') AS resolved,
       COUNT(*) FILTER (WHERE c.status = 'Pending'
                          AND now() - c.created_at > make_interval(days => $1)) AS overdue
FROM complaints c
JOIN students s ON s.sid = c.sid
JOIN hostels h ON h.hid = s.hid
GROUP BY h.hid, h.name
ORDER BY h.hid
`, overdueDays)
	if err != nil {
		return nil, ErrInternal()
	}
	return rows, nil
}

type OverdueComplaint struct {
	CID         int       `db:"cid" json:"cid"`
	Type        string    `db:"type" json:"type"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	StudentName string    `db:"student_name" json:"studentName"`
	HostelName  string    `db:"hostel_name" json:"hostelName"`
	WID         *int      `db:"wid" json:"wid,omitempty"`
	WardenName  *string   `db:"warden_name" json:"wardenName,omitempty"`
	AgeDays     float64   `db:"age_days" json:"ageDays"`
}

// OverdueComplaints lists pending complaints older than days, newest debt
// first, with the responsible warden attached.
func OverdueComplaints(db *sqlx.DB, days int) ([]OverdueComplaint, error) {
	if days <= 0 {
		days = DefaultOverdueDays
	}
	rows := []OverdueComplaint{}
	err := db.Select(&rows, `
SELECT c.cid, c.type, c.created_at,
       s.name AS student_name,
       h.name AS hostel_name,
       w.wid, w.name AS warden_name,
       EXTRACT(EPOCH FROM (now() - c.created_at))/86400 AS age_days
FROM complaints c
JOIN students s ON s.sid = c.sid
JOIN hostels h ON h.hid = s.hid
LEFT JOIN wardens w ON w.hid = h.hid
WHERE c.status = 'Pending'
  AND now() - c.created_at > make_interval(days => $1)
ORDER BY age_days DESC
`, days)
	if err != nil {
		return nil, ErrInternal()
	}
	return rows, nil
}

type TrendPoint struct {
	Day       string `db:"day" json:"day"`
	Total     int    `db:"total" json:"total"`
	Withdrawn int    `db:"withdrawn" json:"withdrawn"`
}

// ComplaintTrend returns per-day complaint and withdrawal counts for the
// student over the trailing window, including zero days.
func ComplaintTrend(db *sqlx.DB, shid string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 7
	}
	sid, err := ResolveStudentID(db, shid)
	if err != nil {
		return nil, err
	}
	rows := []TrendPoint{}
	err = db.Select(&rows, `
SELECT to_char(d::date, 'YYYY-MM-DD') AS day,
       COUNT(c.cid) AS total,
       COUNT(*) FILTER (WHERE c.is_withdrawn) AS withdrawn
FROM generate_series(CURRENT_DATE - ($1 - 1), CURRENT_DATE, '1 day') AS d
LEFT JOIN complaints c ON date_trunc('day', c.created_at) = d::date AND c.sid = $2
GROUP BY day
ORDER BY day
`, days, sid)
	if err != nil {
		return nil, ErrInternal()
	}
	return rows, nil
}
