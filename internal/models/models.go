package models

import "time"

type Hostel struct {
	HID           int    `db:"hid" json:"hid"`
	Name          string `db:"name" json:"name"`
	Location      string `db:"location" json:"location"`
	NumberOfRooms int    `db:"number_of_rooms" json:"numberOfRooms"`
}

type Room struct {
	RID        int    `db:"rid" json:"rid"`
	RoomNumber string `db:"room_number" json:"roomNumber"`
	Capacity   int    `db:"capacity" json:"capacity"`
	HID        int    `db:"hid" json:"hid"`
}

type Warden struct {
	WID          int    `db:"wid" json:"wid"`
	Name         string `db:"name" json:"name"`
	Mail         string `db:"mail" json:"mail"`
	Phone        string `db:"phone" json:"phone"`
	PasswordHash string `db:"password_hash" json:"-"`
	HID          int    `db:"hid" json:"hid"`
}

type Student struct {
	SID   int        `db:"sid" json:"sid"`
	Name  string     `db:"name" json:"name"`
	Phone string     `db:"phone" json:"phone"`
	Mail  string     `db:"mail" json:"mail"`
	DOB   *time.Time `db:"dob" json:"dob,omitempty"`
	HID   int        `db:"hid" json:"hid"`
	SHID  string     `db:"shid" json:"shid"`
}

// UserAuth is the login credential for a student, keyed by the
// institution-assigned SHID rather than the internal sid.
type UserAuth struct {
	UID          int    `db:"uid" json:"uid"`
	SHID         string `db:"shid" json:"shid"`
	PasswordHash string `db:"password_hash" json:"-"`
}

type Complaint struct {
	CID           int       `db:"cid" json:"cid"`
	SID           int       `db:"sid" json:"sid"`
	Type          string    `db:"type" json:"type"`
	Description   string    `db:"description" json:"description"`
	ProofImage    *string   `db:"proof_image" json:"proofImage,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	Status        string    `db:"status" json:"status"`
	WithdrawCount int       `db:"withdraw_count" json:"withdrawCount"`
	IsWithdrawn   bool      `db:"is_withdrawn" json:"isWithdrawn"`
}

type Admin struct {
	AID          int       `db:"aid" json:"aid"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Complaint status values. UpdateComplaintStatus accepts free-form strings
// (the UI standardizes them), these are the ones the system itself writes
// or filters on.
const (
	ComplaintStatusPending   = "Pending"
	ComplaintStatusResolved  = "Resolved"
	ComplaintStatusRejected  = "Rejected"
	ComplaintStatusWithdrawn = "Withdrawn"
)

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
	OpenComplaints    int64     `db:"open_complaints"`
}
