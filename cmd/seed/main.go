// Command seed fills an empty database with demo hostels, wardens, students
// and complaints for local development.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"hosteldesk-backend-go/internal/config"
	"hosteldesk-backend-go/internal/db"
	"hosteldesk-backend-go/internal/migrations"
	"hosteldesk-backend-go/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

var hostelNames = []struct {
	Name     string
	Location string
	Rooms    int
}{
	{"Godavari", "North Campus", 40},
	{"Krishna", "North Campus", 35},
	{"Netravati", "East Campus", 30},
	{"Spoorthi", "West Campus", 25},
	{"Raith Bhavan", "South Campus", 20},
}

var complaintTypes = []string{"Electrical", "Plumbing", "Furniture", "Cleanliness", "Internet"}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := migrations.Apply(database, "migrations"); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	var students int
	if err := database.Get(&students, `SELECT COUNT(*) FROM students`); err != nil {
		log.Fatalf("count students: %v", err)
	}
	if students > 0 {
		log.Printf("database already has %d students, nothing to do", students)
		return
	}

	creds := services.CredentialService{}
	if err := seed(database, creds); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seed complete")
}

func seed(database *sqlx.DB, creds services.CredentialService) error {
	rng := rand.New(rand.NewSource(42))

	adminHash, err := creds.HashPassword("admin@123")
	if err != nil {
		return err
	}
	if _, err := database.Exec(`
INSERT INTO admins (name, email, password_hash)
VALUES ('Chief Warden', 'admin@hosteldesk.local', $1)
ON CONFLICT (email) DO NOTHING
`, adminHash); err != nil {
		return services.WrapError(err, "insert admin")
	}

	hids := make([]int, 0, len(hostelNames))
	for _, h := range hostelNames {
		var hid int
		if err := database.Get(&hid, `
INSERT INTO hostels (name, location, number_of_rooms)
VALUES ($1, $2, $3)
RETURNING hid
`, h.Name, h.Location, h.Rooms); err != nil {
			return services.WrapError(err, "insert hostel "+h.Name)
		}
		hids = append(hids, hid)

		wardenName := fmt.Sprintf("%s Warden", h.Name)
		wardenHash, err := creds.HashPassword(services.DefaultWardenPassword(wardenName))
		if err != nil {
			return err
		}
		mail := fmt.Sprintf("warden.%s@hosteldesk.local", slug(h.Name))
		phone := fmt.Sprintf("98%08d", hid*1111)
		if _, err := database.Exec(`
INSERT INTO wardens (name, mail, phone, password_hash, hid)
VALUES ($1, $2, $3, $4, $5)
`, wardenName, mail, phone, wardenHash, hid); err != nil {
			return services.WrapError(err, "insert warden "+wardenName)
		}

		rooms := 2 + rng.Intn(4)
		for n := 1; n <= rooms; n++ {
			roomNumber := fmt.Sprintf("R%d%02d", hid, n)
			if _, err := database.Exec(`
INSERT INTO rooms (room_number, capacity, hid)
VALUES ($1, $2, $3)
`, roomNumber, 2+rng.Intn(3), hid); err != nil {
				return services.WrapError(err, "insert room "+roomNumber)
			}
		}
	}

	sids := make([]int, 0, 30)
	for i := 1; i <= 30; i++ {
		shid := fmt.Sprintf("ABC1ID%03d", i)
		name := fmt.Sprintf("Student %02d", i)
		mail := fmt.Sprintf("student%02d@hosteldesk.local", i)
		phone := fmt.Sprintf("97%08d", i)
		dob := time.Date(2003, time.Month(1+i%12), 1+i%28, 0, 0, 0, 0, time.UTC)
		hid := hids[i%len(hids)]
		var sid int
		if err := database.Get(&sid, `
INSERT INTO students (name, phone, mail, dob, hid, shid)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING sid
`, name, phone, mail, dob, hid, shid); err != nil {
			return services.WrapError(err, "insert student "+shid)
		}
		sids = append(sids, sid)

		hash, err := creds.HashPassword("pswd@" + shid)
		if err != nil {
			return err
		}
		if _, err := database.Exec(`
INSERT INTO user_auth (shid, password_hash) VALUES ($1, $2)
`, shid, hash); err != nil {
			return services.WrapError(err, "insert credential "+shid)
		}
	}

	for i := 0; i < 10; i++ {
		sid := sids[rng.Intn(len(sids))]
		ctype := complaintTypes[rng.Intn(len(complaintTypes))]
		age := time.Duration(rng.Intn(10*24)) * time.Hour
		status := "Pending"
		if rng.Intn(3) == 0 {
			status = "Resolved"
		}
		if _, err := database.Exec(`
INSERT INTO complaints (sid, type, description, created_at, status, withdraw_count, is_withdrawn)
VALUES ($1, $2, $3, $4, $5, 0, FALSE)
`, sid, ctype, fmt.Sprintf("%s issue reported by seed data", ctype), time.Now().UTC().Add(-age), status); err != nil {
			return services.WrapError(err, "insert complaint")
		}
	}
	return nil
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
