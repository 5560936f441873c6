package services

import (
	"strings"

	"github.com/jmoiron/sqlx"
)

// EnsureDefaultAdmin seeds a first admin row when the table is empty, so a
// fresh deployment can be logged into. No-op when credentials are not
// configured or an admin already exists.
func EnsureDefaultAdmin(db *sqlx.DB, creds CredentialService, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM admins`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := creds.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
INSERT INTO admins (email, password_hash, name)
VALUES ($1, $2, 'Admin')
ON CONFLICT (email) DO NOTHING
`, email, hash)
	return err
}
