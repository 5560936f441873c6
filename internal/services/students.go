package services

import (
	"database/sql"
	"errors"
)

// studentExec is the slice of sqlx.Tx the delete sequence needs, kept narrow
// so the statement ordering is testable without a live database.
type studentExec interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// DeleteStudent removes a student together with its login credential and
// complaints. The credential is keyed by shid, so it is resolved first; the
// dependent rows go before the student row itself, leaving no orphaned
// credential behind. The caller owns the transaction and commits on success.
func DeleteStudent(tx studentExec, sid int) error {
	var shid string
	if err := tx.Get(&shid, `SELECT shid FROM students WHERE sid = $1`, sid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound("Student not found")
		}
		return ErrInternal()
	}
	if _, err := tx.Exec(`DELETE FROM user_auth WHERE shid = $1`, shid); err != nil {
		return ErrInternal()
	}
	if _, err := tx.Exec(`DELETE FROM complaints WHERE sid = $1`, sid); err != nil {
		return ErrInternal()
	}
	if _, err := tx.Exec(`DELETE FROM students WHERE sid = $1`, sid); err != nil {
		return ErrInternal()
	}
	return nil
}
