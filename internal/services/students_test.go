package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedStmt struct {
	query string
	args  []interface{}
}

// fakeStudentExec records the statement sequence and can fail a chosen step.
type fakeStudentExec struct {
	shid   string
	getErr error
	failAt int
	stmts  []recordedStmt
}

func (f *fakeStudentExec) Get(dest interface{}, query string, args ...interface{}) error {
	f.stmts = append(f.stmts, recordedStmt{query: query, args: args})
	if f.getErr != nil {
		return f.getErr
	}
	*(dest.(*string)) = f.shid
	return nil
}

func (f *fakeStudentExec) Exec(query string, args ...interface{}) (sql.Result, error) {
	f.stmts = append(f.stmts, recordedStmt{query: query, args: args})
	if f.failAt == len(f.stmts) {
		return nil, errors.New("pq: connection reset")
	}
	return driver.RowsAffected(1), nil
}

func TestDeleteStudentRemovesCredentialBeforeStudent(t *testing.T) {
	tx := &fakeStudentExec{shid: "ABC1ID007"}
	require.NoError(t, DeleteStudent(tx, 7))

	require.Len(t, tx.stmts, 4)
	assert.Contains(t, tx.stmts[0].query, "SELECT shid FROM students")
	assert.Contains(t, tx.stmts[1].query, "DELETE FROM user_auth")
	assert.Contains(t, tx.stmts[2].query, "DELETE FROM complaints")
	assert.Contains(t, tx.stmts[3].query, "DELETE FROM students")

	assert.Equal(t, []interface{}{"ABC1ID007"}, tx.stmts[1].args)
	assert.Equal(t, []interface{}{7}, tx.stmts[2].args)
	assert.Equal(t, []interface{}{7}, tx.stmts[3].args)
}

func TestDeleteStudentUnknownSid(t *testing.T) {
	tx := &fakeStudentExec{getErr: sql.ErrNoRows}
	err := DeleteStudent(tx, 99)

	var serr ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeNotFound, serr.Code)
	assert.Len(t, tx.stmts, 1, "no deletes after a failed lookup")
}

func TestDeleteStudentStopsOnFailure(t *testing.T) {
	tx := &fakeStudentExec{shid: "ABC1ID007", failAt: 2}
	err := DeleteStudent(tx, 7)

	var serr ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeInternal, serr.Code)
	assert.Len(t, tx.stmts, 2, "sequence halts at the failing statement")
}
