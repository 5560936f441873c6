package services

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError(t *testing.T) {
	assert.NoError(t, MapDBError(nil, "", "", ""))

	err := MapDBError(sql.ErrNoRows, "Student not found", "", "")
	var serr ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 404, serr.Status)
	assert.Equal(t, "Student not found", serr.Message)

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "wardens_mail_key"}
	err = MapDBError(fmt.Errorf("insert: %w", unique), "", "E-mail already registered", "")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeDuplicateValue, serr.Code)
	assert.Equal(t, 400, serr.Status)
	assert.Equal(t, "E-mail already registered", serr.Message)

	fk := &pgconn.PgError{Code: "23503"}
	err = MapDBError(fk, "", "", "Invalid hid (hostel not found)")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeInvalidReference, serr.Code)

	// driver text never leaks through
	err = MapDBError(errors.New("pq: deadlock detected on relation complaints"), "", "", "")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeInternal, serr.Code)
	assert.Equal(t, "Internal server error", serr.Message)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "insert hostel"))

	cause := errors.New("connection reset")
	err := WrapError(cause, "insert hostel")
	require.Error(t, err)
	assert.Equal(t, "insert hostel: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}
