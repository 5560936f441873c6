package httpapi

import (
	"database/sql"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hosteldesk-backend-go/internal/services"
)

func TestCredentialLookupError(t *testing.T) {
	var serr services.ServiceError
	err := credentialLookupError(sql.ErrNoRows)
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, services.CodeInvalidCredentials, serr.Code)
	assert.Equal(t, 401, serr.Status)

	// infrastructure failures must not masquerade as bad credentials
	infra := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	err = credentialLookupError(infra)
	assert.False(t, errors.As(err, &serr))

	rec := httptest.NewRecorder()
	WriteServiceError(rec, err)
	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
