package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	creds := CredentialService{}
	hash, err := creds.HashPassword("pswd@ABC1ID001")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, creds.VerifyPassword("pswd@ABC1ID001", hash))
	assert.False(t, creds.VerifyPassword("wrong", hash))
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	creds := CredentialService{}
	legacy, err := bcrypt.GenerateFromPassword([]byte("old-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, creds.VerifyPassword("old-secret", string(legacy)))
	assert.False(t, creds.VerifyPassword("nope", string(legacy)))
}

func TestDefaultWardenPassword(t *testing.T) {
	assert.Equal(t, "ramesh@123", DefaultWardenPassword("Ramesh Kumar"))
	assert.Equal(t, "anita@123", DefaultWardenPassword("  Anita  "))
	assert.Equal(t, "godavari@123", DefaultWardenPassword("Godavari Warden"))
}

func TestResetTokenRoundTrip(t *testing.T) {
	svc := ResetTokenService{Secret: []byte("test-secret"), Issuer: "hosteldesk", TTL: time.Minute}
	token, err := svc.CreateResetToken("ABC1ID007")
	require.NoError(t, err)

	shid, err := svc.ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ABC1ID007", shid)
}

func TestResetTokenExpired(t *testing.T) {
	svc := ResetTokenService{Secret: []byte("test-secret"), Issuer: "hosteldesk", TTL: -time.Minute}
	token, err := svc.CreateResetToken("ABC1ID007")
	require.NoError(t, err)

	_, err = svc.ParseResetToken(token)
	var serr ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, CodeBadRequest, serr.Code)
}

func TestResetTokenWrongSecret(t *testing.T) {
	svc := ResetTokenService{Secret: []byte("test-secret"), Issuer: "hosteldesk", TTL: time.Minute}
	token, err := svc.CreateResetToken("ABC1ID007")
	require.NoError(t, err)

	other := ResetTokenService{Secret: []byte("different"), Issuer: "hosteldesk", TTL: time.Minute}
	_, err = other.ParseResetToken(token)
	assert.Error(t, err)
}

func TestResetTokenRejectsOtherType(t *testing.T) {
	svc := ResetTokenService{Secret: []byte("test-secret"), Issuer: "hosteldesk", TTL: time.Minute}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss": "hosteldesk",
		"sub": "ABC1ID007",
		"typ": "access",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.Secret)
	require.NoError(t, err)

	_, err = svc.ParseResetToken(token)
	assert.Error(t, err)
}
