package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// CredentialService is the single hash/verify path for every role: admin,
// warden and student passwords all go through it. New hashes are argon2id;
// verification also accepts bcrypt for rows imported from older deployments.
type CredentialService struct{}

func (CredentialService) HashPassword(raw string) (string, error) {
	return hashArgon2id(raw)
}

func (CredentialService) VerifyPassword(raw, hashed string) bool {
	if strings.HasPrefix(hashed, "$argon2") {
		return verifyArgon2id(raw, hashed)
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(raw)) == nil
}

// DefaultWardenPassword derives the one-time initial password handed to a
// freshly created warden: first token of the name, lower-cased, plus "@123".
// Only the hash is stored; the plaintext is returned once in the create
// response for out-of-band distribution.
func DefaultWardenPassword(name string) string {
	first := strings.ToLower(strings.TrimSpace(name))
	if idx := strings.IndexAny(first, " \t"); idx > 0 {
		first = first[:idx]
	}
	return first + "@123"
}

// ResetTokenService signs the short-lived tokens embedded in password-reset
// links, so the link itself proves the forgot-password request instead of
// exposing a bare identifier.
type ResetTokenService struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (t ResetTokenService) CreateResetToken(shid string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss": t.Issuer,
		"sub": shid,
		"typ": "pswd_reset",
		"iat": now.Unix(),
		"exp": now.Add(t.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

// ParseResetToken returns the SHID the token was issued for.
func (t ResetTokenService) ParseResetToken(tokenStr string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer))
	if err != nil || !token.Valid {
		return "", ErrBadRequest("Invalid or expired reset token")
	}
	if claims["typ"] != "pswd_reset" {
		return "", ErrBadRequest("Invalid or expired reset token")
	}
	shid, _ := claims["sub"].(string)
	if shid == "" {
		return "", ErrBadRequest("Invalid or expired reset token")
	}
	return shid, nil
}

type argon2Params struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  int
	keyLength   int
}

func hashArgon2id(raw string) (string, error) {
	params := argon2Params{
		memory:      65536,
		iterations:  3,
		parallelism: 1,
		saltLength:  16,
		keyLength:   32,
	}
	salt := make([]byte, params.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(raw), salt, params.iterations, params.memory, params.parallelism, uint32(params.keyLength))
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Key := base64.RawStdEncoding.EncodeToString(key)
	return "$argon2id$v=19$m=" + strconv.FormatUint(uint64(params.memory), 10) +
		",t=" + strconv.FormatUint(uint64(params.iterations), 10) +
		",p=" + strconv.FormatUint(uint64(params.parallelism), 10) +
		"$" + b64Salt + "$" + b64Key, nil
}

func verifyArgon2id(raw, encoded string) bool {
	params, salt, hash, err := decodeArgon2id(encoded)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(raw), salt, params.iterations, params.memory, params.parallelism, uint32(params.keyLength))
	return subtleCompare(hash, key)
}

func decodeArgon2id(encoded string) (argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return argon2Params{}, nil, nil, errors.New("invalid hash format")
	}
	var params argon2Params
	if !strings.HasPrefix(parts[1], "argon2") {
		return argon2Params{}, nil, nil, errors.New("invalid hash type")
	}
	paramValues := strings.Split(parts[3], ",")
	for _, kv := range paramValues {
		pair := strings.SplitN(kv, "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "m":
			value, _ := strconv.ParseUint(pair[1], 10, 32)
			params.memory = uint32(value)
		case "t":
			value, _ := strconv.ParseUint(pair[1], 10, 32)
			params.iterations = uint32(value)
		case "p":
			value, _ := strconv.ParseUint(pair[1], 10, 8)
			params.parallelism = uint8(value)
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2Params{}, nil, nil, err
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2Params{}, nil, nil, err
	}
	params.saltLength = len(salt)
	params.keyLength = len(hash)
	return params, salt, hash, nil
}

func subtleCompare(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
