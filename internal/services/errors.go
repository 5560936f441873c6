package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ServiceError carries an HTTP status and a machine-readable code alongside
// the message. Handlers surface it as-is; anything else becomes a generic 500
// so driver error text never reaches the client.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeNotRegistered      = "NOT_REGISTERED"
	CodeAlreadyRegistered  = "ALREADY_REGISTERED"
	CodeAlreadyWithdrawn   = "ALREADY_WITHDRAWN"
	CodeLimitExceeded      = "LIMIT_EXCEEDED"
	CodeDuplicateValue     = "DUPLICATE_VALUE"
	CodeInvalidReference   = "INVALID_REFERENCE"
	CodeNoFieldsProvided   = "NO_FIELDS_PROVIDED"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInternal           = "INTERNAL"
)

func ErrUnauthenticated() error {
	return ServiceError{Status: 401, Code: CodeUnauthenticated, Message: "Not logged in"}
}

func ErrInvalidCredentials() error {
	return ServiceError{Status: 401, Code: CodeInvalidCredentials, Message: "Invalid email or password"}
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Code: CodeNotFound, Message: msg}
}

func ErrNotRegistered(msg string) error {
	return ServiceError{Status: 401, Code: CodeNotRegistered, Message: msg}
}

func ErrAlreadyRegistered(msg string) error {
	return ServiceError{Status: 400, Code: CodeAlreadyRegistered, Message: msg}
}

func ErrAlreadyWithdrawn() error {
	return ServiceError{Status: 400, Code: CodeAlreadyWithdrawn, Message: "Complaint already withdrawn"}
}

func ErrLimitExceeded() error {
	return ServiceError{Status: 400, Code: CodeLimitExceeded, Message: "Withdraw limit exceeded (max 3 times)"}
}

func ErrDuplicateValue(msg string) error {
	return ServiceError{Status: 400, Code: CodeDuplicateValue, Message: msg}
}

func ErrInvalidReference(msg string) error {
	return ServiceError{Status: 400, Code: CodeInvalidReference, Message: msg}
}

func ErrNoFieldsProvided() error {
	return ServiceError{Status: 400, Code: CodeNoFieldsProvided, Message: "No fields provided"}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Code: CodeBadRequest, Message: msg}
}

func ErrInternal() error {
	return ServiceError{Status: 500, Code: CodeInternal, Message: "Internal server error"}
}

// MapDBError turns storage failures into taxonomy errors. Uniqueness and
// foreign-key violations get specific treatment, sql.ErrNoRows becomes the
// supplied not-found message, everything else degrades to Internal.
func MapDBError(err error, notFoundMsg, duplicateMsg, referenceMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound(notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrDuplicateValue(duplicateMsg)
		case "23503":
			return ErrInvalidReference(referenceMsg)
		}
	}
	return ErrInternal()
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
