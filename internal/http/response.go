package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hosteldesk-backend-go/internal/services"
)

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteStatus(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, StatusResponse{Status: "success", Message: message})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Status: "error", Message: message})
}

// WriteServiceError renders taxonomy errors with their status and code.
// Anything else is logged server-side and surfaced as a generic 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var serr services.ServiceError
	if errors.As(err, &serr) {
		WriteJSON(w, serr.Status, ErrorResponse{Status: "error", Code: serr.Code, Message: serr.Message})
		return
	}
	log.Printf("internal error: %v", err)
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// credentialLookupError keeps unknown accounts indistinguishable from wrong
// passwords while letting infrastructure failures surface as 500s.
func credentialLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return services.ErrInvalidCredentials()
	}
	return err
}
