// ABOUTME: Standardized JSON error bodies for HTTP handlers.
// ABOUTME: Used for failures that are not part of an emulated API's own wire format.

package errors

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the JSON body written for server-side failures.
//
//	{"code":"database_error","message":"Failed to list plugins","status":500}
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
}

// Error codes
const (
	ErrInvalidRequest     = "invalid_request"
	ErrNotFound           = "not_found"
	ErrInternal           = "internal_error"
	ErrDatabaseError      = "database_error"
	ErrServiceUnavailable = "service_unavailable"
)

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
	})
}

// WriteErrorWithDetails is WriteError plus a details string.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message, details string) {
	writeErrorResponse(w, ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
		Details: details,
	})
}

// WriteDatabaseError logs err and writes a 500 database_error response.
// The underlying error is not exposed to the client.
func WriteDatabaseError(w http.ResponseWriter, message string, err error) {
	log.Printf("%s: %v", message, err)
	WriteError(w, http.StatusInternalServerError, ErrDatabaseError, message)
}

func writeErrorResponse(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
