// Package response writes JSON responses in the API's wire format.
//
// Success payloads are serialised as-is (arrays and objects, no envelope);
// errors are `{"message": ...}` and validation failures `{"errors": {...}}`,
// matching what the dashboard client expects.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rsharma-dev/inventra/pkg/apperr"
)

func write(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends a 200 response with data serialised as-is.
func JSON(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, data)
}

// Created sends a 201 response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, data)
}

// Message sends a 200 `{"message": ...}` body.
func Message(w http.ResponseWriter, message string) {
	write(w, http.StatusOK, map[string]string{"message": message})
}

// Error sends a `{"message": ...}` error body with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, map[string]string{"message": message})
}

// ValidationError sends a 400 with a field→message error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// FromError maps a domain error to its HTTP status and writes it.
// Anything outside the taxonomy surfaces as a 500 with the underlying
// message (sufficient for debugging, not meant for end-user display).
func FromError(w http.ResponseWriter, err error) {
	var nf *apperr.NotFoundError
	var is *apperr.InsufficientStockError
	var ve *apperr.ValidationError

	switch {
	case errors.As(err, &nf):
		Error(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &is):
		Error(w, http.StatusBadRequest, is.Error())
	case errors.As(err, &ve):
		ValidationError(w, ve.Fields)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperr.ErrEmailTaken):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		Error(w, http.StatusInternalServerError, err.Error())
	}
}
