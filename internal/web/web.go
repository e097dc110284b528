// Package web holds the JSON helpers shared by every resource handler:
// responding, decoding, error translation and pagination.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cargohub/cargohub-api/internal/storage"
)

// ValidationError marks a rejected payload (missing required field,
// conflicting id). Handlers translate it to 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func Respond(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]string{"error": msg})
}

// RespondErr maps service errors onto the HTTP taxonomy: unknown id to
// 404, rejected payloads and id collisions to 400, the rest to 500.
func RespondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrExists), IsValidation(err):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		Error(w, http.StatusInternalServerError, err.Error())
	}
}

// Decode parses a JSON request body. A body that does not parse is a
// MalformedRequest and surfaces as 400 at the caller.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return Invalid("malformed request body: %v", err)
	}
	return nil
}

// Paginate applies the optional page/page_size query parameters the way
// the collection endpoints expose them. Absent or invalid parameters
// return the full slice.
func Paginate[T any](r *http.Request, items []T) []T {
	page, err1 := strconv.Atoi(r.URL.Query().Get("page"))
	size, err2 := strconv.Atoi(r.URL.Query().Get("page_size"))
	if err1 != nil || err2 != nil || page < 1 || size < 1 {
		return items
	}
	lo := (page - 1) * size
	if lo >= len(items) {
		return []T{}
	}
	hi := lo + size
	if hi > len(items) {
		hi = len(items)
	}
	return items[lo:hi]
}
