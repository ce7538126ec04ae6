package response

import (
	"encoding/json"
	"net/http"

	"github.com/windfall/lingo_practice/internal/errors"
)

// ErrorBody is the error payload shape the API promises to clients:
// a bare object with a single "error" field.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes data as-is with the given status. The API contract is
// pass-through payloads, not an envelope, so clients can address fields
// directly.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error writes an error payload with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// AppError writes an AppError using its own status mapping. Non-AppError
// values fall back to a generic 500.
func AppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		Error(w, appErr.HTTPStatus(), appErr.Message)
		return
	}
	Error(w, http.StatusInternalServerError, "internal server error")
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
