// Package response writes the JSON envelope every endpoint returns:
// {"success": bool, "message": string, "data": ...}.
package response

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/dom/libriverse/internal/logging"
	"github.com/dom/libriverse/internal/validation"
)

type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type ErrorEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("component", "response.JSON").Msg("failed to encode response")
	}
}

func Success(w http.ResponseWriter, r *http.Request, status int, message string, data interface{}) {
	JSON(w, r, status, Envelope{Success: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, ErrorEnvelope{Success: false, Message: message})
}

// Validation writes a 400 carrying the first failure as the message and
// every failing field in fields.
func Validation(w http.ResponseWriter, r *http.Request, err *validation.Error) {
	JSON(w, r, http.StatusBadRequest, ErrorEnvelope{
		Success: false,
		Message: err.Error(),
		Fields:  err.FieldMessages(),
	})
}
