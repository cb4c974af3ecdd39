package web

// errors.go turns handler errors into JSON error bodies.
//
// Every error is:
//   - logged server-side with the request id and the full technical cause
//   - mapped through core.MapError to a support code and suggested action
//   - returned to the client without internal detail
//
// Validation failures keep their own message. Unexpected failures either use
// the mapped message or, via respondFailure, a fixed per-endpoint message.

import (
	"net/http"

	"github.com/JonMunkholm/netinventory/internal/core"
	"github.com/JonMunkholm/netinventory/internal/logging"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and answers with its mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	respondFailure(w, r, err, status, "")
}

// respondFailure logs err and answers with message, or with the mapped user
// message when message is empty.
func respondFailure(w http.ResponseWriter, r *http.Request, err error, status int, message string) {
	userMsg := core.MapError(err)
	if message == "" {
		message = userMsg.Message
	}

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", userMsg.Code,
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Message: message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// statusFor picks 400 for client mistakes and 500 for everything else.
func statusFor(err error) int {
	if core.IsValidation(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
