package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/taskflow-app/taskflow/internal/common"
	"github.com/taskflow-app/taskflow/internal/logging"
	"github.com/taskflow-app/taskflow/internal/server/models"
)

const (
	msgServerError      = "Server error"
	msgInvalidJSON      = "Invalid JSON"
	msgInvalidDueDate   = "Invalid due date"
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"

	maxBodyBytes = 1 << 20
)

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps an error kind to its HTTP status and default message.
func errorStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "Bad request", true
	case errors.Is(err, common.ErrConflict):
		return http.StatusBadRequest, "Conflict", true
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", true
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthorized", true
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, msgNotFound, true
	}
	return http.StatusInternalServerError, msgServerError, false
}

// writeError sends err as {message}. Unknown errors are logged and reported
// as a generic server error.
func writeError(ctx context.Context, l logging.Logger, w http.ResponseWriter, err error) {
	status, fallback, known := errorStatus(err)
	if !known {
		logging.LogError(ctx, l, "request failed", err)
		writeJSON(w, status, messageBody{Message: msgServerError})
		return
	}
	writeJSON(w, status, messageBody{Message: common.PublicMessage(err, fallback)})
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, models.ErrInvalidDate):
		return common.NewPublicError(common.ErrValidation, msgInvalidDueDate)
	default:
		return common.NewPublicError(common.ErrValidation, msgInvalidJSON)
	}
}

func (s *Server) apiNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, messageBody{Message: msgNotFound})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, messageBody{Message: msgMethodNotAllowed})
}
