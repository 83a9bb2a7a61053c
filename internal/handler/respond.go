// Package handler holds the HTTP plumbing shared by every controller: JSON
// helpers, error mapping, middleware and the server-rendered pages.
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// ErrBadRequest marks a body or parameter that could not be read at all.
var ErrBadRequest = errors.New("bad request")

// BadRequest wraps ErrBadRequest with what was wrong.
func BadRequest(format string, args ...interface{}) error {
	return errors.Wrapf(ErrBadRequest, format, args...)
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("failed to write response body", zap.Error(err))
	}
}

// DecodeJSON reads the request body into dst. An empty body leaves dst as is.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return BadRequest("invalid body: %v", err)
	}
	return nil
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	if _, ok := appErrors.AsValidation(err); ok {
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case appErrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, appErrors.ErrInvalidCredentials), errors.Is(err, appErrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, appErrors.ErrConflict), errors.Is(err, appErrors.ErrInvalidState):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// WriteError answers with the status StatusOf picks. Server errors are logged
// and their details kept out of the response.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	body := map[string]interface{}{"error": err.Error()}

	switch status {
	case http.StatusUnprocessableEntity:
		verr, _ := appErrors.AsValidation(err)
		body = map[string]interface{}{"error": "validation failed", "fields": verr.Fields}
	case http.StatusUnauthorized:
		if errors.Is(err, appErrors.ErrInvalidCredentials) {
			body["error"] = appErrors.ErrInvalidCredentials.Error()
		} else {
			body["error"] = appErrors.ErrUnauthorized.Error()
		}
	case http.StatusInternalServerError:
		LoggerFrom(r.Context()).Error("request failed", zap.Error(err))
		body["error"] = "internal server error"
	}
	WriteJSON(w, status, body)
}
