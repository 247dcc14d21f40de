package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/orgchart/pkg/collapse"
	orgerrors "github.com/matzehuels/orgchart/pkg/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	var body ErrorBody
	body.Error.Code = string(orgerrors.GetCode(err))
	body.Error.Message = orgerrors.UserMessage(err)
	body.Error.RequestID = middleware.GetReqID(r.Context())
	if errors.Is(err, collapse.ErrSessionNotFound) {
		body.Error.Code = string(orgerrors.ErrCodeNotFound)
	}
	if body.Error.Code == "" {
		body.Error.Code = string(orgerrors.ErrCodeInternal)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}
