package handler

import (
	"aperturelab/internal/flag"
	"aperturelab/internal/model"
	"aperturelab/internal/platform/apierr"
	"aperturelab/internal/service"
	"aperturelab/internal/transport/rest/middleware"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// SessionHandler starts learner sessions
type SessionHandler struct {
	lessonSvc *service.LessonService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(lessonSvc *service.LessonService) *SessionHandler {
	return &SessionHandler{lessonSvc: lessonSvc}
}

// Start handles POST /v1/sessions. The body is optional; resuming a learner
// takes its previous token in the body or the Authorization header.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	if req.Token == "" {
		req.Token = middleware.ExtractBearerToken(r)
	}

	resp, err := h.lessonSvc.StartSession(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}

// writeServiceError maps service sentinels to HTTP errors. Internal errors
// are reported without their message.
func writeServiceError(w http.ResponseWriter, err error) {
	ae := toAPIError(err)
	msg := ae.Error()
	if ae.Status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, ae.Status, ae.Code, msg)
}

func toAPIError(err error) *apierr.Error {
	switch {
	case errors.Is(err, service.ErrInvalidSetting):
		return apierr.BadRequest("invalid_setting", err)
	case errors.Is(err, service.ErrInvalidLearnerID):
		return apierr.BadRequest("invalid_learner_id", err)
	case errors.Is(err, flag.ErrInvalidKey):
		return apierr.BadRequest("invalid_key", err)
	case errors.Is(err, service.ErrTopicNotFound):
		return apierr.NotFound("topic_not_found", err)
	case errors.Is(err, service.ErrUnknownFlavor):
		return apierr.NotFound("unknown_flavor", err)
	case errors.Is(err, service.ErrInvalidToken):
		return apierr.Unauthorized("unauthorized", err)
	}
	return apierr.From(err)
}

// decodeOptional decodes a JSON body if one was sent. It writes a 400 and
// returns false on malformed input.
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
	return false
}
