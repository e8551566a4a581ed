package handler

import (
	"aperturelab/internal/flag"
	"aperturelab/internal/service"
	"aperturelab/internal/transport/rest/middleware"
	"net/http"
)

// ProgressHandler exposes the persisted completion flag
type ProgressHandler struct {
	lessonSvc *service.LessonService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(lessonSvc *service.LessonService) *ProgressHandler {
	return &ProgressHandler{lessonSvc: lessonSvc}
}

// GetFlag handles GET /v1/progress/flag
func (h *ProgressHandler) GetFlag(w http.ResponseWriter, r *http.Request) {
	done, err := h.lessonSvc.QuizCompleted(r.Context(), middleware.GetLearnerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{flag.QuizCompletedKey: done})
}

// DeleteFlag handles DELETE /v1/progress/flag
func (h *ProgressHandler) DeleteFlag(w http.ResponseWriter, r *http.Request) {
	view, err := h.lessonSvc.ResetQuizCompleted(r.Context(), middleware.GetLearnerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
