package handler

import (
	"aperturelab/internal/lesson"
	"aperturelab/internal/service"
	"aperturelab/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// LessonHandler handles the learner's lesson progression
type LessonHandler struct {
	lessonSvc *service.LessonService
}

// NewLessonHandler creates a new lesson handler
func NewLessonHandler(lessonSvc *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonSvc: lessonSvc}
}

// Get handles GET /v1/lesson
func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.lessonSvc.View(r.Context(), middleware.GetLearnerID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Advance handles POST /v1/lesson/advance
func (h *LessonHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, lesson.Advance())
}

// Previous handles POST /v1/lesson/previous
func (h *LessonHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, lesson.Previous())
}

// JumpToTopic handles POST /v1/lesson/topics/{topicIndex}/jump
func (h *LessonHandler) JumpToTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := strconv.Atoi(mux.Vars(r)["topicIndex"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_topic_index", "topic index must be an integer")
		return
	}
	h.apply(w, r, lesson.JumpTo(topic))
}

// SelectRequest is the request body for picking a quick-check option
type SelectRequest struct {
	Option *int `json:"option"`
}

// SelectOption handles POST /v1/lesson/quickcheck/select
func (h *LessonHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Option == nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "option is required")
		return
	}
	h.apply(w, r, lesson.Select(*req.Option))
}

// Reveal handles POST /v1/lesson/quickcheck/reveal
func (h *LessonHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, lesson.Reveal())
}

func (h *LessonHandler) apply(w http.ResponseWriter, r *http.Request, action lesson.Action) {
	view, err := h.lessonSvc.Apply(r.Context(), middleware.GetLearnerID(r.Context()), action)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
