package handler

import (
	"aperturelab/internal/model"
	"aperturelab/internal/service"
	"aperturelab/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// QuizHandler handles the settings quizzes
type QuizHandler struct {
	quizSvc *service.QuizService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quizSvc *service.QuizService) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

func flavorParam(r *http.Request) model.Flavor {
	return model.Flavor(mux.Vars(r)["flavor"])
}

// Get handles GET /v1/quiz/{flavor}
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizSvc.View(r.Context(), middleware.GetLearnerID(r.Context()), flavorParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Submit handles POST /v1/quiz/{flavor}/answers
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// non-numeric settings fail here
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	view, err := h.quizSvc.Submit(r.Context(), middleware.GetLearnerID(r.Context()), flavorParam(r), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Continue handles POST /v1/quiz/{flavor}/continue
func (h *QuizHandler) Continue(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizSvc.Continue(r.Context(), middleware.GetLearnerID(r.Context()), flavorParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Previous handles POST /v1/quiz/{flavor}/previous
func (h *QuizHandler) Previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizSvc.Previous(r.Context(), middleware.GetLearnerID(r.Context()), flavorParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Restart handles POST /v1/quiz/{flavor}/restart
func (h *QuizHandler) Restart(w http.ResponseWriter, r *http.Request) {
	view, err := h.quizSvc.Restart(r.Context(), middleware.GetLearnerID(r.Context()), flavorParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Hint handles GET /v1/quiz/{flavor}/hint
func (h *QuizHandler) Hint(w http.ResponseWriter, r *http.Request) {
	hint, err := h.quizSvc.Hint(r.Context(), middleware.GetLearnerID(r.Context()), flavorParam(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": hint})
}

// History handles GET /v1/quiz/{flavor}/history?limit=
func (h *QuizHandler) History(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.quizSvc.History(r.Context(), middleware.GetLearnerID(r.Context()), flavorParam(r), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"attempts": records})
}
