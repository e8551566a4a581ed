package handler

import (
	"aperturelab/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// CatalogHandler serves topics, ranges and the effect mapper
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListTopics handles GET /v1/topics
func (h *CatalogHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topics": h.catalogSvc.Topics(),
	})
}

// GetTopic handles GET /v1/topics/{topicId}
func (h *CatalogHandler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topic, err := h.catalogSvc.Topic(mux.Vars(r)["topicId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

// Ranges handles GET /v1/settings/ranges
func (h *CatalogHandler) Ranges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogSvc.Ranges())
}

// Effects handles GET /v1/effects?iso=&aperture=&shutterSpeed=&context=
func (h *CatalogHandler) Effects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	effect, err := h.catalogSvc.Effects(service.EffectsRequest{
		ISO:          q.Get("iso"),
		Aperture:     q.Get("aperture"),
		ShutterSpeed: q.Get("shutterSpeed"),
		Context:      q.Get("context"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, effect)
}

// Snap handles GET /v1/effects/snap?field=&value=
func (h *CatalogHandler) Snap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.catalogSvc.Snap(q.Get("field"), q.Get("value"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
