package handler

import (
	"aperturelab/internal/docs"
	"net/http"

	"github.com/swaggo/swag"
)

// DocJSON handles GET /v1/docs/doc.json
func DocJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}
