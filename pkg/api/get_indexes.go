package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// HandleGetIndexes handles GET requests to retrieve all indexes
func (h *Handler) HandleGetIndexes(w http.ResponseWriter, r *http.Request) {
	indexes := h.engine.Indexes()

	response := map[string]interface{}{
		"success":     true,
		"indexes":     indexes,
		"index_count": len(indexes),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)

	log.Printf("INFO: Retrieved %d indexes", len(indexes))
}
