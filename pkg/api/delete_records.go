package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// DeleteResponse represents the response for delete operations
type DeleteResponse struct {
	Success      bool `json:"success"`
	DeletedCount int  `json:"deleted_count"`
	Size         int  `json:"size"`
}

// HandleDeleteRecords handles DELETE requests removing every record that
// matches the filter given as query parameters. No parameters removes all records.
func (h *Handler) HandleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	filters, _ := h.parseFilters(r.URL.Query())

	log.Printf("INFO: handleDeleteRecords called with filter %v", filters)

	deleted, err := h.engine.DelRecords(filters)
	if err != nil {
		log.Printf("ERROR: Delete failed: %v", err)
		writeEngineError(w, err)
		return
	}

	log.Printf("INFO: Deleted %d records", deleted)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DeleteResponse{
		Success:      true,
		DeletedCount: deleted,
		Size:         h.engine.Size(),
	})
}
