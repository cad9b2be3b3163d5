package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

// FindResponse holds the records matching a query
type FindResponse struct {
	Records []domain.Record `json:"records"`
	Count   int             `json:"count"`
}

// HandleFindAll handles GET requests returning the records that match the
// filter given as query parameters
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	filters, sortIndex := h.parseFilters(r.URL.Query())

	log.Printf("INFO: handleFindAll called with filter %v sorted by '%s'", filters, sortIndex)

	records, err := h.engine.Get(filters, sortIndex)
	if err != nil {
		log.Printf("ERROR: Query failed: %v", err)
		writeEngineError(w, err)
		return
	}

	if len(filters) == 0 {
		log.Printf("INFO: Found %d records (no filter)", len(records))
	} else {
		log.Printf("INFO: Found %d records with filter %v", len(records), filters)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(FindResponse{Records: records, Count: len(records)})
}
