package api

import (
	"log"
	"net/http"

	"github.com/adfharrison1/go-filter/pkg/codec"
)

// HandleExport handles GET requests returning the matching records as a codec
// batch, suitable for POST /records on another instance
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	filters, sortIndex := h.parseFilters(r.URL.Query())

	records, err := h.engine.Get(filters, sortIndex)
	if err != nil {
		log.Printf("ERROR: Export query failed: %v", err)
		writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", codec.ContentType)
	if err := codec.Encode(w, records); err != nil {
		log.Printf("ERROR: Export failed: %v", err)
		return
	}

	log.Printf("INFO: Exported %d records", len(records))
}
