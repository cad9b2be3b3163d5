package api

import (
	"encoding/json"
	"log"
	"net/http"
)

// HandleStream handles GET requests streaming matching records as a JSON array,
// flushing after each record
func (h *Handler) HandleStream(w http.ResponseWriter, r *http.Request) {
	filters, sortIndex := h.parseFilters(r.URL.Query())

	log.Printf("INFO: handleStream called with filter %v", filters)

	// The query runs before streaming starts so errors still get a status code
	records, err := h.engine.Get(filters, sortIndex)
	if err != nil {
		log.Printf("ERROR: Query failed: %v", err)
		writeEngineError(w, err)
		return
	}

	// Set headers for streaming
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	// Start JSON array
	w.Write([]byte("[\n"))

	first := true
	for _, record := range records {
		recordJSON, err := json.Marshal(record)
		if err != nil {
			log.Printf("ERROR: Failed to marshal record: %v", err)
			continue // Skip this record and continue streaming
		}

		if !first {
			w.Write([]byte(",\n"))
		}
		first = false

		if _, err := w.Write(recordJSON); err != nil {
			log.Printf("ERROR: Failed to write to response: %v", err)
			return
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}

	w.Write([]byte("\n]\n"))

	log.Printf("INFO: Streamed %d records", len(records))
}
