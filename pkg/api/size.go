package api

import (
	"encoding/json"
	"net/http"
)

// SizeResponse reports the number of stored records
type SizeResponse struct {
	Size int `json:"size"`
}

// HandleSize handles GET requests for the record count, ignoring filters
func (h *Handler) HandleSize(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SizeResponse{Size: h.engine.Size()})
}
