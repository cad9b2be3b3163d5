package api

import (
	"encoding/json"
	"net/http"
)

// HealthResponse reports liveness along with the engine's record and index counts
type HealthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
	Indexes int    `json:"indexes"`
}

// HandleHealth handles GET requests to the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Records: h.engine.Size(),
		Indexes: len(h.engine.Indexes()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
