package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	router.HandleFunc("/size", h.HandleSize).Methods("GET")

	// Index operations
	router.HandleFunc("/indexes", h.HandleGetIndexes).Methods("GET")
	router.HandleFunc("/indexes/{name}", h.HandleCreateIndex).Methods("PUT")
	router.HandleFunc("/indexes/{name}", h.HandleDropIndex).Methods("DELETE")

	// Record operations, filtered by query parameters
	router.HandleFunc("/records", h.HandleInsert).Methods("POST")
	router.HandleFunc("/records", h.HandleFindAll).Methods("GET")
	router.HandleFunc("/records", h.HandleDeleteRecords).Methods("DELETE")
	router.HandleFunc("/records/stream", h.HandleStream).Methods("GET")
	router.HandleFunc("/export", h.HandleExport).Methods("GET")
}
