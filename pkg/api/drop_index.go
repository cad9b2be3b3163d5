package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleDropIndex handles DELETE requests removing an index
func (h *Handler) HandleDropIndex(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	log.Printf("INFO: handleDropIndex called for index '%s'", name)

	if err := h.engine.DelIndex(name); err != nil {
		log.Printf("ERROR: Drop failed for index '%s': %v", name, err)
		writeEngineError(w, err)
		return
	}

	h.dropIndexType(name)

	log.Printf("INFO: Dropped index '%s'", name)
	w.WriteHeader(http.StatusNoContent)
}
