package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-filter/pkg/config"
)

// HandleCreateIndex registers or replaces the index named in the path. The
// body is an index definition: {"field": "stargazers_count", "type": "number"}.
func (h *Handler) HandleCreateIndex(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	log.Printf("INFO: handleCreateIndex called for index '%s'", name)

	var def config.IndexDef
	// an empty body indexes the field of the same name as is
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil && err != io.EOF {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	def.Name = name

	if err := def.Validate(); err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	replaced := h.engine.HasIndex(name)
	if err := h.engine.AddIndex(name, def.KeyFunc()); err != nil {
		log.Printf("ERROR: Failed to create index '%s': %v", name, err)
		writeEngineError(w, err)
		return
	}
	h.setIndexType(name, def.Type)

	status := http.StatusCreated
	message := "Index created successfully"
	if replaced {
		status = http.StatusOK
		message = "Index replaced successfully"
	}

	response := map[string]interface{}{
		"success": true,
		"message": message,
		"index":   def,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
