package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"

	"github.com/adfharrison1/go-filter/pkg/codec"
	"github.com/adfharrison1/go-filter/pkg/domain"
)

// InsertResponse represents the response for insert operations
type InsertResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	InsertedCount int    `json:"inserted_count"`
	Size          int    `json:"size"`
}

// HandleInsert handles POST requests adding records. The body is a JSON
// object, a JSON array of objects, or a codec batch.
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	log.Printf("INFO: handleInsert called")

	records, err := h.decodeRecords(w, r)
	if err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(records) == 0 {
		log.Printf("ERROR: No records provided for insert")
		WriteJSONError(w, http.StatusBadRequest, "No records provided")
		return
	}

	if len(records) > h.maxBatch {
		log.Printf("ERROR: Too many records for insert: %d", len(records))
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d records allowed per batch", h.maxBatch))
		return
	}

	h.engine.AddRecords(records...)

	response := InsertResponse{
		Success:       true,
		Message:       "Insert completed successfully",
		InsertedCount: len(records),
		Size:          h.engine.Size(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)

	log.Printf("INFO: Insert successful, inserted %d records", len(records))
}

func (h *Handler) decodeRecords(w http.ResponseWriter, r *http.Request) ([]domain.Record, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes())

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == codec.ContentType {
		return codec.Decode(r.Body)
	}

	var body interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}

	switch v := body.(type) {
	case map[string]interface{}:
		return []domain.Record{v}, nil
	case []interface{}:
		records := make([]domain.Record, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("invalid request body: element %d is not an object", i)
			}
			records = append(records, m)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("invalid request body: expected an object or an array of objects")
	}
}
