package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adfharrison1/go-filter/pkg/filter"
)

// ErrorResponse represents a standard JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// WriteJSONError writes a JSON error response with the given status code and message
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	json.NewEncoder(w).Encode(response)
}

// statusFor maps engine errors to HTTP status codes
func statusFor(err error) int {
	var unknown *filter.UnknownDimensionError
	var invalid *filter.InvalidPredicateError
	switch {
	case errors.As(err, &unknown):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.Is(err, filter.ErrEmptyRegistry):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeEngineError writes err with the status matching its type
func writeEngineError(w http.ResponseWriter, err error) {
	WriteJSONError(w, statusFor(err), err.Error())
}
