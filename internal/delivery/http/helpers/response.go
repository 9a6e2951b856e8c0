package helpers

import (
	"encoding/json"
	"net/http"

	"omekan/internal/domain"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the envelope of every API response.
// On success Data is set; on error Message (and for validation failures Errors) is set.
// swagger:model APIResponse
type APIResponse struct {
	Status     string             `json:"status"`
	Data       any                `json:"data,omitempty"`
	Message    string             `json:"message,omitempty"`
	Errors     []string           `json:"errors,omitempty"`
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSONSuccess writes statusCode and a success envelope around data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, APIResponse{Status: StatusSuccess, Data: data})
}

// WriteJSONMessage writes a success envelope that only carries a message.
func WriteJSONMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, APIResponse{Status: StatusSuccess, Message: message})
}

// WriteJSONPage writes a success envelope with pagination metadata.
func WriteJSONPage(w http.ResponseWriter, data any, p domain.Pagination) {
	writeJSON(w, http.StatusOK, APIResponse{Status: StatusSuccess, Data: data, Pagination: &p})
}

// WriteJSONError writes statusCode and an error envelope.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string, errs ...string) {
	writeJSON(w, statusCode, APIResponse{Status: StatusError, Message: message, Errors: errs})
}
