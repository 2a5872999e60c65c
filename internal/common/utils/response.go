// internal/common/utils/response.go
// Standardized API responses ensure consistency across all endpoints

package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// Response is the standard API response structure
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse sends a successful response with data
func SuccessResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	RespondWithJSON(w, statusCode, Response{Success: true, Data: data})
}

// ErrorResponse sends an error response
func ErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	RespondWithJSON(w, statusCode, Response{Success: false, Error: message})
}

// MessageResponse sends a simple message response
func MessageResponse(w http.ResponseWriter, message string, statusCode int) {
	RespondWithJSON(w, statusCode, Response{Success: true, Message: message})
}

// RespondWithError sends an error response with the specified status code and message
func RespondWithError(w http.ResponseWriter, code int, message string) {
	ErrorResponse(w, message, code)
}

// RespondWithDetailedError attaches structured details, e.g. the failing field
func RespondWithDetailedError(w http.ResponseWriter, code int, message string, details interface{}) {
	RespondWithJSON(w, code, Response{Success: false, Error: message, Details: details})
}

// RespondWithJSON sends a JSON response with the specified status code and payload
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[http] failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Error marshaling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
