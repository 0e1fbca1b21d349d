package httpapi

import (
	"encoding/json"
	"net/http"
)

// envelope is the uniform wrapper around every API response body. The HTTP
// status code always matches StatusCode, and Success is explicit on both
// paths.
type envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	write(w, envelope{Success: true, StatusCode: status, Message: message, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	write(w, envelope{Success: false, StatusCode: status, Message: message, Data: nil})
}

func write(w http.ResponseWriter, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.StatusCode)
	_ = json.NewEncoder(w).Encode(body)
}
