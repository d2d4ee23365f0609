package models

import (
	"encoding/json"
	"net/http"
	"time"
)

// APIResponse is the common envelope for the public HTTP endpoints.
type APIResponse struct {
	Status    string      `json:"status"`
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// MCPResponse is the envelope for tool and resource invocations.
type MCPResponse struct {
	Success   bool                   `json:"success"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// HealthResponse is the data payload of GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func APISuccess(data interface{}, message string) APIResponse {
	if message == "" {
		message = "OK"
	}
	return APIResponse{
		Status:    "success",
		Code:      http.StatusOK,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	}
}

func APIError(message string, code int) APIResponse {
	return APIResponse{
		Status:    "error",
		Code:      code,
		Message:   message,
		Timestamp: timestamp(),
	}
}

func MCPSuccess(data map[string]interface{}) MCPResponse {
	if data == nil {
		data = map[string]interface{}{}
	}
	return MCPResponse{Success: true, Data: data, Timestamp: timestamp()}
}

func MCPError(message string) MCPResponse {
	return MCPResponse{Success: false, Error: &message, Timestamp: timestamp()}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, APIError(message, code))
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
