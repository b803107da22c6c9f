package handlers

import (
	"encoding/json"
	"net/http"
)

// apiResponse is the success/data/error envelope used by the flood
// dashboard endpoints.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Note    string      `json:"note,omitempty"`
}

// writeJSON writes a bare JSON body. The vehicle-side endpoints respond
// with plain payloads rather than the envelope.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, apiResponse{Success: true, Data: data})
}

func respondSuccessNote(w http.ResponseWriter, status int, data interface{}, note string) {
	writeJSON(w, status, apiResponse{Success: true, Data: data, Note: note})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Error: message})
}
