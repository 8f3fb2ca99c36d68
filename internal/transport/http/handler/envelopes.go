package handler

import (
	"encoding/json"
	"net/http"
)

// MessageEnvelope is the fixed response wrapper. Success and failure share
// the same shape: callers only ever see a short human-readable message.
type MessageEnvelope struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Message: msg})
}
