// Package respond writes the JSON envelopes every endpoint returns.
package respond

import (
	"encoding/json"
	"net/http"
)

// Envelope is the success shape: {"success":true,"message":...,"data":...}.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorBody is the inner object of a failure envelope.
type ErrorBody struct {
	Message        string `json:"message"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
	StackTrace     string `json:"stackTrace,omitempty"`
}

// ErrorEnvelope is the failure shape: {"success":false,"errors":{...}}.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Errors  ErrorBody `json:"errors"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a success envelope.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a failure envelope.
func Error(w http.ResponseWriter, status int, body ErrorBody) {
	JSON(w, status, ErrorEnvelope{Success: false, Errors: body})
}
