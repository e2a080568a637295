// Package response writes the uniform JSON envelope used by every endpoint:
//
//	{"success": true, "status": 200, "data": {...}, "message": "..."}
//
// message is a string for most responses and a list of field-level messages
// for validation failures.
package response

import (
	"encoding/json"
	"net/http"
	"sort"
)

type envelope struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message interface{} `json:"message,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 response with data and a message.
func Success(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusOK, envelope{Success: true, Status: http.StatusOK, Data: data, Message: message})
}

// Created sends a 201 response with data and a message.
func Created(w http.ResponseWriter, data interface{}, message string) {
	write(w, http.StatusCreated, envelope{Success: true, Status: http.StatusCreated, Data: data, Message: message})
}

// Error sends an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Status: status, Message: message})
}

// ValidationError sends a 400 with the full list of field-level messages.
// The field map is flattened to a sorted list so output is stable.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(errs))
	for _, f := range fields {
		messages = append(messages, errs[f])
	}

	write(w, http.StatusBadRequest, envelope{
		Success: false,
		Status:  http.StatusBadRequest,
		Message: messages,
	})
}

// BadRequest sends a 400 with a single message.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found"
	}
	Error(w, http.StatusNotFound, message)
}

// Internal sends a 500 with a generic message. Details belong in the log,
// never in the response body.
func Internal(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message)
}
