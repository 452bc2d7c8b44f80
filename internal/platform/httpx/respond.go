// Package httpx writes the JSON answers of the script endpoints: live form
// snapshots, notifications, layout state and job health.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ProblemType is used for every problem; the title carries the meaning.
const ProblemType = "about:blank"

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// JSON sends a JSON response. The payloads are per session, so they are never
// cached.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, "application/json", status, data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	write(w, "application/problem+json", status, ProblemDetail{
		Type:   ProblemType,
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func write(w http.ResponseWriter, contentType string, status int, data any) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
