package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// APIError is a non-2xx response reduced to one human-readable message
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// maxErrorBody caps how much of a non-JSON error body is surfaced
const maxErrorBody = 200

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: errorMessage(status, body)}
}

// errorMessage prefers a JSON "message" field, then a plain-text body, then
// the status text
func errorMessage(status int, body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > 0 {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Valid(body) {
			if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
				return strings.TrimSpace(payload.Message)
			}
		} else {
			msg := string(body)
			if len(msg) > maxErrorBody {
				msg = msg[:maxErrorBody] + "..."
			}
			return msg
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}
