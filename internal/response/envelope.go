package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// TimestampLayout matches JavaScript's Date.toISOString output.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the uniform body of every API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// ISOTimestamp formats t in UTC with millisecond precision.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// New builds an envelope stamped with the given instant.
func New(now time.Time, success bool, message string, data any) Envelope {
	return Envelope{
		Success:   success,
		Message:   message,
		Timestamp: ISOTimestamp(now),
		Data:      data,
	}
}

// Write encodes env as JSON with the given status code.
func Write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(env)
}
