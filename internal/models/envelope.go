package models

import (
	"encoding/json"
	"time"
)

// StatusError is the only status value carried by an ErrorEnvelope
const StatusError = "error"

// ErrorEnvelope is the single error body shape for every request kind
type ErrorEnvelope struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Status    string `json:"status"`
}

// NewErrorEnvelope creates an error envelope stamped with the given time
func NewErrorEnvelope(message string, now time.Time) ErrorEnvelope {
	return ErrorEnvelope{
		Message:   message,
		Timestamp: now.UnixMilli(),
		Status:    StatusError,
	}
}

// JSON encodes the envelope
func (e ErrorEnvelope) JSON() string {
	data, err := json.Marshal(e)
	if err != nil {
		return `{"message":"internal error","timestamp":0,"status":"error"}`
	}
	return string(data)
}
