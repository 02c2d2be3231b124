package transport

import (
	"encoding/json"
	"time"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// LoginResponse couples the issued token with its session record.
type LoginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DeleteItemResponse reports how many nodes a cascade delete removed.
type DeleteItemResponse struct {
	Deleted int `json:"deleted"`
}

// CompleteAllResponse reports how many items a bulk completion updated.
type CompleteAllResponse struct {
	Count int `json:"count"`
}

// ToggleCompleteResponse carries the toggled item plus every other node the
// cascade or propagation touched.
type ToggleCompleteResponse struct {
	Item     interface{} `json:"item"`
	Affected []string    `json:"affected_ids,omitempty"`
}
