package monitor

import "time"

// Status is a point-in-time snapshot of dependency health.
type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	Buffer     bool      `json:"buffer"`
	BufferSize int       `json:"buffer_size"`
	LastCheck  time.Time `json:"last_check"`
}

// Healthy reports whether both primary datastores are reachable. A buffer
// failure degrades offline tolerance but does not take the service down.
func (s Status) Healthy() bool {
	return s.PostgreSQL && s.Redis
}
