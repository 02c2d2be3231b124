package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EntityList = "list"
	EntityItem = "item"

	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Entry represents a write that should be replayed once primary storage is
// reachable again. Only non-cascading writes are ever enqueued.
type Entry struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Priority <= 0 || e.Priority > 5 {
		e.Priority = 3
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
