package domain

import "time"

// Priority classifies item urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Item is a node in a list's task tree. ParentID is nil for roots; when set
// it must reference an item in the same list, and the parent relation within
// a list always forms a forest.
type Item struct {
	ID          string    `json:"id"`
	ListID      string    `json:"list_id"`
	ParentID    *string   `json:"parent_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"is_completed"`
	Collapsed   bool      `json:"is_collapsed"`
	Order       int       `json:"order"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsRoot reports whether the item sits at the top level of its list.
func (i *Item) IsRoot() bool {
	return i != nil && i.ParentID == nil
}

// HasParent reports whether the item is nested under parentID.
func (i *Item) HasParent(parentID string) bool {
	return i != nil && i.ParentID != nil && *i.ParentID == parentID
}
