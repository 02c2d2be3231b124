package domain

import "time"

// List is a user-owned todo list. Ownership is fixed at creation; deleting a
// list removes every item in it.
type List struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (l *List) OwnedBy(userID string) bool {
	return l != nil && userID != "" && l.UserID == userID
}
