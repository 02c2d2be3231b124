package transport

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TTL      int    `json:"ttl_seconds"`
}

// ListRequest creates or updates a todo list. Pointer fields distinguish
// "absent" from "set to empty" on update.
type ListRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ItemCreateRequest creates a todo item, optionally nested under a parent.
type ItemCreateRequest struct {
	ListID      string  `json:"list_id"`
	ParentID    *string `json:"parent_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
}

// ItemUpdateRequest updates item fields. Completion and collapse are routed
// through their own endpoints because they carry side effects.
type ItemUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Order       *int    `json:"order"`
}

// MoveToListRequest moves a root item to another list.
type MoveToListRequest struct {
	TargetListID string `json:"target_list_id"`
}

// MoveToParentRequest re-parents an item; null means move to root level.
type MoveToParentRequest struct {
	NewParentID *string `json:"new_parent_id"`
}
