package models

import "time"

// ActivityEntry is an append-only audit record. Only the IsRead flag is ever
// mutated after creation.
type ActivityEntry struct {
	ID          string            `json:"_id"`
	UserID      string            `json:"userId"`
	Action      string            `json:"action"`
	EntityType  string            `json:"entityType"`
	EntityID    string            `json:"entityId"`
	Description string            `json:"description"`
	Details     string            `json:"details,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	IsRead      bool              `json:"isRead"`
	CreatedAt   time.Time         `json:"createdAt"`
}
