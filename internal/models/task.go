package models

import "time"

// Task members hold task-scoped chat/visibility access, independent of
// project membership. CreatedBy and AssignedTo are seeded at creation.
type Task struct {
	ID         string    `json:"_id"`
	Title      string    `json:"title"`
	ProjectID  string    `json:"project"`
	AssignedTo string    `json:"assignedTo,omitempty"`
	CreatedBy  string    `json:"createdBy"`
	Members    []string  `json:"members"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (t *Task) IsMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}
