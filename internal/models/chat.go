package models

import "time"

// Chat is the per-task message log. At most one chat exists per task; it is
// created lazily on first message or first read. Members are kept as a set
// distinct from, but synced with, the task's members.
type Chat struct {
	ID        string    `json:"_id"`
	TaskID    string    `json:"taskId,omitempty"`
	ProjectID string    `json:"projectId,omitempty"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Chat) IsMember(userID string) bool {
	for _, m := range c.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Message is immutable once appended. Replies link one level deep: Parent is
// resolved against the same chat's message log and never nests further.
type Message struct {
	ID        string    `json:"_id"`
	Sender    UserRef   `json:"sender"`
	Content   string    `json:"content"`
	ParentID  string    `json:"-"`
	Parent    *Message  `json:"parentMessage,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
