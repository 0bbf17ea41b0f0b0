package models

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotifTaskChatInvite NotificationType = "taskChatInvite"
	NotifProjectInvite  NotificationType = "projectInvite"
	NotifProjectUpdate  NotificationType = "projectUpdate"
	NotifMention        NotificationType = "mention"
	NotifGeneral        NotificationType = "general"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifTaskChatInvite, NotifProjectInvite, NotifProjectUpdate, NotifMention, NotifGeneral:
		return true
	}
	return false
}

// IsInvite reports whether the type carries a pending/accepted/declined
// response lifecycle.
func (t NotificationType) IsInvite() bool {
	return t == NotifTaskChatInvite || t == NotifProjectInvite
}

type NotificationStatus string

const (
	StatusPending  NotificationStatus = "pending"
	StatusAccepted NotificationStatus = "accepted"
	StatusDeclined NotificationStatus = "declined"
)

// Notification is the durable record of "this user was told X". The realtime
// push is a hint about this record and may be dropped; the record is the
// source of truth.
type Notification struct {
	ID        string             `json:"_id"`
	User      string             `json:"user"`
	Type      NotificationType   `json:"type"`
	Message   string             `json:"message"`
	TaskID    string             `json:"task,omitempty"`
	ProjectID string             `json:"project,omitempty"`
	Status    NotificationStatus `json:"status"`
	IsRead    bool               `json:"isRead"`
	CreatedAt time.Time          `json:"createdAt"`
}

// MarshalJSON emits both "task" and "taskId" for the single canonical task
// reference. Older clients read taskId; the persisted model keeps one field.
func (n Notification) MarshalJSON() ([]byte, error) {
	type alias Notification
	out := struct {
		alias
		TaskIDAlias string `json:"taskId,omitempty"`
	}{alias: alias(n), TaskIDAlias: n.TaskID}
	return json.Marshal(out)
}
