package realtime

// Server-pushed event names. Personal-room events carry the notification
// wire shape; task-room events carry message/goal/membership payloads.
const (
	EventNewNotification         = "newNotification"
	EventNotificationUpdated     = "notificationUpdated"
	EventNotificationsMarkedRead = "notificationsMarkedRead"
	EventNewTaskMessage          = "newTaskMessage"
	EventMemberJoinedTaskChat    = "memberJoinedTaskChat"
	EventMemberLeftTaskChat      = "memberLeftTaskChat"
	EventTaskGoalCreated         = "taskGoalCreated"
	EventTaskGoalUpdated         = "taskGoalUpdated"
	EventTaskGoalDeleted         = "taskGoalDeleted"
)

// Client-emitted signals handled by the session loop.
const (
	eventJoinTaskChat   = "joinTaskChat"
	eventLeaveTaskChat  = "leaveTaskChat"
	eventJoinedTaskChat = "joinedTaskChat"
)

func UserRoom(userID string) string { return "user_" + userID }
func TaskRoom(taskID string) string { return "task_" + taskID }

// Publisher is the fan-out capability injected into services. Delivery is
// best effort and at most once: the durable store write always precedes the
// publish, and a failed or missed push is never an application error.
type Publisher interface {
	Publish(room, event string, payload any)
}

// NopPublisher drops every event. Used where no transport is wired.
type NopPublisher struct{}

func (NopPublisher) Publish(room, event string, payload any) {}

type MembershipEvent struct {
	UserID string `json:"userId"`
	TaskID string `json:"taskId"`
}

type MarkedReadEvent struct {
	Count int `json:"count"`
}
