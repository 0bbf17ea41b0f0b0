package realtime

import (
	"encoding/json"
	"log"
)

// Session drives one authenticated connection: auto-join of the personal
// room, then the joinTaskChat/leaveTaskChat loop until disconnect.
type Session struct {
	hub    *Hub
	conn   *Conn
	userID string
}

func NewSession(hub *Hub, conn *Conn, userID string) *Session {
	return &Session{hub: hub, conn: conn, userID: userID}
}

// Serve blocks for the lifetime of the connection. The personal room is
// joined exactly once and never explicitly left; disconnect tears down all
// room memberships.
func (s *Session) Serve() {
	s.hub.Join(UserRoom(s.userID), s.conn)
	defer func() {
		s.hub.DropAll(s.conn)
		_ = s.conn.Close()
	}()

	for {
		env, err := s.conn.ReadEvent()
		if err != nil {
			return
		}
		switch env.Event {
		case eventJoinTaskChat:
			taskID := taskIDFrom(env.Data)
			if taskID == "" {
				log.Printf("realtime: joinTaskChat without task id from user %s", s.userID)
				continue
			}
			s.hub.Join(TaskRoom(taskID), s.conn)
			_ = s.conn.WriteEvent(eventJoinedTaskChat, map[string]string{"taskId": taskID})
		case eventLeaveTaskChat:
			taskID := taskIDFrom(env.Data)
			if taskID == "" {
				log.Printf("realtime: leaveTaskChat without task id from user %s", s.userID)
				continue
			}
			s.hub.Leave(TaskRoom(taskID), s.conn)
		default:
			// unknown client events are ignored
		}
	}
}

// taskIDFrom accepts either a bare task id string or {"taskId": "..."}.
func taskIDFrom(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return plain
	}
	var obj struct {
		TaskID string `json:"taskId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj.TaskID
	}
	return ""
}
