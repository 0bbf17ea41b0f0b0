package models

import (
	"encoding/json"
	"testing"
)

func TestNotificationMarshalEmitsBothTaskKeys(t *testing.T) {
	n := Notification{ID: "n1", User: "u1", Type: NotifMention, Message: "hi", TaskID: "t1"}
	raw, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["task"] != "t1" || m["taskId"] != "t1" {
		t.Fatalf("want task and taskId both set, got %v", m)
	}
}

func TestNotificationMarshalOmitsEmptyTask(t *testing.T) {
	n := Notification{ID: "n1", User: "u1", Type: NotifGeneral, Message: "hi"}
	raw, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["task"]; ok {
		t.Fatal("empty task serialized")
	}
	if _, ok := m["taskId"]; ok {
		t.Fatal("empty taskId serialized")
	}
}

func TestNotificationTypeLifecycle(t *testing.T) {
	if !NotifTaskChatInvite.IsInvite() || !NotifProjectInvite.IsInvite() {
		t.Fatal("invite types must carry a response lifecycle")
	}
	if NotifMention.IsInvite() || NotifGeneral.IsInvite() {
		t.Fatal("non-invite types must not")
	}
	if NotificationType("carrierPigeon").Valid() {
		t.Fatal("unknown type accepted")
	}
}
