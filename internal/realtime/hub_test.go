package realtime

import (
	"encoding/json"
	"errors"
	"testing"
)

type fakeSink struct {
	events []string
	fail   bool
}

func (f *fakeSink) WriteEvent(event string, payload any) error {
	if f.fail {
		return errors.New("write failed")
	}
	f.events = append(f.events, event)
	return nil
}

func TestJoinIsIdempotent(t *testing.T) {
	h := NewHub()
	s := &fakeSink{}
	h.Join(TaskRoom("t1"), s)
	h.Join(TaskRoom("t1"), s)

	h.Publish(TaskRoom("t1"), "ping", nil)
	if len(s.events) != 1 {
		t.Fatalf("double join must not double delivery, got %d events", len(s.events))
	}
}

func TestLeaveUnjoinedRoomIsNoop(t *testing.T) {
	h := NewHub()
	s := &fakeSink{}
	h.Leave(TaskRoom("t1"), s)
	h.Leave("never-existed", s)
}

func TestPublishToEmptyRoom(t *testing.T) {
	h := NewHub()
	h.Publish(TaskRoom("t1"), "ping", nil)
}

func TestPublishReachesOnlyRoomMembers(t *testing.T) {
	h := NewHub()
	a, b := &fakeSink{}, &fakeSink{}
	h.Join(UserRoom("a"), a)
	h.Join(UserRoom("b"), b)
	h.Join(TaskRoom("t1"), a)
	h.Join(TaskRoom("t1"), b)

	h.Publish(UserRoom("a"), "personal", nil)
	h.Publish(TaskRoom("t1"), "shared", nil)

	if len(a.events) != 2 {
		t.Fatalf("a should see both events, got %v", a.events)
	}
	if len(b.events) != 1 || b.events[0] != "shared" {
		t.Fatalf("b should see only the task event, got %v", b.events)
	}
}

func TestLeaveStopsDelivery(t *testing.T) {
	h := NewHub()
	s := &fakeSink{}
	h.Join(TaskRoom("t1"), s)
	h.Leave(TaskRoom("t1"), s)
	h.Publish(TaskRoom("t1"), "ping", nil)
	if len(s.events) != 0 {
		t.Fatalf("left sink still got %v", s.events)
	}
}

func TestDropAllClearsEveryRoom(t *testing.T) {
	h := NewHub()
	s := &fakeSink{}
	h.Join(UserRoom("a"), s)
	h.Join(TaskRoom("t1"), s)
	h.Join(TaskRoom("t2"), s)

	h.DropAll(s)

	for _, room := range []string{UserRoom("a"), TaskRoom("t1"), TaskRoom("t2")} {
		h.Publish(room, "ping", nil)
	}
	if len(s.events) != 0 {
		t.Fatalf("dropped sink still got %v", s.events)
	}
}

func TestPublishSwallowsWriteErrors(t *testing.T) {
	h := NewHub()
	broken := &fakeSink{fail: true}
	ok := &fakeSink{}
	h.Join(TaskRoom("t1"), broken)
	h.Join(TaskRoom("t1"), ok)

	h.Publish(TaskRoom("t1"), "ping", nil)
	if len(ok.events) != 1 {
		t.Fatal("failure on one sink must not block the others")
	}
}

func TestTaskIDFrom(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"bare string", `"t1"`, "t1"},
		{"object form", `{"taskId":"t1"}`, "t1"},
		{"object missing key", `{"other":"t1"}`, ""},
		{"empty string", `""`, ""},
		{"empty payload", ``, ""},
		{"garbage", `[1,2]`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := taskIDFrom(json.RawMessage(tc.data))
			if got != tc.want {
				t.Fatalf("taskIDFrom(%q) = %q, want %q", tc.data, got, tc.want)
			}
		})
	}
}
