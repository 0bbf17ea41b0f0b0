package services

import (
	"context"
	"errors"
	"testing"

	"projecthub/internal/errs"
	"projecthub/internal/models"
	"projecthub/internal/realtime"
)

func TestCreateValidatesInput(t *testing.T) {
	f := newFixture(t)
	f.addUser("b", "Bob", models.RoleEditor)
	ctx := context.Background()

	cases := []struct {
		name      string
		recipient string
		typ       models.NotificationType
		message   string
	}{
		{"missing recipient", "", models.NotifGeneral, "hi"},
		{"bad type", "b", "carrierPigeon", "hi"},
		{"missing message", "b", models.NotifGeneral, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.notify.Create(ctx, tc.recipient, tc.typ, tc.message, "", "")
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}

	if _, err := f.notify.Create(ctx, "ghost", models.NotifGeneral, "hi", "", ""); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown recipient should be not-found, got %v", err)
	}
}

func TestCreatePushesToPersonalRoom(t *testing.T) {
	f := newFixture(t)
	f.addUser("b", "Bob", models.RoleEditor)

	n, err := f.notify.Create(context.Background(), "b", models.NotifGeneral, "heads up", "t1", "p1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.Status != models.StatusPending || n.IsRead {
		t.Fatalf("fresh notification should be pending/unread: %+v", n)
	}

	pushed := f.publisher.byEvent(realtime.EventNewNotification)
	if len(pushed) != 1 || pushed[0].Room != realtime.UserRoom("b") {
		t.Fatalf("expected one newNotification on user_b, got %+v", pushed)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	f := newFixture(t)
	f.addUser("b", "Bob", models.RoleEditor)
	ctx := context.Background()

	n, err := f.notify.Create(ctx, "b", models.NotifGeneral, "heads up", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := f.notify.MarkRead(ctx, n.ID, "b")
	if err != nil || !first.IsRead {
		t.Fatalf("first mark-read: %v (%+v)", err, first)
	}
	second, err := f.notify.MarkRead(ctx, n.ID, "b")
	if err != nil {
		t.Fatalf("second mark-read must be a no-op, got %v", err)
	}
	if !second.IsRead {
		t.Fatal("isRead flipped back")
	}
	if updates := f.publisher.byEvent(realtime.EventNotificationUpdated); len(updates) != 1 {
		t.Fatalf("no-op mark-read should not re-publish, got %d updates", len(updates))
	}
}

func TestMarkReadOwnership(t *testing.T) {
	f := newFixture(t)
	f.addUser("b", "Bob", models.RoleEditor)
	f.addUser("c", "Carol", models.RoleViewer)
	ctx := context.Background()

	n, err := f.notify.Create(ctx, "b", models.NotifGeneral, "heads up", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.notify.MarkRead(ctx, n.ID, "c"); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("foreign mark-read should be forbidden, got %v", err)
	}
}

func TestMarkAllReadReportsCount(t *testing.T) {
	f := newFixture(t)
	f.addUser("b", "Bob", models.RoleEditor)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.notify.Create(ctx, "b", models.NotifGeneral, "heads up", "", ""); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	count, err := f.notify.MarkAllRead(ctx, "b")
	if err != nil || count != 3 {
		t.Fatalf("want count 3, got %d (%v)", count, err)
	}
	// Zero matches is success with count 0.
	count, err = f.notify.MarkAllRead(ctx, "b")
	if err != nil || count != 0 {
		t.Fatalf("want count 0, got %d (%v)", count, err)
	}

	marked := f.publisher.byEvent(realtime.EventNotificationsMarkedRead)
	if len(marked) != 2 {
		t.Fatalf("expected two notificationsMarkedRead events, got %d", len(marked))
	}
	if ev, ok := marked[0].Payload.(realtime.MarkedReadEvent); !ok || ev.Count != 3 {
		t.Fatalf("unexpected payload %+v", marked[0].Payload)
	}
}

func TestListForUserNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.addUser("b", "Bob", models.RoleEditor)
	ctx := context.Background()

	older, _ := f.notify.Create(ctx, "b", models.NotifGeneral, "first", "", "")
	newer, _ := f.notify.Create(ctx, "b", models.NotifGeneral, "second", "", "")

	list, err := f.notify.ListForUser(ctx, "b")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Fatalf("want newest first, got %+v", list)
	}
}

func TestDeleteOwnership(t *testing.T) {
	f := newFixture(t)
	f.addUser("b", "Bob", models.RoleEditor)
	f.addUser("c", "Carol", models.RoleViewer)
	ctx := context.Background()

	n, _ := f.notify.Create(ctx, "b", models.NotifGeneral, "heads up", "", "")
	if err := f.notify.Delete(ctx, n.ID, "c"); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("foreign delete should be forbidden, got %v", err)
	}
	if err := f.notify.Delete(ctx, n.ID, "b"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := f.notifications.FindByID(ctx, n.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatal("delete did not remove the record")
	}
}
