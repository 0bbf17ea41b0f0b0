package services

import (
	"context"

	"github.com/google/uuid"

	"projecthub/internal/errs"
	"projecthub/internal/models"
	"projecthub/internal/realtime"
	"projecthub/internal/repositories"
)

// NotificationService is the durable write-then-read path every mention and
// invite funnels through. The persisted record is the source of truth; the
// realtime push is a hint about it and may be lost.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	publisher     realtime.Publisher
}

func NewNotificationService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	publisher realtime.Publisher,
) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, publisher: publisher}
}

// Create persists a notification for the recipient and pushes it to their
// personal room. The push never fails the create.
func (s *NotificationService) Create(
	ctx context.Context,
	recipientID string,
	typ models.NotificationType,
	message string,
	taskID, projectID string,
) (*models.Notification, error) {
	if recipientID == "" {
		return nil, errs.Validation("recipient is required")
	}
	if !typ.Valid() {
		return nil, errs.Validation("unknown notification type %q", typ)
	}
	if message == "" {
		return nil, errs.Validation("message is required")
	}
	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		return nil, err
	}

	n := &models.Notification{
		ID:        uuid.NewString(),
		User:      recipientID,
		Type:      typ,
		Message:   message,
		TaskID:    taskID,
		ProjectID: projectID,
		Status:    models.StatusPending,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	s.publisher.Publish(realtime.UserRoom(recipientID), realtime.EventNewNotification, n)
	return n, nil
}

// ListForUser returns the user's notifications, newest first. Unbounded.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.notifications.ListForUser(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifications.CountUnread(ctx, userID)
}

// MarkRead flips isRead once. Re-marking an already-read notification is a
// no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID string) (*models.Notification, error) {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.User != callerID {
		return nil, errs.Forbidden("notification belongs to another user")
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		return nil, err
	}
	n.IsRead = true
	s.publisher.Publish(realtime.UserRoom(callerID), realtime.EventNotificationUpdated, n)
	return n, nil
}

// MarkAllRead flips every unread record and reports the count. Zero matches
// is success with count 0.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	count, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.publisher.Publish(realtime.UserRoom(userID), realtime.EventNotificationsMarkedRead, realtime.MarkedReadEvent{Count: count})
	return count, nil
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, callerID string) error {
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.User != callerID {
		return errs.Forbidden("notification belongs to another user")
	}
	return s.notifications.Delete(ctx, notificationID)
}
