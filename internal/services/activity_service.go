package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"projecthub/internal/errs"
	"projecthub/internal/models"
	"projecthub/internal/repositories"
)

type ActivityService struct {
	activity repositories.ActivityRepository
}

func NewActivityService(activity repositories.ActivityRepository) *ActivityService {
	return &ActivityService{activity: activity}
}

// Record appends an audit entry. The audit trail is a side effect of the
// primary operation: a failed append is logged and never propagated.
func (s *ActivityService) Record(ctx context.Context, userID, action, entityType, entityID, description string, metadata map[string]string) {
	entry := &models.ActivityEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Metadata:    metadata,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		log.Printf("activity: failed to record %s/%s for user %s: %v", action, entityID, userID, err)
	}
}

func (s *ActivityService) ListForUser(ctx context.Context, userID string) ([]*models.ActivityEntry, error) {
	return s.activity.ListForUser(ctx, userID)
}

// MarkRead flips the only mutable flag an entry carries.
func (s *ActivityService) MarkRead(ctx context.Context, entryID, callerID string) error {
	entry, err := s.activity.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserID != callerID {
		return errs.Forbidden("activity entry belongs to another user")
	}
	if entry.IsRead {
		return nil
	}
	return s.activity.MarkRead(ctx, entryID)
}
