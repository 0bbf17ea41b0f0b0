package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

type ActivityRepository interface {
	Append(ctx context.Context, entry *models.ActivityEntry) error
	FindByID(ctx context.Context, id string) (*models.ActivityEntry, error)
	ListForUser(ctx context.Context, userID string) ([]*models.ActivityEntry, error)
	MarkRead(ctx context.Context, id string) error
}

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	var metadata []byte
	if entry.Metadata != nil {
		metadata, _ = json.Marshal(entry.Metadata)
	}
	const q = `
		INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, description, details, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, q,
		entry.ID, entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		entry.Description, entry.Details, metadata,
	).Scan(&entry.CreatedAt)
}

func (r *activityRepository) FindByID(ctx context.Context, id string) (*models.ActivityEntry, error) {
	const q = `
		SELECT id, user_id, action, entity_type, entity_id, description, details, metadata, is_read, created_at
		FROM activity_log WHERE id = $1
	`
	entry := &models.ActivityEntry{}
	var metadata []byte
	err := r.db.QueryRowContext(ctx, q, id).Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.EntityType,
		&entry.EntityID, &entry.Description, &entry.Details, &metadata, &entry.IsRead, &entry.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("activity entry %s", id)
	}
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &entry.Metadata)
	}
	return entry, nil
}

func (r *activityRepository) ListForUser(ctx context.Context, userID string) ([]*models.ActivityEntry, error) {
	const q = `
		SELECT id, user_id, action, entity_type, entity_id, description, details, metadata, is_read, created_at
		FROM activity_log WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ActivityEntry
	for rows.Next() {
		entry := &models.ActivityEntry{}
		var metadata []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.EntityType, &entry.EntityID,
			&entry.Description, &entry.Details, &metadata, &entry.IsRead, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &entry.Metadata)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *activityRepository) MarkRead(ctx context.Context, id string) error {
	const q = `UPDATE activity_log SET is_read = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
