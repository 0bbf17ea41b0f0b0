package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead flips is_read to true. Already-read rows are left as they are.
	MarkRead(ctx context.Context, id string) error
	// MarkAllRead returns the number of rows flipped.
	MarkAllRead(ctx context.Context, userID string) (int, error)
	UpdateStatus(ctx context.Context, id string, status models.NotificationStatus, isRead bool) error
	Delete(ctx context.Context, id string) error
}

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	const q = `
		INSERT INTO notifications (id, user_id, type, message, task_id, project_id, status, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, q,
		n.ID, n.User, n.Type, n.Message, n.TaskID, n.ProjectID, n.Status, n.IsRead,
	).Scan(&n.CreatedAt)
}

func (r *notificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	const q = `
		SELECT id, user_id, type, message, task_id, project_id, status, is_read, created_at
		FROM notifications WHERE id = $1
	`
	n := &models.Notification{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&n.ID, &n.User, &n.Type, &n.Message, &n.TaskID, &n.ProjectID, &n.Status, &n.IsRead, &n.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("notification %s", id)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	const q = `
		SELECT id, user_id, type, message, task_id, project_id, status, is_read, created_at
		FROM notifications WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(&n.ID, &n.User, &n.Type, &n.Message, &n.TaskID, &n.ProjectID,
			&n.Status, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	const q = `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	var n int
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&n)
	return n, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	const q = `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

func (r *notificationRepository) UpdateStatus(ctx context.Context, id string, status models.NotificationStatus, isRead bool) error {
	const q = `UPDATE notifications SET status = $2, is_read = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status, isRead)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM notifications WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
