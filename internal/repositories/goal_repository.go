package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

type GoalRepository interface {
	Create(ctx context.Context, goal *models.TaskGoal) error
	FindByID(ctx context.Context, id string) (*models.TaskGoal, error)
	ListByChat(ctx context.Context, chatID string) ([]*models.TaskGoal, error)
	UpdateStatus(ctx context.Context, id string, status models.GoalStatus) error
	UpdateTitle(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
}

type goalRepository struct {
	db *sql.DB
}

func NewGoalRepository(db *sql.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *models.TaskGoal) error {
	const q = `
		INSERT INTO task_goals (id, chat_id, title, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, q, goal.ID, goal.ChatID, goal.Title, goal.Status, goal.CreatedBy).Scan(&goal.CreatedAt)
}

func (r *goalRepository) FindByID(ctx context.Context, id string) (*models.TaskGoal, error) {
	const q = `SELECT id, chat_id, title, status, created_by, created_at FROM task_goals WHERE id = $1`
	goal := &models.TaskGoal{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&goal.ID, &goal.ChatID, &goal.Title, &goal.Status, &goal.CreatedBy, &goal.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("goal %s", id)
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}

func (r *goalRepository) ListByChat(ctx context.Context, chatID string) ([]*models.TaskGoal, error) {
	const q = `
		SELECT id, chat_id, title, status, created_by, created_at
		FROM task_goals WHERE chat_id = $1 ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*models.TaskGoal
	for rows.Next() {
		goal := &models.TaskGoal{}
		if err := rows.Scan(&goal.ID, &goal.ChatID, &goal.Title, &goal.Status, &goal.CreatedBy, &goal.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) UpdateStatus(ctx context.Context, id string, status models.GoalStatus) error {
	const q = `UPDATE task_goals SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

func (r *goalRepository) UpdateTitle(ctx context.Context, id, title string) error {
	const q = `UPDATE task_goals SET title = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, title)
	return err
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM task_goals WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
