package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	// AddMember inserts into the member set if absent. Safe under concurrent
	// callers: the check and the append are one statement.
	AddMember(ctx context.Context, taskID, userID string) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	const q = `
		INSERT INTO tasks (id, title, project_id, assigned_to, created_by, members)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, q,
		task.ID, task.Title, task.ProjectID, task.AssignedTo, task.CreatedBy,
		pq.StringArray(task.Members),
	).Scan(&task.CreatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	const q = `
		SELECT id, title, project_id, assigned_to, created_by, members, created_at
		FROM tasks WHERE id = $1
	`
	task := &models.Task{}
	var members pq.StringArray
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&task.ID, &task.Title, &task.ProjectID, &task.AssignedTo, &task.CreatedBy,
		&members, &task.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("task %s", id)
	}
	if err != nil {
		return nil, err
	}
	task.Members = []string(members)
	return task, nil
}

func (r *taskRepository) AddMember(ctx context.Context, taskID, userID string) error {
	const q = `
		UPDATE tasks SET members = array_append(members, $2)
		WHERE id = $1 AND NOT ($2 = ANY(members))
	`
	_, err := r.db.ExecContext(ctx, q, taskID, userID)
	return err
}
