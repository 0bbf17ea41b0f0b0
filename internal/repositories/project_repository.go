package repositories

import (
	"context"
	"database/sql"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	// HasTaskMembership reports whether the user belongs to any task inside
	// the project. This is the read-side of the access-isolation rule: task
	// invitees may see the project shell without project membership.
	HasTaskMembership(ctx context.Context, projectID, userID string) (bool, error)
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	const q = `
		INSERT INTO projects (id, name, created_by)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, q, project.ID, project.Name, project.CreatedBy).Scan(&project.CreatedAt); err != nil {
		return err
	}
	const mq = `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING
	`
	for _, m := range project.Members {
		if _, err := r.db.ExecContext(ctx, mq, project.ID, m.User, m.Role); err != nil {
			return err
		}
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	const q = `SELECT id, name, created_by, created_at FROM projects WHERE id = $1`
	project := &models.Project{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&project.ID, &project.Name, &project.CreatedBy, &project.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("project %s", id)
	}
	if err != nil {
		return nil, err
	}

	const mq = `SELECT user_id, role FROM project_members WHERE project_id = $1 ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, mq, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m models.ProjectMember
		if err := rows.Scan(&m.User, &m.Role); err != nil {
			return nil, err
		}
		project.Members = append(project.Members, m)
	}
	return project, rows.Err()
}

func (r *projectRepository) HasTaskMembership(ctx context.Context, projectID, userID string) (bool, error) {
	const q = `SELECT 1 FROM tasks WHERE project_id = $1 AND $2 = ANY(members) LIMIT 1`
	var dummy int
	err := r.db.QueryRowContext(ctx, q, projectID, userID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
