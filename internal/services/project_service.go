package services

import (
	"context"

	"projecthub/internal/errs"
	"projecthub/internal/models"
	"projecthub/internal/repositories"
)

type ProjectService struct {
	projects repositories.ProjectRepository
}

func NewProjectService(projects repositories.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// Get applies the read-side of the isolation rule: the project shell is
// visible to project members and to anyone holding a task membership within
// it, without that visibility implying project membership.
func (s *ProjectService) Get(ctx context.Context, projectID, callerID string) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.HasMember(callerID) {
		return project, nil
	}
	viaTask, err := s.projects.HasTaskMembership(ctx, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if !viaTask {
		return nil, errs.Forbidden("no access to this project")
	}
	return project, nil
}
