package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"projecthub/internal/authz"
	"projecthub/internal/errs"
	"projecthub/internal/models"
	"projecthub/internal/repositories"
)

type TaskService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	users    repositories.UserRepository
	notify   *NotificationService
	activity *ActivityService
}

func NewTaskService(
	tasks repositories.TaskRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	notify *NotificationService,
	activity *ActivityService,
) *TaskService {
	return &TaskService{tasks: tasks, projects: projects, users: users, notify: notify, activity: activity}
}

// Create seeds the member set with the creator and, when set, the assignee.
// The assignee is told with a durable notification; its push may be lost.
func (s *TaskService) Create(ctx context.Context, callerID, title, projectID, assignedTo string) (*models.Task, error) {
	if title == "" {
		return nil, errs.Validation("title is required")
	}
	if projectID == "" {
		return nil, errs.Validation("project is required")
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	role, ok := project.RoleOf(callerID)
	if !ok || !authz.IsElevated(role) {
		return nil, errs.Forbidden("requires an admin or editor role in the project")
	}

	members := []string{callerID}
	if assignedTo != "" && assignedTo != callerID {
		if _, err := s.users.FindByID(ctx, assignedTo); err != nil {
			return nil, err
		}
		members = append(members, assignedTo)
	}
	task := &models.Task{
		ID:         uuid.NewString(),
		Title:      title,
		ProjectID:  projectID,
		AssignedTo: assignedTo,
		CreatedBy:  callerID,
		Members:    members,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, callerID, "task.created", "task", task.ID, fmt.Sprintf("created task %q", title), nil)
	if assignedTo != "" && assignedTo != callerID {
		message := fmt.Sprintf("You were assigned to task %q", title)
		if _, err := s.notify.Create(ctx, assignedTo, models.NotifGeneral, message, task.ID, projectID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// Get is visible to task members and project members alike.
func (s *TaskService) Get(ctx context.Context, taskID, callerID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsMember(callerID) {
		return task, nil
	}
	project, err := s.projects.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if !project.HasMember(callerID) {
		return nil, errs.Forbidden("no access to this task")
	}
	return task, nil
}
