package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"projecthub/internal/authz"
	"projecthub/internal/errs"
	"projecthub/internal/models"
	"projecthub/internal/realtime"
	"projecthub/internal/repositories"
)

// Invitation decisions accepted by RespondToInvitation.
const (
	DecisionAccept  = "accept"
	DecisionDecline = "decline"
)

// MembershipService keeps the three membership scopes consistent: project,
// task, and the task's chat. Its governing rule is access isolation — task
// membership grants chat and task visibility without ever granting project
// membership.
type MembershipService struct {
	tasks         repositories.TaskRepository
	chats         repositories.ChatRepository
	projects      repositories.ProjectRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	notify        *NotificationService
	activity      *ActivityService
	publisher     realtime.Publisher
}

func NewMembershipService(
	tasks repositories.TaskRepository,
	chats repositories.ChatRepository,
	projects repositories.ProjectRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
	notify *NotificationService,
	activity *ActivityService,
	publisher realtime.Publisher,
) *MembershipService {
	return &MembershipService{
		tasks:         tasks,
		chats:         chats,
		projects:      projects,
		users:         users,
		notifications: notifications,
		notify:        notify,
		activity:      activity,
		publisher:     publisher,
	}
}

// AddTaskMember inserts the user into the task member set. Adding an
// existing member changes nothing and is not an error.
func (s *MembershipService) AddTaskMember(ctx context.Context, taskID, userID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsMember(userID) {
		return task, nil
	}
	if err := s.tasks.AddMember(ctx, taskID, userID); err != nil {
		return nil, err
	}
	task.Members = append(task.Members, userID)
	return task, nil
}

// SyncChatMembership ensures the task has a chat and that every task member
// is a chat member. The chat is created lazily, seeded with the task creator
// and assignee; both steps are idempotent.
func (s *MembershipService) SyncChatMembership(ctx context.Context, task *models.Task) (*models.Chat, error) {
	chat, err := s.chats.FindByTaskID(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		chat = &models.Chat{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			ProjectID: task.ProjectID,
			Name:      task.Title,
			Members:   []string{task.CreatedBy},
		}
		if task.AssignedTo != "" && task.AssignedTo != task.CreatedBy {
			chat.Members = append(chat.Members, task.AssignedTo)
		}
		if err := s.chats.Create(ctx, chat); err != nil {
			return nil, err
		}
	}
	for _, member := range task.Members {
		if chat.IsMember(member) {
			continue
		}
		if err := s.chats.AddMember(ctx, chat.ID, member); err != nil {
			return nil, err
		}
		chat.Members = append(chat.Members, member)
	}
	return chat, nil
}

// InviteToTaskChat creates a taskChatInvite notification for the invitee.
// Inviting someone who is already a task member is a no-op and returns nil.
// The caller must hold an elevated role in the owning project.
func (s *MembershipService) InviteToTaskChat(ctx context.Context, callerID, taskID, inviteeID string) (*models.Notification, error) {
	if inviteeID == "" {
		return nil, errs.Validation("invitee is required")
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireProjectElevated(ctx, task.ProjectID, callerID); err != nil {
		return nil, err
	}
	if task.IsMember(inviteeID) {
		return nil, nil
	}
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("%s invited you to the chat for task %q", caller.Name, task.Title)
	return s.notify.Create(ctx, inviteeID, models.NotifTaskChatInvite, message, task.ID, task.ProjectID)
}

// RespondToInvitation resolves a pending invite. Accepting a taskChatInvite
// adds the caller to the task and its chat, and to nothing else: project
// membership is deliberately untouched so task-level invitees stay scoped to
// the one task. A second response is a conflict, never a re-mutation.
func (s *MembershipService) RespondToInvitation(ctx context.Context, notificationID, callerID, decision string) (*models.Notification, error) {
	if decision != DecisionAccept && decision != DecisionDecline {
		return nil, errs.Validation("decision must be %q or %q", DecisionAccept, DecisionDecline)
	}
	n, err := s.notifications.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.User != callerID {
		return nil, errs.Forbidden("notification belongs to another user")
	}
	if !n.Type.IsInvite() {
		return nil, errs.Validation("notification %s is not an invitation", notificationID)
	}
	if n.Status != models.StatusPending {
		return nil, errs.Conflict("invitation already responded to (%s)", n.Status)
	}

	if decision == DecisionDecline {
		return s.resolveInvitation(ctx, n, models.StatusDeclined)
	}

	if n.Type == models.NotifTaskChatInvite {
		task, err := s.tasks.FindByID(ctx, n.TaskID)
		if err != nil {
			return nil, err
		}
		task, err = s.AddTaskMember(ctx, task.ID, callerID)
		if err != nil {
			return nil, err
		}
		if _, err := s.SyncChatMembership(ctx, task); err != nil {
			return nil, err
		}
	}

	resolved, err := s.resolveInvitation(ctx, n, models.StatusAccepted)
	if err != nil {
		return nil, err
	}
	if n.Type == models.NotifTaskChatInvite {
		s.publisher.Publish(realtime.TaskRoom(n.TaskID), realtime.EventMemberJoinedTaskChat,
			realtime.MembershipEvent{UserID: callerID, TaskID: n.TaskID})
		s.activity.Record(ctx, callerID, "taskChatInvite.accepted", "task", n.TaskID,
			"joined task chat via invitation", map[string]string{"notificationId": n.ID})
	}
	return resolved, nil
}

func (s *MembershipService) resolveInvitation(ctx context.Context, n *models.Notification, status models.NotificationStatus) (*models.Notification, error) {
	if err := s.notifications.UpdateStatus(ctx, n.ID, status, true); err != nil {
		return nil, err
	}
	n.Status = status
	n.IsRead = true
	s.publisher.Publish(realtime.UserRoom(n.User), realtime.EventNotificationUpdated, n)
	return n, nil
}

// AddTaskMemberBy is the direct-add path: an elevated project member puts a
// user straight into the task without the invite round trip.
func (s *MembershipService) AddTaskMemberBy(ctx context.Context, callerID, taskID, userID string) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.requireProjectElevated(ctx, task.ProjectID, callerID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if task.IsMember(userID) {
		return task, nil
	}
	task, err = s.AddTaskMember(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.SyncChatMembership(ctx, task); err != nil {
		return nil, err
	}
	s.publisher.Publish(realtime.TaskRoom(taskID), realtime.EventMemberJoinedTaskChat,
		realtime.MembershipEvent{UserID: userID, TaskID: taskID})
	return task, nil
}

// LeaveChat removes the user from the chat member set only; task membership
// is untouched. Remaining members are told on their personal rooms.
func (s *MembershipService) LeaveChat(ctx context.Context, chatID, userID string) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.IsMember(userID) {
		return nil
	}
	if err := s.chats.RemoveMember(ctx, chatID, userID); err != nil {
		return err
	}
	event := realtime.MembershipEvent{UserID: userID, TaskID: chat.TaskID}
	for _, member := range chat.Members {
		if member == userID {
			continue
		}
		s.publisher.Publish(realtime.UserRoom(member), realtime.EventMemberLeftTaskChat, event)
	}
	s.activity.Record(ctx, userID, "chat.left", "chat", chatID, "left task chat", nil)
	return nil
}

func (s *MembershipService) requireProjectElevated(ctx context.Context, projectID, callerID string) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	role, ok := project.RoleOf(callerID)
	if !ok || !authz.IsElevated(role) {
		return errs.Forbidden("requires an admin or editor role in the project")
	}
	return nil
}
