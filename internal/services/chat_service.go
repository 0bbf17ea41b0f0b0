package services

import (
	"context"

	"github.com/google/uuid"

	"projecthub/internal/authz"
	"projecthub/internal/errs"
	"projecthub/internal/models"
	"projecthub/internal/realtime"
	"projecthub/internal/repositories"
)

// ChatService owns the per-task message log and its goals. Message appends
// follow server arrival order; client ordering is never honored.
type ChatService struct {
	tasks      repositories.TaskRepository
	chats      repositories.ChatRepository
	goals      repositories.GoalRepository
	users      repositories.UserRepository
	membership *MembershipService
	mentions   *MentionService
	publisher  realtime.Publisher
}

func NewChatService(
	tasks repositories.TaskRepository,
	chats repositories.ChatRepository,
	goals repositories.GoalRepository,
	users repositories.UserRepository,
	membership *MembershipService,
	mentions *MentionService,
	publisher realtime.Publisher,
) *ChatService {
	return &ChatService{
		tasks:      tasks,
		chats:      chats,
		goals:      goals,
		users:      users,
		membership: membership,
		mentions:   mentions,
		publisher:  publisher,
	}
}

// PostMessage appends to the task's chat, creating the chat lazily. A parent
// reference that cannot be resolved in the same chat is dropped, not an
// error. The mention scan and the broadcast run after the append succeeds;
// neither can unpersist the message.
func (s *ChatService) PostMessage(ctx context.Context, taskID, authorID, content, parentID string) (*models.Message, error) {
	if content == "" {
		return nil, errs.Validation("message content is required")
	}
	chat, author, err := s.openChat(ctx, taskID, authorID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:      uuid.NewString(),
		Sender:  author.Ref(),
		Content: content,
	}
	if parentID != "" {
		log, err := s.chats.ListMessages(ctx, chat.ID, 0, 0)
		if err != nil {
			return nil, err
		}
		if parent := findMessage(log, parentID); parent != nil {
			msg.ParentID = parentID
			linked := *parent
			linked.Parent = nil // replies link one level only
			msg.Parent = &linked
		}
	}
	if err := s.chats.AppendMessage(ctx, chat.ID, authorID, msg); err != nil {
		return nil, err
	}

	s.mentions.ScanAndNotify(ctx, msg.Sender, content, taskID, chat.ProjectID)
	s.publisher.Publish(realtime.TaskRoom(taskID), realtime.EventNewTaskMessage, msg)
	return msg, nil
}

// ListMessages pages backward from the newest message: page 1 is the latest
// pageSize messages in arrival order, page 2 the pageSize immediately before
// them. Boundaries come from the total count at request time, so concurrent
// appends can shift later pages by a position. Returns the page and the
// total count.
func (s *ChatService) ListMessages(ctx context.Context, taskID, callerID string, page, pageSize int) ([]*models.Message, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	chat, _, err := s.openChat(ctx, taskID, callerID)
	if err != nil {
		return nil, 0, err
	}

	log, err := s.chats.ListMessages(ctx, chat.ID, 0, 0)
	if err != nil {
		return nil, 0, err
	}
	total := len(log)

	end := total - (page-1)*pageSize
	if end <= 0 {
		return []*models.Message{}, total, nil
	}
	start := end - pageSize
	if start < 0 {
		start = 0
	}
	window := log[start:end]
	for _, msg := range window {
		if msg.ParentID == "" {
			continue
		}
		if parent := findMessage(log, msg.ParentID); parent != nil {
			linked := *parent
			linked.Parent = nil
			msg.Parent = &linked
		}
	}
	return window, total, nil
}

func (s *ChatService) CreateGoal(ctx context.Context, taskID, callerID, title string) (*models.TaskGoal, error) {
	if title == "" {
		return nil, errs.Validation("goal title is required")
	}
	chat, _, err := s.openChat(ctx, taskID, callerID)
	if err != nil {
		return nil, err
	}
	goal := &models.TaskGoal{
		ID:        uuid.NewString(),
		ChatID:    chat.ID,
		Title:     title,
		Status:    models.GoalPending,
		CreatedBy: callerID,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}
	s.publisher.Publish(realtime.TaskRoom(taskID), realtime.EventTaskGoalCreated, goal)
	return goal, nil
}

func (s *ChatService) ListGoals(ctx context.Context, taskID, callerID string) ([]*models.TaskGoal, error) {
	chat, _, err := s.openChat(ctx, taskID, callerID)
	if err != nil {
		return nil, err
	}
	return s.goals.ListByChat(ctx, chat.ID)
}

// UpdateGoalStatus moves a goal to any of the four statuses; transitions are
// unrestricted, but the elevated statuses require an admin or editor caller.
func (s *ChatService) UpdateGoalStatus(ctx context.Context, goalID, callerID string, callerRole models.Role, status models.GoalStatus) (*models.TaskGoal, error) {
	if !status.Valid() {
		return nil, errs.Validation("unknown goal status %q", status)
	}
	if status.Elevated() && !authz.IsElevated(callerRole) {
		return nil, errs.Forbidden("status %q requires an admin or editor role", status)
	}
	goal, chat, err := s.openGoal(ctx, goalID, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.goals.UpdateStatus(ctx, goalID, status); err != nil {
		return nil, err
	}
	goal.Status = status
	s.publisher.Publish(realtime.TaskRoom(chat.TaskID), realtime.EventTaskGoalUpdated, goal)
	return goal, nil
}

func (s *ChatService) UpdateGoalTitle(ctx context.Context, goalID, callerID, title string) (*models.TaskGoal, error) {
	if title == "" {
		return nil, errs.Validation("goal title is required")
	}
	goal, chat, err := s.openGoal(ctx, goalID, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.goals.UpdateTitle(ctx, goalID, title); err != nil {
		return nil, err
	}
	goal.Title = title
	s.publisher.Publish(realtime.TaskRoom(chat.TaskID), realtime.EventTaskGoalUpdated, goal)
	return goal, nil
}

func (s *ChatService) DeleteGoal(ctx context.Context, goalID, callerID string) error {
	goal, chat, err := s.openGoal(ctx, goalID, callerID)
	if err != nil {
		return err
	}
	if err := s.goals.Delete(ctx, goalID); err != nil {
		return err
	}
	s.publisher.Publish(realtime.TaskRoom(chat.TaskID), realtime.EventTaskGoalDeleted,
		map[string]string{"_id": goal.ID})
	return nil
}

// openChat loads the task, syncs/creates its chat, and checks the caller is
// a chat member.
func (s *ChatService) openChat(ctx context.Context, taskID, callerID string) (*models.Chat, *models.User, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, nil, err
	}
	chat, err := s.membership.SyncChatMembership(ctx, task)
	if err != nil {
		return nil, nil, err
	}
	if !chat.IsMember(callerID) {
		return nil, nil, errs.Forbidden("not a chat member")
	}
	return chat, caller, nil
}

func (s *ChatService) openGoal(ctx context.Context, goalID, callerID string) (*models.TaskGoal, *models.Chat, error) {
	goal, err := s.goals.FindByID(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}
	chat, err := s.chats.FindByID(ctx, goal.ChatID)
	if err != nil {
		return nil, nil, err
	}
	if !chat.IsMember(callerID) {
		return nil, nil, errs.Forbidden("not a chat member")
	}
	return goal, chat, nil
}

func findMessage(log []*models.Message, id string) *models.Message {
	for _, m := range log {
		if m.ID == id {
			return m
		}
	}
	return nil
}
