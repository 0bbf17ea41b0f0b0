package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

// In-memory repositories with the same set semantics as the store: member
// adds are insert-if-absent, lookups return copies so services cannot reach
// shared state.

type memClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *memClock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

type memUsers struct {
	users map[string]*models.User
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errs.NotFound("user %s", id)
	}
	cp := *user
	return &cp, nil
}

func (m *memUsers) FindByNameFold(_ context.Context, name string) (*models.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Name, name) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, nil
}

type memProjects struct {
	projects map[string]*models.Project
	tasks    *memTasks
}

func (m *memProjects) Create(_ context.Context, project *models.Project) error {
	m.projects[project.ID] = project
	return nil
}

func (m *memProjects) FindByID(_ context.Context, id string) (*models.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return nil, errs.NotFound("project %s", id)
	}
	cp := *project
	cp.Members = append([]models.ProjectMember(nil), project.Members...)
	return &cp, nil
}

func (m *memProjects) HasTaskMembership(_ context.Context, projectID, userID string) (bool, error) {
	for _, task := range m.tasks.tasks {
		if task.ProjectID == projectID {
			for _, member := range task.Members {
				if member == userID {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

type memTasks struct {
	tasks map[string]*models.Task
}

func (m *memTasks) Create(_ context.Context, task *models.Task) error {
	cp := *task
	cp.Members = append([]string(nil), task.Members...)
	m.tasks[task.ID] = &cp
	return nil
}

func (m *memTasks) FindByID(_ context.Context, id string) (*models.Task, error) {
	task, ok := m.tasks[id]
	if !ok {
		return nil, errs.NotFound("task %s", id)
	}
	cp := *task
	cp.Members = append([]string(nil), task.Members...)
	return &cp, nil
}

func (m *memTasks) AddMember(_ context.Context, taskID, userID string) error {
	task, ok := m.tasks[taskID]
	if !ok {
		return errs.NotFound("task %s", taskID)
	}
	for _, member := range task.Members {
		if member == userID {
			return nil
		}
	}
	task.Members = append(task.Members, userID)
	return nil
}

type memChats struct {
	clock    *memClock
	chats    map[string]*models.Chat
	messages map[string][]*models.Message
	senders  map[string]string // message id -> sender id
}

func (m *memChats) Create(_ context.Context, chat *models.Chat) error {
	cp := *chat
	cp.Members = append([]string(nil), chat.Members...)
	cp.CreatedAt = m.clock.next()
	m.chats[chat.ID] = &cp
	chat.CreatedAt = cp.CreatedAt
	return nil
}

func (m *memChats) FindByID(_ context.Context, id string) (*models.Chat, error) {
	chat, ok := m.chats[id]
	if !ok {
		return nil, errs.NotFound("chat %s", id)
	}
	return m.copyChat(chat), nil
}

func (m *memChats) FindByTaskID(_ context.Context, taskID string) (*models.Chat, error) {
	for _, chat := range m.chats {
		if chat.TaskID == taskID {
			return m.copyChat(chat), nil
		}
	}
	return nil, nil
}

func (m *memChats) copyChat(chat *models.Chat) *models.Chat {
	cp := *chat
	cp.Members = append([]string(nil), chat.Members...)
	return &cp
}

func (m *memChats) AddMember(_ context.Context, chatID, userID string) error {
	chat, ok := m.chats[chatID]
	if !ok {
		return errs.NotFound("chat %s", chatID)
	}
	for _, member := range chat.Members {
		if member == userID {
			return nil
		}
	}
	chat.Members = append(chat.Members, userID)
	return nil
}

func (m *memChats) RemoveMember(_ context.Context, chatID, userID string) error {
	chat, ok := m.chats[chatID]
	if !ok {
		return errs.NotFound("chat %s", chatID)
	}
	kept := chat.Members[:0]
	for _, member := range chat.Members {
		if member != userID {
			kept = append(kept, member)
		}
	}
	chat.Members = kept
	return nil
}

func (m *memChats) AppendMessage(_ context.Context, chatID, senderID string, msg *models.Message) error {
	cp := *msg
	cp.Parent = nil
	cp.CreatedAt = m.clock.next()
	m.messages[chatID] = append(m.messages[chatID], &cp)
	m.senders[msg.ID] = senderID
	msg.CreatedAt = cp.CreatedAt
	return nil
}

func (m *memChats) ListMessages(_ context.Context, chatID string, limit, offset int) ([]*models.Message, error) {
	log := m.messages[chatID]
	if limit > 0 {
		if offset > len(log) {
			offset = len(log)
		}
		end := offset + limit
		if end > len(log) {
			end = len(log)
		}
		log = log[offset:end]
	}
	out := make([]*models.Message, len(log))
	for i, msg := range log {
		cp := *msg
		out[i] = &cp
	}
	return out, nil
}

type memGoals struct {
	clock *memClock
	goals map[string]*models.TaskGoal
}

func (m *memGoals) Create(_ context.Context, goal *models.TaskGoal) error {
	cp := *goal
	cp.CreatedAt = m.clock.next()
	m.goals[goal.ID] = &cp
	goal.CreatedAt = cp.CreatedAt
	return nil
}

func (m *memGoals) FindByID(_ context.Context, id string) (*models.TaskGoal, error) {
	goal, ok := m.goals[id]
	if !ok {
		return nil, errs.NotFound("goal %s", id)
	}
	cp := *goal
	return &cp, nil
}

func (m *memGoals) ListByChat(_ context.Context, chatID string) ([]*models.TaskGoal, error) {
	var out []*models.TaskGoal
	for _, goal := range m.goals {
		if goal.ChatID == chatID {
			cp := *goal
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memGoals) UpdateStatus(_ context.Context, id string, status models.GoalStatus) error {
	goal, ok := m.goals[id]
	if !ok {
		return errs.NotFound("goal %s", id)
	}
	goal.Status = status
	return nil
}

func (m *memGoals) UpdateTitle(_ context.Context, id, title string) error {
	goal, ok := m.goals[id]
	if !ok {
		return errs.NotFound("goal %s", id)
	}
	goal.Title = title
	return nil
}

func (m *memGoals) Delete(_ context.Context, id string) error {
	delete(m.goals, id)
	return nil
}

type memNotifications struct {
	clock         *memClock
	notifications map[string]*models.Notification
	order         []string
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	cp := *n
	cp.CreatedAt = m.clock.next()
	m.notifications[n.ID] = &cp
	m.order = append(m.order, n.ID)
	n.CreatedAt = cp.CreatedAt
	return nil
}

func (m *memNotifications) FindByID(_ context.Context, id string) (*models.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, errs.NotFound("notification %s", id)
	}
	cp := *n
	return &cp, nil
}

func (m *memNotifications) ListForUser(_ context.Context, userID string) ([]*models.Notification, error) {
	var out []*models.Notification
	for i := len(m.order) - 1; i >= 0; i-- {
		n, ok := m.notifications[m.order[i]]
		if !ok || n.User != userID {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.User == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.User == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (m *memNotifications) UpdateStatus(_ context.Context, id string, status models.NotificationStatus, isRead bool) error {
	n, ok := m.notifications[id]
	if !ok {
		return errs.NotFound("notification %s", id)
	}
	n.Status = status
	n.IsRead = isRead
	return nil
}

func (m *memNotifications) Delete(_ context.Context, id string) error {
	delete(m.notifications, id)
	return nil
}

type memActivity struct {
	clock   *memClock
	entries map[string]*models.ActivityEntry
	order   []string
}

func (m *memActivity) Append(_ context.Context, entry *models.ActivityEntry) error {
	cp := *entry
	cp.CreatedAt = m.clock.next()
	m.entries[entry.ID] = &cp
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *memActivity) FindByID(_ context.Context, id string) (*models.ActivityEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, errs.NotFound("activity entry %s", id)
	}
	cp := *entry
	return &cp, nil
}

func (m *memActivity) ListForUser(_ context.Context, userID string) ([]*models.ActivityEntry, error) {
	var out []*models.ActivityEntry
	for i := len(m.order) - 1; i >= 0; i-- {
		entry, ok := m.entries[m.order[i]]
		if !ok || entry.UserID != userID {
			continue
		}
		cp := *entry
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memActivity) MarkRead(_ context.Context, id string) error {
	if entry, ok := m.entries[id]; ok {
		entry.IsRead = true
	}
	return nil
}

// recordingPublisher captures every publish for assertions.

type pubEvent struct {
	Room    string
	Event   string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []pubEvent
}

func (p *recordingPublisher) Publish(room, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pubEvent{Room: room, Event: event, Payload: payload})
}

func (p *recordingPublisher) byEvent(event string) []pubEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pubEvent
	for _, ev := range p.events {
		if ev.Event == event {
			out = append(out, ev)
		}
	}
	return out
}

// fixture wires the full service graph over the in-memory repositories.

type fixture struct {
	users         *memUsers
	projects      *memProjects
	tasks         *memTasks
	chats         *memChats
	goals         *memGoals
	notifications *memNotifications
	activityRepo  *memActivity
	publisher     *recordingPublisher

	notify     *NotificationService
	membership *MembershipService
	mentions   *MentionService
	chat       *ChatService
	task       *TaskService
	project    *ProjectService
	activity   *ActivityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &memClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	f := &fixture{
		users:         &memUsers{users: map[string]*models.User{}},
		tasks:         &memTasks{tasks: map[string]*models.Task{}},
		chats:         &memChats{clock: clock, chats: map[string]*models.Chat{}, messages: map[string][]*models.Message{}, senders: map[string]string{}},
		goals:         &memGoals{clock: clock, goals: map[string]*models.TaskGoal{}},
		notifications: &memNotifications{clock: clock, notifications: map[string]*models.Notification{}},
		activityRepo:  &memActivity{clock: clock, entries: map[string]*models.ActivityEntry{}},
		publisher:     &recordingPublisher{},
	}
	f.projects = &memProjects{projects: map[string]*models.Project{}, tasks: f.tasks}

	f.activity = NewActivityService(f.activityRepo)
	f.notify = NewNotificationService(f.notifications, f.users, f.publisher)
	f.membership = NewMembershipService(f.tasks, f.chats, f.projects, f.users, f.notifications, f.notify, f.activity, f.publisher)
	f.mentions = NewMentionService(f.users, f.notify)
	f.chat = NewChatService(f.tasks, f.chats, f.goals, f.users, f.membership, f.mentions, f.publisher)
	f.task = NewTaskService(f.tasks, f.projects, f.users, f.notify, f.activity)
	f.project = NewProjectService(f.projects)
	return f
}

func (f *fixture) addUser(id, name string, role models.Role) *models.User {
	user := &models.User{ID: id, Name: name, Email: id + "@example.com", Role: role}
	f.users.users[id] = user
	return user
}

func (f *fixture) addProject(id, name, createdBy string, members ...models.ProjectMember) *models.Project {
	project := &models.Project{ID: id, Name: name, CreatedBy: createdBy, Members: members}
	f.projects.projects[id] = project
	return project
}

func (f *fixture) addTask(id, title, projectID, createdBy, assignedTo string) *models.Task {
	members := []string{createdBy}
	if assignedTo != "" && assignedTo != createdBy {
		members = append(members, assignedTo)
	}
	task := &models.Task{ID: id, Title: title, ProjectID: projectID, CreatedBy: createdBy, AssignedTo: assignedTo, Members: members}
	f.tasks.tasks[id] = task
	return task
}
