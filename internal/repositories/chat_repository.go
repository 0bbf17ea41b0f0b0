package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"projecthub/internal/errs"
	"projecthub/internal/models"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *models.Chat) error
	FindByID(ctx context.Context, id string) (*models.Chat, error)
	// FindByTaskID returns (nil, nil) when the task has no chat yet; the
	// membership engine creates one lazily.
	FindByTaskID(ctx context.Context, taskID string) (*models.Chat, error)
	AddMember(ctx context.Context, chatID, userID string) error
	RemoveMember(ctx context.Context, chatID, userID string) error
	AppendMessage(ctx context.Context, chatID, senderID string, msg *models.Message) error
	// ListMessages returns messages in arrival order. limit <= 0 means all.
	ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*models.Message, error)
}

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) error {
	const q = `
		INSERT INTO chats (id, task_id, project_id, name, members)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, q,
		chat.ID, chat.TaskID, chat.ProjectID, chat.Name, pq.StringArray(chat.Members),
	).Scan(&chat.CreatedAt)
}

func (r *chatRepository) FindByID(ctx context.Context, id string) (*models.Chat, error) {
	const q = `SELECT id, task_id, project_id, name, members, created_at FROM chats WHERE id = $1`
	chat, err := r.scanChat(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("chat %s", id)
	}
	return chat, err
}

func (r *chatRepository) FindByTaskID(ctx context.Context, taskID string) (*models.Chat, error) {
	const q = `SELECT id, task_id, project_id, name, members, created_at FROM chats WHERE task_id = $1`
	chat, err := r.scanChat(r.db.QueryRowContext(ctx, q, taskID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return chat, err
}

func (r *chatRepository) scanChat(row *sql.Row) (*models.Chat, error) {
	chat := &models.Chat{}
	var members pq.StringArray
	if err := row.Scan(&chat.ID, &chat.TaskID, &chat.ProjectID, &chat.Name, &members, &chat.CreatedAt); err != nil {
		return nil, err
	}
	chat.Members = []string(members)
	return chat, nil
}

func (r *chatRepository) AddMember(ctx context.Context, chatID, userID string) error {
	const q = `
		UPDATE chats SET members = array_append(members, $2)
		WHERE id = $1 AND NOT ($2 = ANY(members))
	`
	_, err := r.db.ExecContext(ctx, q, chatID, userID)
	return err
}

func (r *chatRepository) RemoveMember(ctx context.Context, chatID, userID string) error {
	const q = `UPDATE chats SET members = array_remove(members, $2) WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, chatID, userID)
	return err
}

func (r *chatRepository) AppendMessage(ctx context.Context, chatID, senderID string, msg *models.Message) error {
	const q = `
		INSERT INTO chat_messages (id, chat_id, sender_id, content, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, q, msg.ID, chatID, senderID, msg.Content, msg.ParentID).Scan(&msg.CreatedAt)
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*models.Message, error) {
	q := `
		SELECT m.id, m.sender_id, u.name, u.email, m.content, m.parent_id, m.created_at
		FROM chat_messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = $1
		ORDER BY m.seq ASC
	`
	args := []interface{}{chatID}
	if limit > 0 {
		q += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.Sender.ID, &msg.Sender.Name, &msg.Sender.Email,
			&msg.Content, &msg.ParentID, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
