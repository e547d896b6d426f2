package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_message_store.go -package=mocks aprende/internal/storage MessageStore

import (
	"context"
	"errors"
	"fmt"
)

// MessageStore defines the interface for chat message storage operations.
type MessageStore interface {
	// Create inserts a message.
	Create(ctx context.Context, msg *ChatMessage) error
	// List returns every message ordered by timestamp, then insertion order.
	List(ctx context.Context) ([]ChatMessage, error)
}

// MessageRepo provides methods for chat message operations.
// It implements the MessageStore interface.
type MessageRepo struct {
	db *DB
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Create inserts a message.
func (r *MessageRepo) Create(ctx context.Context, msg *ChatMessage) error {
	if msg == nil {
		return errors.New("chat message is required")
	}
	if msg.Role != RoleUser && msg.Role != RoleAssistant {
		return fmt.Errorf("invalid chat message role %q", msg.Role)
	}

	stmt, args, err := r.db.builder.Insert("chat_messages").
		Columns("id", "content", "role", `"timestamp"`).
		Values(msg.ID, msg.Content, msg.Role, msg.Timestamp.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.q(ctx).ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to insert chat message: %w", err)
	}
	return nil
}

// List returns every message ordered by timestamp ascending.
func (r *MessageRepo) List(ctx context.Context) ([]ChatMessage, error) {
	stmt, args, err := r.db.builder.Select("id", "content", "role", `"timestamp"`).
		From("chat_messages").
		OrderBy(`"timestamp" ASC`, r.db.insertionOrder()+" ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.q(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := []ChatMessage{}
	for rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.Role, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msg.Timestamp = msg.Timestamp.UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}
	return messages, nil
}
