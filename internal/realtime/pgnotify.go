package realtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"aprende/internal/contextutil"
	"aprende/internal/storage"
)

// NotifyChannel is the PostgreSQL channel vocabulary updates travel on.
const NotifyChannel = "vocabulary_update"

// PostgreSQL rejects NOTIFY payloads of 8000 bytes or more.
const maxNotifyPayload = 7900

const reconnectDelay = time.Second

// Execer runs a statement. *sql.DB satisfies it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Receiver delivers relayed updates to local clients. *Hub satisfies it.
type Receiver interface {
	BroadcastLocal(ctx context.Context, items []storage.VocabularyItem) error
	Reload(ctx context.Context) error
}

// notification is the pg_notify payload.
type notification struct {
	Instance string                   `json:"instance"`
	Items    []storage.VocabularyItem `json:"items,omitempty"`
	Reload   bool                     `json:"reload,omitempty"`
}

// PGBridge relays vocabulary updates between server instances sharing one
// PostgreSQL database through LISTEN/NOTIFY.
type PGBridge struct {
	dsn      string
	db       Execer
	receiver Receiver
	instance string
}

// NewPGBridge creates a bridge. dsn is used for the dedicated LISTEN connection;
// db publishes notifications.
func NewPGBridge(dsn string, db Execer, receiver Receiver) *PGBridge {
	return &PGBridge{
		dsn:      dsn,
		db:       db,
		receiver: receiver,
		instance: uuid.NewString(),
	}
}

// InstanceID identifies this process in published notifications.
func (b *PGBridge) InstanceID() string {
	return b.instance
}

// Publish sends the full vocabulary list to the other instances. A nil slice,
// or a list too large for NOTIFY, is sent as a reload request instead.
func (b *PGBridge) Publish(ctx context.Context, items []storage.VocabularyItem) error {
	payload, err := b.encode(items)
	if err != nil {
		return err
	}

	if _, err := b.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", NotifyChannel, payload); err != nil {
		return fmt.Errorf("pg_notify: %w", err)
	}
	return nil
}

func (b *PGBridge) encode(items []storage.VocabularyItem) (string, error) {
	if items != nil {
		data, err := json.Marshal(notification{Instance: b.instance, Items: items})
		if err != nil {
			return "", fmt.Errorf("encode notification: %w", err)
		}
		if len(data) < maxNotifyPayload {
			return string(data), nil
		}
	}

	data, err := json.Marshal(notification{Instance: b.instance, Reload: true})
	if err != nil {
		return "", fmt.Errorf("encode notification: %w", err)
	}
	return string(data), nil
}

// Listen relays notifications from other instances until ctx is cancelled.
// A dropped connection is re-established after a short delay.
func (b *PGBridge) Listen(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)

	for {
		err := b.listenOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		logger.WarnContext(ctx, "vocabulary listener disconnected, reconnecting", "error", err, "delay", reconnectDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(reconnectDelay):
		}
	}
}

func (b *PGBridge) listenOnce(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, b.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{NotifyChannel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "listening for vocabulary updates", "channel", NotifyChannel, "instance", b.instance)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		b.handle(ctx, n.Payload)
	}
}

// handle applies one notification payload to the local clients.
func (b *PGBridge) handle(ctx context.Context, payload string) {
	logger := contextutil.LoggerFromContext(ctx)

	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		logger.WarnContext(ctx, "ignoring malformed vocabulary notification", "error", err)
		return
	}
	if n.Instance == b.instance {
		return
	}

	var err error
	if n.Reload {
		err = b.receiver.Reload(ctx)
	} else {
		err = b.receiver.BroadcastLocal(ctx, n.Items)
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to relay vocabulary notification", "error", err, "from", n.Instance)
	}
}
