package conversations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores conversations in PostgreSQL. Appends are
// serialized per conversation with a row lock on the conversation row.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed conversation store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the conversation tables when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS conversations (
			id            TEXT PRIMARY KEY,
			participants  TEXT[] NOT NULL DEFAULT '{}',
			created_at    TIMESTAMPTZ NOT NULL,
			last_activity TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS messages (
			seq               BIGSERIAL PRIMARY KEY,
			id                UUID NOT NULL UNIQUE,
			conversation_id   TEXT NOT NULL REFERENCES conversations(id),
			ts                TIMESTAMPTZ NOT NULL,
			from_address      TEXT NOT NULL,
			to_address        TEXT NOT NULL,
			original_text     TEXT NOT NULL,
			original_language TEXT NOT NULL,
			translated_text   TEXT,
			target_language   TEXT NOT NULL,
			platform          TEXT NOT NULL,
			confidence        DOUBLE PRECISION NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, seq);
	`
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure conversation schema: %w", err)
	}
	return nil
}

// GetOrCreate returns the conversation for id, creating it on first use.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, id string) (*Conversation, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO conversations (id, created_at, last_activity)
		VALUES ($1, $2, $2)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, id, now); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Append adds a message to the conversation, creating it if needed. The
// conversation row is locked for the duration of the transaction so
// concurrent appends to one conversation never interleave.
func (r *PostgresRepository) Append(ctx context.Context, id string, msg Message) (*Conversation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin append: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO conversations (id, created_at, last_activity)
		VALUES ($1, $2, $2)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, upsert, id, msg.Timestamp.UTC()); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}

	if _, err := tx.Exec(ctx, `SELECT 1 FROM conversations WHERE id = $1 FOR UPDATE`, id); err != nil {
		return nil, fmt.Errorf("failed to lock conversation: %w", err)
	}

	insert := `
		INSERT INTO messages (
			id, conversation_id, ts, from_address, to_address,
			original_text, original_language, translated_text,
			target_language, platform, confidence
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, insert,
		msg.ID, id, msg.Timestamp.UTC(), msg.FromAddress, msg.ToAddress,
		msg.OriginalText, msg.OriginalLanguage, msg.TranslatedText,
		msg.TargetLanguage, msg.Platform, msg.Confidence,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	touch := `
		UPDATE conversations
		SET last_activity = $2,
		    participants = ARRAY(
		        SELECT DISTINCT p
		        FROM unnest(participants || ARRAY[$3, $4]::text[]) AS p
		        WHERE p <> ''
		    )
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, touch, id, msg.Timestamp.UTC(), msg.FromAddress, msg.ToAddress); err != nil {
		return nil, fmt.Errorf("failed to touch conversation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit append: %w", err)
	}

	return r.GetByID(ctx, id)
}

// List returns all conversations ordered by last activity, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Conversation, error) {
	query := `
		SELECT id, participants, created_at, last_activity
		FROM conversations
		ORDER BY last_activity DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]*Conversation, 0)
	for rows.Next() {
		c := &Conversation{}
		if err := rows.Scan(&c.ID, &c.Participants, &c.CreatedAt, &c.LastActivity); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conversations: %w", err)
	}

	for _, c := range conversations {
		messages, err := r.messages(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		c.Messages = messages
	}

	return conversations, nil
}

// GetByID returns the conversation for id, or ErrNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Conversation, error) {
	query := `
		SELECT id, participants, created_at, last_activity
		FROM conversations
		WHERE id = $1
	`
	c := &Conversation{}
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Participants, &c.CreatedAt, &c.LastActivity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	messages, err := r.messages(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Messages = messages

	return c, nil
}

func (r *PostgresRepository) messages(ctx context.Context, conversationID string) ([]Message, error) {
	query := `
		SELECT id, ts, from_address, to_address, original_text,
		       original_language, translated_text, target_language,
		       platform, confidence
		FROM messages
		WHERE conversation_id = $1
		ORDER BY seq
	`
	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var m Message
		err := rows.Scan(
			&m.ID, &m.Timestamp, &m.FromAddress, &m.ToAddress, &m.OriginalText,
			&m.OriginalLanguage, &m.TranslatedText, &m.TargetLanguage,
			&m.Platform, &m.Confidence,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}
