package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/alphax-ai/backend/domain"
)

// SQLiteStore implements Store using SQLite. It offers the same contract
// as FileStore with per-row writes instead of whole-document rewrites.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			chat_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS conversations (
			user_email TEXT NOT NULL,
			conv_id TEXT NOT NULL,
			title TEXT NOT NULL,
			messages TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (user_email, conv_id),
			FOREIGN KEY (user_email) REFERENCES users(email)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_user ON conversations(user_email, timestamp)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// GetUser retrieves a user by normalized email.
func (s *SQLiteStore) GetUser(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT email, name, password_hash, created_at, chat_count FROM users WHERE email = ?`,
		email).Scan(&user.Email, &user.Name, &user.PasswordHash, &user.CreatedAt, &user.ChatCount)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser stores a new user, failing when the email is already taken.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ?`, user.Email).Scan(&exists)
	if err == nil {
		return domain.ErrConflict
	}
	if err != sql.ErrNoRows {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (email, name, password_hash, created_at, chat_count) VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.ChatCount)
	return err
}

// IncrementChatCount bumps the user's interaction counter by one and
// returns the new value.
func (s *SQLiteStore) IncrementChatCount(ctx context.Context, email string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET chat_count = chat_count + 1 WHERE email = ?`, email)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, domain.ErrNotFound
	}
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT chat_count FROM users WHERE email = ?`, email).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListConversations returns the account's conversations ordered by
// client timestamp descending. conv_id is the secondary key so ties
// order deterministically.
func (s *SQLiteStore) ListConversations(ctx context.Context, email string) ([]domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT conv_id, title, messages, timestamp, created_at, updated_at
		 FROM conversations WHERE user_email = ? ORDER BY timestamp DESC, conv_id ASC`,
		email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	convs := []domain.Conversation{}
	for rows.Next() {
		var conv domain.Conversation
		var messages string
		if err := rows.Scan(&conv.ID, &conv.Title, &messages, &conv.Timestamp, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(messages), &conv.Messages); err != nil {
			return nil, fmt.Errorf("decode messages for %s: %w", conv.ID, err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// SaveConversation creates or updates a conversation under the account.
func (s *SQLiteStore) SaveConversation(ctx context.Context, email string, conv *domain.Conversation) (*domain.Conversation, error) {
	var existingCreatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM conversations WHERE user_email = ? AND conv_id = ?`,
		email, conv.ID).Scan(&existingCreatedAt)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	stampTimestamps(conv, existingCreatedAt, time.Now())

	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return nil, fmt.Errorf("encode messages for %s: %w", conv.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversations (user_email, conv_id, title, messages, timestamp, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_email, conv_id) DO UPDATE SET
		   title = excluded.title,
		   messages = excluded.messages,
		   timestamp = excluded.timestamp,
		   updated_at = excluded.updated_at`,
		email, conv.ID, conv.Title, string(messages), conv.Timestamp, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// DeleteConversation removes the conversation if present.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, email, convID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE user_email = ? AND conv_id = ?`, email, convID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
