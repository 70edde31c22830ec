// Package domain defines the core domain models for the chat backend.
package domain

import "time"

// User represents a registered account, keyed by normalized email.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	ChatCount    int       `json:"chat_count"`
}

// Profile is the client-facing projection of a User. The password hash
// never leaves the server.
type Profile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	ChatCount int    `json:"chat_count"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Profile returns the client-facing view of the user.
func (u *User) Profile(withCreatedAt bool) Profile {
	p := Profile{
		Email:     u.Email,
		Name:      u.Name,
		ChatCount: u.ChatCount,
	}
	if withCreatedAt {
		p.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return p
}

// ChatTurn is a single message in a conversation transcript.
type ChatTurn struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// Conversation is a persisted chat transcript owned by exactly one account.
// Timestamp is the client-supplied ordering value; CreatedAt and UpdatedAt
// are stamped server-side.
type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []ChatTurn `json:"messages"`
	Timestamp int64      `json:"timestamp"`
	CreatedAt string     `json:"created_at,omitempty"`
	UpdatedAt string     `json:"updated_at,omitempty"`
}

// ModelInfo describes a selectable completion model.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ModelCatalog is the static set of models exposed to clients.
var ModelCatalog = []ModelInfo{
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Description: "Fast and efficient model for most tasks"},
	{ID: "openai/gpt-4o", Name: "GPT-4o", Description: "Most capable model for complex tasks"},
	{ID: "anthropic/claude-3-haiku", Name: "Claude 3 Haiku", Description: "Fast and efficient Claude model"},
	{ID: "anthropic/claude-3-sonnet", Name: "Claude 3 Sonnet", Description: "Balanced Claude model"},
}
