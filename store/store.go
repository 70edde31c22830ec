// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"sort"
	"time"

	"github.com/alphax-ai/backend/domain"
)

// Store defines the interface for data persistence. All conversation
// operations are scoped to the owning account; no cross-account access
// path exists.
type Store interface {
	// User operations
	GetUser(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error
	IncrementChatCount(ctx context.Context, email string) (int, error)

	// Conversation operations
	ListConversations(ctx context.Context, email string) ([]domain.Conversation, error)
	SaveConversation(ctx context.Context, email string, conv *domain.Conversation) (*domain.Conversation, error)
	DeleteConversation(ctx context.Context, email, convID string) error

	// Lifecycle
	Close() error
}

// stampTimestamps sets the server-side timestamps on conv. The creation
// timestamp is stamped once on first save and preserved afterwards; the
// update timestamp is refreshed on every save.
func stampTimestamps(conv *domain.Conversation, existingCreatedAt string, now time.Time) {
	ts := now.UTC().Format(time.RFC3339Nano)
	if existingCreatedAt == "" {
		conv.CreatedAt = ts
	} else {
		conv.CreatedAt = existingCreatedAt
	}
	conv.UpdatedAt = ts
}

// sortByTimestampDesc orders conversations by the client-supplied
// timestamp, most recent first. The sort is stable so ties keep their
// insertion order.
func sortByTimestampDesc(convs []domain.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return convs[i].Timestamp > convs[j].Timestamp
	})
}
