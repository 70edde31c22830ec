package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alphax-ai/backend/domain"
)

// storeFactories lets every contract test run against both backends.
var storeFactories = map[string]func(t *testing.T) Store{
	"file": func(t *testing.T) Store {
		dir := t.TempDir()
		return NewFileStore(filepath.Join(dir, "users.json"), filepath.Join(dir, "chats.json"))
	},
	"sqlite": func(t *testing.T) Store {
		s, err := NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("failed to create sqlite store: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	},
}

func testUser(email string) *domain.User {
	return &domain.User{
		Email:        email,
		Name:         "Ann",
		PasswordHash: "$2a$10$fakehash",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			if err := s.CreateUser(ctx, testUser("a@b.com")); err != nil {
				t.Fatalf("CreateUser failed: %v", err)
			}
			err := s.CreateUser(ctx, testUser("a@b.com"))
			if !errors.Is(err, domain.ErrConflict) {
				t.Fatalf("expected ErrConflict on duplicate, got %v", err)
			}
		})
	}
}

func TestGetUserNotFound(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)

			_, err := s.GetUser(context.Background(), "missing@b.com")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestIncrementChatCount(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			if err := s.CreateUser(ctx, testUser("a@b.com")); err != nil {
				t.Fatalf("CreateUser failed: %v", err)
			}

			for want := 1; want <= 3; want++ {
				got, err := s.IncrementChatCount(ctx, "a@b.com")
				if err != nil {
					t.Fatalf("IncrementChatCount failed: %v", err)
				}
				if got != want {
					t.Fatalf("expected count %d, got %d", want, got)
				}
			}

			user, err := s.GetUser(ctx, "a@b.com")
			if err != nil {
				t.Fatalf("GetUser failed: %v", err)
			}
			if user.ChatCount != 3 {
				t.Fatalf("expected persisted count 3, got %d", user.ChatCount)
			}
		})
	}
}

func TestSaveConversationTimestamps(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			conv := &domain.Conversation{
				ID:        "c1",
				Title:     "first",
				Messages:  []domain.ChatTurn{{Role: "user", Content: "hi"}},
				Timestamp: 5,
			}
			saved, err := s.SaveConversation(ctx, "a@b.com", conv)
			if err != nil {
				t.Fatalf("SaveConversation failed: %v", err)
			}
			if saved.CreatedAt == "" || saved.CreatedAt != saved.UpdatedAt {
				t.Fatalf("first save must stamp created == updated, got %q / %q", saved.CreatedAt, saved.UpdatedAt)
			}
			firstCreated := saved.CreatedAt

			time.Sleep(5 * time.Millisecond)

			again, err := s.SaveConversation(ctx, "a@b.com", &domain.Conversation{
				ID:        "c1",
				Title:     "renamed",
				Messages:  []domain.ChatTurn{{Role: "user", Content: "hi"}},
				Timestamp: 6,
			})
			if err != nil {
				t.Fatalf("second SaveConversation failed: %v", err)
			}
			if again.CreatedAt != firstCreated {
				t.Fatalf("creation timestamp must be preserved: got %q want %q", again.CreatedAt, firstCreated)
			}
			if again.UpdatedAt == firstCreated {
				t.Fatal("update timestamp must advance on subsequent saves")
			}
		})
	}
}

func TestListConversationsOrder(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			for i, ts := range []int64{5, 9, 1} {
				conv := &domain.Conversation{
					ID:        "c" + string(rune('1'+i)),
					Title:     "t",
					Messages:  []domain.ChatTurn{},
					Timestamp: ts,
				}
				if _, err := s.SaveConversation(ctx, "a@b.com", conv); err != nil {
					t.Fatalf("SaveConversation failed: %v", err)
				}
			}

			convs, err := s.ListConversations(ctx, "a@b.com")
			if err != nil {
				t.Fatalf("ListConversations failed: %v", err)
			}
			if len(convs) != 3 {
				t.Fatalf("expected 3 conversations, got %d", len(convs))
			}
			got := []int64{convs[0].Timestamp, convs[1].Timestamp, convs[2].Timestamp}
			if got[0] != 9 || got[1] != 5 || got[2] != 1 {
				t.Fatalf("expected order [9 5 1], got %v", got)
			}
		})
	}
}

func TestListConversationsScopedToAccount(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			conv := &domain.Conversation{ID: "c1", Title: "mine", Messages: []domain.ChatTurn{}, Timestamp: 1}
			if _, err := s.SaveConversation(ctx, "a@b.com", conv); err != nil {
				t.Fatalf("SaveConversation failed: %v", err)
			}

			convs, err := s.ListConversations(ctx, "other@b.com")
			if err != nil {
				t.Fatalf("ListConversations failed: %v", err)
			}
			if len(convs) != 0 {
				t.Fatalf("expected no conversations for other account, got %d", len(convs))
			}
		})
	}
}

func TestDeleteConversation(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			err := s.DeleteConversation(ctx, "a@b.com", "missing")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound deleting missing conversation, got %v", err)
			}

			conv := &domain.Conversation{ID: "c1", Title: "t", Messages: []domain.ChatTurn{}, Timestamp: 1}
			if _, err := s.SaveConversation(ctx, "a@b.com", conv); err != nil {
				t.Fatalf("SaveConversation failed: %v", err)
			}
			if err := s.DeleteConversation(ctx, "a@b.com", "c1"); err != nil {
				t.Fatalf("DeleteConversation failed: %v", err)
			}

			convs, err := s.ListConversations(ctx, "a@b.com")
			if err != nil {
				t.Fatalf("ListConversations failed: %v", err)
			}
			if len(convs) != 0 {
				t.Fatalf("expected empty list after delete, got %d", len(convs))
			}
		})
	}
}
