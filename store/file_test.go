package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alphax-ai/backend/domain"
)

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.json")
	chatsPath := filepath.Join(dir, "chats.json")
	ctx := context.Background()

	s := NewFileStore(usersPath, chatsPath)
	user := &domain.User{Email: "a@b.com", Name: "Ann", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	conv := &domain.Conversation{ID: "c1", Title: "t", Messages: []domain.ChatTurn{{Role: "user", Content: "hi"}}, Timestamp: 1}
	if _, err := s.SaveConversation(ctx, "a@b.com", conv); err != nil {
		t.Fatalf("SaveConversation failed: %v", err)
	}

	// A fresh store over the same files sees the persisted state.
	reopened := NewFileStore(usersPath, chatsPath)
	got, err := reopened.GetUser(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("GetUser after reopen failed: %v", err)
	}
	if got.Name != "Ann" {
		t.Fatalf("unexpected user after reopen: %+v", got)
	}
	convs, err := reopened.ListConversations(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("ListConversations after reopen failed: %v", err)
	}
	if len(convs) != 1 || convs[0].ID != "c1" {
		t.Fatalf("unexpected conversations after reopen: %+v", convs)
	}
}

func TestFileStoreCorruptDocumentStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	usersPath := filepath.Join(dir, "users.json")
	if err := os.WriteFile(usersPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s := NewFileStore(usersPath, filepath.Join(dir, "chats.json"))
	ctx := context.Background()

	if _, err := s.GetUser(ctx, "a@b.com"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound from corrupt document, got %v", err)
	}
	// The store must still accept writes.
	user := &domain.User{Email: "a@b.com", Name: "Ann", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser after corrupt document failed: %v", err)
	}
}
