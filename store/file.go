package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/alphax-ai/backend/domain"
)

// FileStore implements Store over two flat JSON documents: one mapping
// normalized email to user record, one mapping email to a map of
// conversation id to conversation record. Every mutation is a full read,
// in-memory change, full write; the mutex serializes writers so
// concurrent requests cannot interleave read-modify-write cycles.
type FileStore struct {
	mu        sync.Mutex // held across the full read-modify-write cycle
	usersPath string
	chatsPath string
}

// NewFileStore creates a file-backed store. Missing files are treated as
// empty maps and created on first write.
func NewFileStore(usersPath, chatsPath string) *FileStore {
	return &FileStore{
		usersPath: usersPath,
		chatsPath: chatsPath,
	}
}

// Close is a no-op; the store holds no open handles between operations.
func (s *FileStore) Close() error { return nil }

// readDocument loads a JSON document into out. An absent or unreadable
// file yields the zero document so the store is re-creatable as empty.
func readDocument(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Corrupt document: start over empty rather than refuse to serve.
		return nil
	}
	return nil
}

// writeDocument persists a JSON document atomically via temp file + rename.
func writeDocument(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) loadUsers() (map[string]domain.User, error) {
	users := map[string]domain.User{}
	if err := readDocument(s.usersPath, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *FileStore) loadChats() (map[string]map[string]domain.Conversation, error) {
	chats := map[string]map[string]domain.Conversation{}
	if err := readDocument(s.chatsPath, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetUser retrieves a user by normalized email.
func (s *FileStore) GetUser(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	user, ok := users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// CreateUser stores a new user, failing when the email is already taken.
func (s *FileStore) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	if _, ok := users[user.Email]; ok {
		return domain.ErrConflict
	}
	users[user.Email] = *user
	return writeDocument(s.usersPath, users)
}

// IncrementChatCount bumps the user's interaction counter by one and
// returns the new value. The write is persisted before returning.
func (s *FileStore) IncrementChatCount(ctx context.Context, email string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.loadUsers()
	if err != nil {
		return 0, err
	}
	user, ok := users[email]
	if !ok {
		return 0, domain.ErrNotFound
	}
	user.ChatCount++
	users[email] = user
	if err := writeDocument(s.usersPath, users); err != nil {
		return 0, err
	}
	return user.ChatCount, nil
}

// ListConversations returns the account's conversations ordered by
// client timestamp descending.
func (s *FileStore) ListConversations(ctx context.Context, email string) ([]domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chats, err := s.loadChats()
	if err != nil {
		return nil, err
	}
	// Collect in key order so ties sort deterministically.
	ids := make([]string, 0, len(chats[email]))
	for id := range chats[email] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	convs := make([]domain.Conversation, 0, len(ids))
	for _, id := range ids {
		convs = append(convs, chats[email][id])
	}
	sortByTimestampDesc(convs)
	return convs, nil
}

// SaveConversation creates or updates a conversation under the account.
func (s *FileStore) SaveConversation(ctx context.Context, email string, conv *domain.Conversation) (*domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chats, err := s.loadChats()
	if err != nil {
		return nil, err
	}
	if chats[email] == nil {
		chats[email] = map[string]domain.Conversation{}
	}
	existing := chats[email][conv.ID]
	stampTimestamps(conv, existing.CreatedAt, time.Now())
	chats[email][conv.ID] = *conv
	if err := writeDocument(s.chatsPath, chats); err != nil {
		return nil, err
	}
	return conv, nil
}

// DeleteConversation removes the conversation if present.
func (s *FileStore) DeleteConversation(ctx context.Context, email, convID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chats, err := s.loadChats()
	if err != nil {
		return err
	}
	if _, ok := chats[email][convID]; !ok {
		return domain.ErrNotFound
	}
	delete(chats[email], convID)
	return writeDocument(s.chatsPath, chats)
}
