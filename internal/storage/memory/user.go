package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/VitaminP8/hackernews/internal/user"
)

type UserMemoryStorage struct {
	mu        sync.RWMutex
	users     map[uint]*model.User
	byEmail   map[string]uint
	passwords map[uint]string
	nextID    uint
}

var _ user.UserStorage = (*UserMemoryStorage)(nil)

func NewUserMemoryStorage() *UserMemoryStorage {
	return &UserMemoryStorage{
		users:     make(map[uint]*model.User),
		byEmail:   make(map[string]uint),
		passwords: make(map[uint]string),
		nextID:    1,
	}
}

func (s *UserMemoryStorage) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrDuplicate)
	}

	id := s.nextID
	s.nextID++

	u := &model.User{
		ID:    strconv.FormatUint(uint64(id), 10),
		Name:  name,
		Email: email,
	}

	s.users[id] = u
	s.byEmail[email] = id
	s.passwords[id] = passwordHash

	copied := *u
	return &copied, nil
}

func (s *UserMemoryStorage) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (s *UserMemoryStorage) GetCredentialsByEmail(ctx context.Context, email string) (*user.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrNotFound)
	}
	copied := *s.users[id]
	return &user.Credentials{User: &copied, PasswordHash: s.passwords[id]}, nil
}
