package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/VitaminP8/hackernews/internal/user"
)

// MockUserStorage реализует интерфейс user.UserStorage для тестирования
type MockUserStorage struct {
	mu        sync.Mutex
	users     map[string]*model.User // email -> user
	passwords map[string]string      // email -> password hash
	log       *CallLog
	nextID    int
}

// NewMockUserStorage создает новый экземпляр мока для хранилища пользователей
func NewMockUserStorage(log *CallLog) *MockUserStorage {
	return &MockUserStorage{
		users:     make(map[string]*model.User),
		passwords: make(map[string]string),
		log:       log,
		nextID:    1,
	}
}

func (m *MockUserStorage) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	m.log.Record("UserStore.CreateUser")

	m.mu.Lock()
	defer m.mu.Unlock()

	// Проверяем, существует ли пользователь с таким email
	if _, exists := m.users[email]; exists {
		return nil, fmt.Errorf("email %s: %w", email, storage.ErrDuplicate)
	}

	u := &model.User{
		ID:    strconv.Itoa(m.nextID),
		Name:  name,
		Email: email,
	}
	m.nextID++

	m.users[email] = u
	m.passwords[email] = passwordHash
	return u, nil
}

func (m *MockUserStorage) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	m.log.Record("UserStore.GetUserByID")

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == fmt.Sprint(id) {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MockUserStorage) GetCredentialsByEmail(ctx context.Context, email string) (*user.Credentials, error) {
	m.log.Record("UserStore.GetCredentialsByEmail")

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user.Credentials{User: u, PasswordHash: m.passwords[email]}, nil
}
