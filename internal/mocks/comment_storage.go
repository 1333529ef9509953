package mocks

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/storage"
)

// MockCommentStorage реализует интерфейс comment.CommentStorage для тестирования.
// Ссылочная целостность проверяется по ExistingLinks, как это делала бы база данных.
type MockCommentStorage struct {
	mu       sync.Mutex
	comments []*model.Comment
	log      *CallLog
	nextID   int

	ExistingLinks map[uint]bool
}

func NewMockCommentStorage(log *CallLog, existingLinks ...uint) *MockCommentStorage {
	m := &MockCommentStorage{
		log:           log,
		nextID:        1,
		ExistingLinks: make(map[uint]bool),
	}
	for _, id := range existingLinks {
		m.ExistingLinks[id] = true
	}
	return m
}

func (m *MockCommentStorage) CreateComment(ctx context.Context, linkID uint, body string) (*model.Comment, error) {
	m.log.Record("CommentStore.CreateComment")

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.ExistingLinks[linkID] {
		return nil, fmt.Errorf("insert comment: %w", storage.ErrReferenceConflict)
	}

	c := &model.Comment{
		ID:        strconv.Itoa(m.nextID),
		Body:      body,
		LinkID:    fmt.Sprint(linkID),
		CreatedAt: "2024-01-01T00:00:00Z",
	}
	m.nextID++
	m.comments = append(m.comments, c)
	return c, nil
}

func (m *MockCommentStorage) GetCommentByID(ctx context.Context, id uint) (*model.Comment, error) {
	m.log.Record("CommentStore.GetCommentByID")

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.comments {
		if c.ID == fmt.Sprint(id) {
			return c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MockCommentStorage) ListCommentsByLink(ctx context.Context, linkID uint) ([]*model.Comment, error) {
	m.log.Record("CommentStore.ListCommentsByLink")

	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*model.Comment{}
	for _, c := range m.comments {
		if c.LinkID == fmt.Sprint(linkID) {
			result = append(result, c)
		}
	}
	return result, nil
}
