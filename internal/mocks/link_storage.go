package mocks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/storage"
)

// MockLinkStorage реализует интерфейс link.LinkStorage для тестирования
type MockLinkStorage struct {
	mu     sync.Mutex
	links  []*model.Link
	log    *CallLog
	nextID int

	// Err, если задан, возвращается из CreateLink и ListLinks
	Err error
	// LastQuery хранит последний запрос ListLinks
	LastQuery *link.Query
}

func NewMockLinkStorage(log *CallLog) *MockLinkStorage {
	return &MockLinkStorage{log: log, nextID: 1}
}

func (m *MockLinkStorage) CreateLink(ctx context.Context, url, description string, postedByID *uint) (*model.Link, error) {
	m.log.Record("LinkStore.CreateLink")

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	l := &model.Link{
		ID:          strconv.Itoa(m.nextID),
		URL:         url,
		Description: description,
		CreatedAt:   "2024-01-01T00:00:00Z",
	}
	if postedByID != nil {
		author := fmt.Sprint(*postedByID)
		l.PostedByID = &author
	}
	m.nextID++
	m.links = append(m.links, l)
	return l, nil
}

func (m *MockLinkStorage) GetLinkByID(ctx context.Context, id uint) (*model.Link, error) {
	m.log.Record("LinkStore.GetLinkByID")

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.links {
		if l.ID == fmt.Sprint(id) {
			return l, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *MockLinkStorage) ListLinks(ctx context.Context, q link.Query) ([]*model.Link, error) {
	m.log.Record("LinkStore.ListLinks")

	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastQuery = &q
	if m.Err != nil {
		return nil, m.Err
	}

	var matched []*model.Link
	needle := strings.ToLower(q.Filter)
	for _, l := range m.links {
		if needle == "" || strings.Contains(strings.ToLower(l.Description), needle) || strings.Contains(strings.ToLower(l.URL), needle) {
			matched = append(matched, l)
		}
	}

	result := []*model.Link{}
	for i := q.Skip; i < len(matched) && len(result) < q.Take; i++ {
		result = append(result, matched[i])
	}
	return result, nil
}

func (m *MockLinkStorage) ListLinksByUser(ctx context.Context, userID uint) ([]*model.Link, error) {
	m.log.Record("LinkStore.ListLinksByUser")

	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*model.Link{}
	for _, l := range m.links {
		if l.PostedByID != nil && *l.PostedByID == fmt.Sprint(userID) {
			result = append(result, l)
		}
	}
	return result, nil
}
