package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/storage"
)

type LinkMemoryStorage struct {
	mu     sync.RWMutex
	links  map[uint]*model.Link
	order  []uint // ID выдаются по возрастанию, поэтому порядок вставки совпадает с порядком ID
	nextID uint
}

var _ link.LinkStorage = (*LinkMemoryStorage)(nil)

func NewLinkMemoryStorage() *LinkMemoryStorage {
	return &LinkMemoryStorage{
		links:  make(map[uint]*model.Link),
		nextID: 1,
	}
}

func (s *LinkMemoryStorage) CreateLink(ctx context.Context, url, description string, postedByID *uint) (*model.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	l := &model.Link{
		ID:          strconv.FormatUint(uint64(id), 10),
		URL:         url,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if postedByID != nil {
		author := strconv.FormatUint(uint64(*postedByID), 10)
		l.PostedByID = &author
	}

	s.links[id] = l
	s.order = append(s.order, id)

	return copyLink(l), nil
}

func (s *LinkMemoryStorage) GetLinkByID(ctx context.Context, id uint) (*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.links[id]
	if !ok {
		return nil, fmt.Errorf("link %d: %w", id, storage.ErrNotFound)
	}
	return copyLink(l), nil
}

func (s *LinkMemoryStorage) ListLinks(ctx context.Context, q link.Query) ([]*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(q.Filter)
	matched := make([]*model.Link, 0, len(s.order))
	for _, id := range s.order {
		l := s.links[id]
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Description), needle) &&
			!strings.Contains(strings.ToLower(l.URL), needle) {
			continue
		}
		matched = append(matched, l)
	}

	return page(matched, q.Skip, q.Take), nil
}

func (s *LinkMemoryStorage) ListLinksByUser(ctx context.Context, userID uint) ([]*model.Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	author := strconv.FormatUint(uint64(userID), 10)
	results := []*model.Link{}
	for _, id := range s.order {
		l := s.links[id]
		if l.PostedByID != nil && *l.PostedByID == author {
			results = append(results, copyLink(l))
		}
	}
	return results, nil
}

// exists is used by the comment storage to check references without copying.
func (s *LinkMemoryStorage) exists(id uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.links[id]
	return ok
}

func page(links []*model.Link, skip, take int) []*model.Link {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(links) {
		return []*model.Link{}
	}
	end := len(links)
	if take >= 0 && skip+take < end {
		end = skip + take
	}

	results := make([]*model.Link, 0, end-skip)
	for _, l := range links[skip:end] {
		results = append(results, copyLink(l))
	}
	return results
}

func copyLink(l *model.Link) *model.Link {
	c := *l
	if l.PostedByID != nil {
		author := *l.PostedByID
		c.PostedByID = &author
	}
	return &c
}
