package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/comment"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/storage"
)

type CommentMemoryStorage struct {
	mu       sync.RWMutex
	comments map[uint]*model.Comment
	byLink   map[uint][]uint // linkID -> список ID комментариев
	nextID   uint
	links    link.LinkStorage // Хранилище ссылок (внедрение зависимости (DI))
}

var _ comment.CommentStorage = (*CommentMemoryStorage)(nil)

func NewCommentMemoryStorage(links link.LinkStorage) *CommentMemoryStorage {
	return &CommentMemoryStorage{
		comments: make(map[uint]*model.Comment),
		byLink:   make(map[uint][]uint),
		nextID:   1,
		links:    links,
	}
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, linkID uint, body string) (*model.Comment, error) {
	if err := s.checkLink(ctx, linkID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	c := &model.Comment{
		ID:        strconv.FormatUint(uint64(id), 10),
		Body:      body,
		LinkID:    strconv.FormatUint(uint64(linkID), 10),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	s.comments[id] = c
	s.byLink[linkID] = append(s.byLink[linkID], id)

	copied := *c
	return &copied, nil
}

func (s *CommentMemoryStorage) GetCommentByID(ctx context.Context, id uint) (*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, storage.ErrNotFound)
	}
	copied := *c
	return &copied, nil
}

func (s *CommentMemoryStorage) ListCommentsByLink(ctx context.Context, linkID uint) ([]*model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byLink[linkID]
	results := make([]*model.Comment, 0, len(ids))
	for _, id := range ids {
		copied := *s.comments[id]
		results = append(results, &copied)
	}
	return results, nil
}

// Links are never deleted, so a link seen here still exists when the comment is stored.
// Only a missing link is a reference conflict; other lookup failures are returned as they are.
func (s *CommentMemoryStorage) checkLink(ctx context.Context, linkID uint) error {
	if mem, ok := s.links.(*LinkMemoryStorage); ok {
		if !mem.exists(linkID) {
			return fmt.Errorf("link %d: %w", linkID, storage.ErrReferenceConflict)
		}
		return nil
	}

	_, err := s.links.GetLinkByID(ctx, linkID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("link %d: %w", linkID, storage.ErrReferenceConflict)
	default:
		return fmt.Errorf("failed to look up link %d: %w", linkID, err)
	}
}
