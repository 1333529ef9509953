package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/comment"
	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/dgraph-io/badger/v4"
)

var _ comment.CommentStorage = (*Store)(nil)

type commentRecord struct {
	ID        uint64    `json:"id"`
	Body      string    `json:"body"`
	LinkID    uint64    `json:"link_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *commentRecord) toModel() *model.Comment {
	return &model.Comment{
		ID:        strconv.FormatUint(r.ID, 10),
		Body:      r.Body,
		LinkID:    strconv.FormatUint(r.LinkID, 10),
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

// CreateComment checks the link inside the write transaction, so the check and the insert commit together.
func (s *Store) CreateComment(ctx context.Context, linkID uint, body string) (*model.Comment, error) {
	id, err := nextID(s.commentSeq)
	if err != nil {
		return nil, err
	}

	record := &commentRecord{
		ID:        id,
		Body:      body,
		LinkID:    uint64(linkID),
		CreatedAt: now(),
	}

	err = s.update(func(txn *badger.Txn) error {
		if _, err := txn.Get(idKey(linkPrefix, record.LinkID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("link %d: %w", linkID, storage.ErrReferenceConflict)
			}
			return err
		}
		if err := setJSON(txn, idKey(commentPrefix, id), record); err != nil {
			return err
		}
		return txn.Set(indexKey(linkCommentsPrefix, record.LinkID, id), nil)
	})
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}
	return record.toModel(), nil
}

func (s *Store) GetCommentByID(ctx context.Context, id uint) (*model.Comment, error) {
	var record commentRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(commentPrefix, uint64(id)), &record)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("comment %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get comment by id: %w", err)
	}
	return record.toModel(), nil
}

func (s *Store) ListCommentsByLink(ctx context.Context, linkID uint) ([]*model.Comment, error) {
	results := []*model.Comment{}

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndex(txn, ownerPrefix(linkCommentsPrefix, uint64(linkID)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			var record commentRecord
			if err := getJSON(txn, idKey(commentPrefix, id), &record); err != nil {
				return fmt.Errorf("comment %d: %w", id, err)
			}
			results = append(results, record.toModel())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not get comments of link %d: %w", linkID, err)
	}
	return results, nil
}
