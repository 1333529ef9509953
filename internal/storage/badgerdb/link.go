package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/dgraph-io/badger/v4"
)

var _ link.LinkStorage = (*Store)(nil)

type linkRecord struct {
	ID          uint64    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	PostedByID  *uint64   `json:"posted_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r *linkRecord) toModel() *model.Link {
	l := &model.Link{
		ID:          strconv.FormatUint(r.ID, 10),
		URL:         r.URL,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
	if r.PostedByID != nil {
		author := strconv.FormatUint(*r.PostedByID, 10)
		l.PostedByID = &author
	}
	return l
}

func (s *Store) CreateLink(ctx context.Context, url, description string, postedByID *uint) (*model.Link, error) {
	id, err := nextID(s.linkSeq)
	if err != nil {
		return nil, err
	}

	record := &linkRecord{
		ID:          id,
		URL:         url,
		Description: description,
		CreatedAt:   now(),
	}
	if postedByID != nil {
		author := uint64(*postedByID)
		record.PostedByID = &author
	}

	err = s.update(func(txn *badger.Txn) error {
		if err := setJSON(txn, idKey(linkPrefix, id), record); err != nil {
			return err
		}
		if record.PostedByID != nil {
			return txn.Set(indexKey(userLinksPrefix, *record.PostedByID, id), nil)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not create link: %w", err)
	}

	s.log.WithField("link_id", id).Debug("Link stored")
	return record.toModel(), nil
}

func (s *Store) GetLinkByID(ctx context.Context, id uint) (*model.Link, error) {
	var record linkRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(linkPrefix, uint64(id)), &record)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("link %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get link by id: %w", err)
	}
	return record.toModel(), nil
}

func (s *Store) ListLinks(ctx context.Context, q link.Query) ([]*model.Link, error) {
	needle := strings.ToLower(q.Filter)
	results := []*model.Link{}
	skipped := 0

	err := s.db.View(func(txn *badger.Txn) error {
		return scanJSON(txn, []byte(linkPrefix), func(r *linkRecord) bool {
			if needle != "" &&
				!strings.Contains(strings.ToLower(r.Description), needle) &&
				!strings.Contains(strings.ToLower(r.URL), needle) {
				return true
			}
			if skipped < q.Skip {
				skipped++
				return true
			}
			if len(results) >= q.Take {
				return false
			}
			results = append(results, r.toModel())
			return len(results) < q.Take
		})
	})
	if err != nil {
		return nil, fmt.Errorf("could not get links: %w", err)
	}
	return results, nil
}

func (s *Store) ListLinksByUser(ctx context.Context, userID uint) ([]*model.Link, error) {
	results := []*model.Link{}

	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndex(txn, ownerPrefix(userLinksPrefix, uint64(userID)))
		if err != nil {
			return err
		}
		for _, id := range ids {
			var record linkRecord
			if err := getJSON(txn, idKey(linkPrefix, id), &record); err != nil {
				return fmt.Errorf("link %d: %w", id, err)
			}
			results = append(results, record.toModel())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not get links of user %d: %w", userID, err)
	}
	return results, nil
}
