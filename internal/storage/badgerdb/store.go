// Package badgerdb implements the storage interfaces on an embedded Badger key-value store.
package badgerdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// Keys use zero-padded ids so that prefix iteration walks records in id order.
const (
	linkPrefix         = "link:"
	commentPrefix      = "comment:"
	linkCommentsPrefix = "link_comments:"
	userPrefix         = "user:"
	userEmailPrefix    = "user_email:"
	userLinksPrefix    = "user_links:"

	seqBandwidth = 100
	maxRetries   = 5
)

// Store keeps links, comments and users in one Badger database.
type Store struct {
	db         *badger.DB
	log        logrus.FieldLogger
	linkSeq    *badger.Sequence
	commentSeq *badger.Sequence
	userSeq    *badger.Sequence
}

// Open opens the database at path. An empty path keeps everything in memory.
func Open(path string, log logrus.FieldLogger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = &badgerLogger{log.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %q: %w", path, err)
	}

	s := &Store{
		db:  db,
		log: log.WithField("component", "storage"),
	}
	for key, seq := range map[string]**badger.Sequence{
		"seq:link":    &s.linkSeq,
		"seq:comment": &s.commentSeq,
		"seq:user":    &s.userSeq,
	} {
		*seq, err = db.GetSequence([]byte(key), seqBandwidth)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open sequence %s: %w", key, err)
		}
	}

	s.log.WithField("path", path).Info("BadgerDB opened")
	return s, nil
}

// Close releases the id sequences and closes the database.
func (s *Store) Close() error {
	for _, seq := range []*badger.Sequence{s.linkSeq, s.commentSeq, s.userSeq} {
		if seq == nil {
			continue
		}
		if err := seq.Release(); err != nil {
			s.log.WithError(err).Warn("Failed to release badger sequence")
		}
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger db: %w", err)
	}
	return nil
}

// nextID turns the zero-based badger sequence into ids starting at 1.
func nextID(seq *badger.Sequence) (uint64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id: %w", err)
	}
	return n + 1, nil
}

// update retries fn while badger reports a transaction conflict.
func (s *Store) update(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func idKey(prefix string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func indexKey(prefix string, owner, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d", prefix, owner, id))
}

func ownerPrefix(prefix string, owner uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", prefix, owner))
}

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// scanJSON decodes every value under prefix, in key order.
func scanJSON[T any](txn *badger.Txn, prefix []byte, visit func(*T) bool) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var record T
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", item.Key(), err)
		}
		if !visit(&record) {
			return nil
		}
	}
	return nil
}

// scanIndex walks an owner index and returns the referenced ids, in key order.
func scanIndex(txn *badger.Txn, prefix []byte) ([]uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []uint64
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		id, err := strconv.ParseUint(string(it.Item().Key()[len(prefix):]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed index key %s: %w", it.Item().Key(), err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
