package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/VitaminP8/hackernews/internal/user"
	"github.com/dgraph-io/badger/v4"
)

var _ user.UserStorage = (*Store)(nil)

type userRecord struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

func (r *userRecord) toModel() *model.User {
	return &model.User{
		ID:    strconv.FormatUint(r.ID, 10),
		Name:  r.Name,
		Email: r.Email,
	}
}

// CreateUser reserves the email key in the same transaction as the user record.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	id, err := nextID(s.userSeq)
	if err != nil {
		return nil, err
	}

	record := &userRecord{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	emailKey := []byte(userEmailPrefix + email)

	err = s.update(func(txn *badger.Txn) error {
		_, err := txn.Get(emailKey)
		if err == nil {
			return fmt.Errorf("user with email %s: %w", email, storage.ErrDuplicate)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := setJSON(txn, idKey(userPrefix, id), record); err != nil {
			return err
		}
		return txn.Set(emailKey, []byte(strconv.FormatUint(id, 10)))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return record.toModel(), nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var record userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, idKey(userPrefix, uint64(id)), &record)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", err)
	}
	return record.toModel(), nil
}

func (s *Store) GetCredentialsByEmail(ctx context.Context, email string) (*user.Credentials, error) {
	var record userRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userEmailPrefix + email))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("malformed email index for %s: %w", email, err)
		}
		return getJSON(txn, idKey(userPrefix, id), &record)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("user with email %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", err)
	}
	return &user.Credentials{User: record.toModel(), PasswordHash: record.PasswordHash}, nil
}
