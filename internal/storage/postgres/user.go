package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/user"
	"github.com/VitaminP8/hackernews/models"
	"github.com/jinzhu/gorm"
)

type UserPostgresStorage struct {
	db *gorm.DB
}

var _ user.UserStorage = (*UserPostgresStorage)(nil)

func NewUserPostgresStorage(db *gorm.DB) *UserPostgresStorage {
	return &UserPostgresStorage{db: db}
}

func (s *UserPostgresStorage) CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	row := &models.User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
	}

	err := s.db.Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", translateError(err))
	}
	return toUser(row), nil
}

func (s *UserPostgresStorage) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	var row models.User
	err := s.db.First(&row, id).Error
	if err != nil {
		return nil, fmt.Errorf("could not get user by id: %w", translateError(err))
	}
	return toUser(&row), nil
}

func (s *UserPostgresStorage) GetCredentialsByEmail(ctx context.Context, email string) (*user.Credentials, error) {
	var row models.User
	err := s.db.Where("email = ?", email).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("could not get user by email: %w", translateError(err))
	}
	return &user.Credentials{User: toUser(&row), PasswordHash: row.Password}, nil
}
