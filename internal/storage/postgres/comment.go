package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/comment"
	"github.com/VitaminP8/hackernews/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct {
	db *gorm.DB
}

var _ comment.CommentStorage = (*CommentPostgresStorage)(nil)

func NewCommentPostgresStorage(db *gorm.DB) *CommentPostgresStorage {
	return &CommentPostgresStorage{db: db}
}

// CreateComment relies on the links(id) reference; the database reports missing links.
func (s *CommentPostgresStorage) CreateComment(ctx context.Context, linkID uint, body string) (*model.Comment, error) {
	row := &models.Comment{
		Body:   body,
		LinkID: linkID,
	}

	err := s.db.Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", translateError(err))
	}
	return toComment(row), nil
}

func (s *CommentPostgresStorage) GetCommentByID(ctx context.Context, id uint) (*model.Comment, error) {
	var row models.Comment
	err := s.db.First(&row, id).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comment by id: %w", translateError(err))
	}
	return toComment(&row), nil
}

func (s *CommentPostgresStorage) ListCommentsByLink(ctx context.Context, linkID uint) ([]*model.Comment, error) {
	var rows []models.Comment
	err := s.db.Where("link_id = ?", linkID).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments of link %d: %w", linkID, err)
	}

	results := make([]*model.Comment, 0, len(rows))
	for i := range rows {
		results = append(results, toComment(&rows[i]))
	}
	return results, nil
}
