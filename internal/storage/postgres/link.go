package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/models"
	"github.com/jinzhu/gorm"
)

type LinkPostgresStorage struct {
	db *gorm.DB
}

var _ link.LinkStorage = (*LinkPostgresStorage)(nil)

func NewLinkPostgresStorage(db *gorm.DB) *LinkPostgresStorage {
	return &LinkPostgresStorage{db: db}
}

func (s *LinkPostgresStorage) CreateLink(ctx context.Context, url, description string, postedByID *uint) (*model.Link, error) {
	row := &models.Link{
		URL:         url,
		Description: description,
		PostedByID:  postedByID,
	}

	err := s.db.Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("could not create link: %w", translateError(err))
	}
	return toLink(row), nil
}

func (s *LinkPostgresStorage) GetLinkByID(ctx context.Context, id uint) (*model.Link, error) {
	var row models.Link
	err := s.db.First(&row, id).Error
	if err != nil {
		return nil, fmt.Errorf("could not get link by id: %w", translateError(err))
	}
	return toLink(&row), nil
}

func (s *LinkPostgresStorage) ListLinks(ctx context.Context, q link.Query) ([]*model.Link, error) {
	query := s.db.Model(&models.Link{})
	if q.Filter != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Filter)) + "%"
		query = query.Where(`LOWER(description) LIKE ? ESCAPE '\' OR LOWER(url) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var rows []models.Link
	err := query.Order("id asc").Offset(q.Skip).Limit(q.Take).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get links: %w", err)
	}
	return toLinks(rows), nil
}

func (s *LinkPostgresStorage) ListLinksByUser(ctx context.Context, userID uint) ([]*model.Link, error) {
	var rows []models.Link
	err := s.db.Where("posted_by_id = ?", userID).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("could not get links of user %d: %w", userID, err)
	}
	return toLinks(rows), nil
}

func toLinks(rows []models.Link) []*model.Link {
	results := make([]*model.Link, 0, len(rows))
	for i := range rows {
		results = append(results, toLink(&rows[i]))
	}
	return results
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
