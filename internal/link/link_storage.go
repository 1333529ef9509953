package link

import (
	"context"

	"github.com/VitaminP8/hackernews/graph/model"
)

// Query selects a page of the feed. Filter matches description or url, case-insensitively.
type Query struct {
	Filter string
	Skip   int
	Take   int
}

type LinkStorage interface {
	CreateLink(ctx context.Context, url, description string, postedByID *uint) (*model.Link, error)
	GetLinkByID(ctx context.Context, id uint) (*model.Link, error)
	ListLinks(ctx context.Context, q Query) ([]*model.Link, error)
	ListLinksByUser(ctx context.Context, userID uint) ([]*model.Link, error)
}
