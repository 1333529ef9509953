package comment

import (
	"context"

	"github.com/VitaminP8/hackernews/graph/model"
)

type CommentStorage interface {
	// CreateComment fails with storage.ErrReferenceConflict when the link does not exist.
	CreateComment(ctx context.Context, linkID uint, body string) (*model.Comment, error)
	GetCommentByID(ctx context.Context, id uint) (*model.Comment, error)
	ListCommentsByLink(ctx context.Context, linkID uint) ([]*model.Comment, error)
}
