package postgres

import (
	"fmt"
	"time"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/models"
)

func toLink(row *models.Link) *model.Link {
	link := &model.Link{
		ID:          fmt.Sprint(row.ID),
		URL:         row.URL,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.UTC().Format(time.RFC3339),
	}
	if row.PostedByID != nil {
		id := fmt.Sprint(*row.PostedByID)
		link.PostedByID = &id
	}
	return link
}

func toComment(row *models.Comment) *model.Comment {
	return &model.Comment{
		ID:        fmt.Sprint(row.ID),
		Body:      row.Body,
		LinkID:    fmt.Sprint(row.LinkID),
		CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toUser(row *models.User) *model.User {
	return &model.User{
		ID:    fmt.Sprint(row.ID),
		Name:  row.Name,
		Email: row.Email,
	}
}
