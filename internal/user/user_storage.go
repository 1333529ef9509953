package user

import (
	"context"

	"github.com/VitaminP8/hackernews/graph/model"
)

// Credentials pairs a user with the stored password hash. It never leaves the resolver layer.
type Credentials struct {
	User         *model.User
	PasswordHash string
}

type UserStorage interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	GetUserByID(ctx context.Context, id uint) (*model.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
}
