package graph

import (
	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/auth"
	"github.com/VitaminP8/hackernews/internal/comment"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/subscription"
	"github.com/VitaminP8/hackernews/internal/user"
	"github.com/sirupsen/logrus"
)

// Resolver служит корневой точкой для всех резолверов.
// Все зависимости внедряются явно; текущий пользователь приходит через context.
type Resolver struct {
	LinkStore    link.LinkStorage
	CommentStore comment.CommentStorage
	UserStore    user.UserStorage
	Notifier     subscription.Manager[*model.NewLinkEvent]
	Hasher       auth.PasswordHasher
	Tokens       auth.TokenSigner
	Log          logrus.FieldLogger
}

func (r *Resolver) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}
