package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VitaminP8/hackernews/graph/executor"
	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/apperror"
	"github.com/VitaminP8/hackernews/internal/auth"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/VitaminP8/hackernews/internal/subscription"
	"github.com/VitaminP8/hackernews/internal/validation"
)

// PostLink is the resolver for the postLink field.
func (r *mutationResolver) PostLink(ctx context.Context, input model.PostLinkInput) (*model.Link, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperror.Unauthenticated()
	}

	if strings.TrimSpace(input.Description) == "" {
		return nil, apperror.Validation("description must not be empty")
	}
	if !validation.ValidateURL(input.URL) {
		return nil, apperror.Validation("invalid url: %s", input.URL)
	}

	newLink, err := r.LinkStore.CreateLink(ctx, input.URL, input.Description, &userID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("postLink: %w", err))
	}

	// публикуем только после того, как ссылка сохранена
	r.Notifier.Publish(subscription.TopicNewLink, &model.NewLinkEvent{NewLink: newLink})
	return newLink, nil
}

// PostCommentOnLink is the resolver for the postCommentOnLink field.
// A malformed id and an id of a missing link fail with the same error.
func (r *mutationResolver) PostCommentOnLink(ctx context.Context, input model.PostCommentInput) (*model.Comment, error) {
	linkID, ok := validation.ParseEntityID(input.LinkID)
	if !ok {
		return nil, invalidLinkID(input.LinkID)
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, apperror.Validation("comment body must not be empty")
	}

	newComment, err := r.CommentStore.CreateComment(ctx, linkID, input.Body)
	if errors.Is(err, storage.ErrReferenceConflict) {
		return nil, invalidLinkID(input.LinkID)
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("postCommentOnLink: %w", err))
	}
	return newComment, nil
}

func invalidLinkID(raw string) error {
	return apperror.NotFound("Cannot post comment on non-existing link with id '%s'.", raw)
}

// Signup is the resolver for the signup field.
func (r *mutationResolver) Signup(ctx context.Context, input model.SignupInput) (*model.AuthPayload, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(input.Name)
	switch {
	case email == "":
		return nil, apperror.Validation("email must not be empty")
	case input.Password == "":
		return nil, apperror.Validation("password must not be empty")
	case name == "":
		return nil, apperror.Validation("name must not be empty")
	}

	hash, err := r.Hasher.Hash(input.Password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("signup: %w", err))
	}

	newUser, err := r.UserStore.CreateUser(ctx, name, email, hash)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, apperror.Conflict("a user with this email already exists", err)
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("signup: %w", err))
	}

	return r.authPayload(newUser)
}

// Login is the resolver for the login field.
func (r *mutationResolver) Login(ctx context.Context, input model.LoginInput) (*model.AuthPayload, error) {
	creds, err := r.UserStore.GetCredentialsByEmail(ctx, strings.TrimSpace(input.Email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.InvalidCredentials()
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("login: %w", err))
	}

	if err := r.Hasher.Compare(creds.PasswordHash, input.Password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	return r.authPayload(creds.User)
}

func (r *mutationResolver) authPayload(u *model.User) (*model.AuthPayload, error) {
	userID, ok := validation.ParseEntityID(u.ID)
	if !ok {
		return nil, apperror.Internal(fmt.Errorf("user id %q is not numeric", u.ID))
	}
	token, err := r.Tokens.Sign(userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &model.AuthPayload{Token: token, User: u}, nil
}

// Hello is the resolver for the hello field.
func (r *queryResolver) Hello(ctx context.Context) (string, error) {
	return "Hello World!", nil
}

// Feed is the resolver for the feed field.
func (r *queryResolver) Feed(ctx context.Context, args model.FeedArgs) ([]*model.Link, error) {
	take, err := validation.ValidateTake(args.Take)
	if err != nil {
		return nil, err
	}
	skip, err := validation.ValidateSkip(args.Skip)
	if err != nil {
		return nil, err
	}

	q := link.Query{Skip: skip, Take: take}
	if args.FilterNeedle != nil {
		q.Filter = *args.FilterNeedle
	}

	links, err := r.LinkStore.ListLinks(ctx, q)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("feed: %w", err))
	}
	return links, nil
}

// Comment is the resolver for the comment field. Unknown and malformed ids resolve to null.
func (r *queryResolver) Comment(ctx context.Context, id string) (*model.Comment, error) {
	commentID, ok := validation.ParseEntityID(id)
	if !ok {
		return nil, nil
	}
	c, err := r.CommentStore.GetCommentByID(ctx, commentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("comment: %w", err))
	}
	return c, nil
}

// Link is the resolver for the link field. Unknown and malformed ids resolve to null.
func (r *queryResolver) Link(ctx context.Context, id string) (*model.Link, error) {
	linkID, ok := validation.ParseEntityID(id)
	if !ok {
		return nil, nil
	}
	l, err := r.LinkStore.GetLinkByID(ctx, linkID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("link: %w", err))
	}
	return l, nil
}

// Me is the resolver for the me field.
func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperror.Unauthenticated()
	}
	u, err := r.UserStore.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		// токен пережил пользователя
		return nil, apperror.Unauthenticated()
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("me: %w", err))
	}
	return u, nil
}

// NewLink is the resolver for the newLink field. The subscription is
// cancelled when the client goes away.
func (r *subscriptionResolver) NewLink(ctx context.Context) (<-chan *model.Link, error) {
	sub := r.Notifier.Subscribe(subscription.TopicNewLink)
	out := make(chan *model.Link, 1)

	go func() {
		defer close(out)
		defer sub.Cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sub.Events():
				if !ok {
					if err := sub.Err(); err != nil {
						r.logger().WithError(err).Warn("newLink subscriber disconnected")
					}
					return
				}
				select {
				case out <- event.NewLink:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// PostedBy is the resolver for the postedBy field.
func (r *linkResolver) PostedBy(ctx context.Context, obj *model.Link) (*model.User, error) {
	if obj.PostedByID == nil {
		return nil, nil
	}
	userID, ok := validation.ParseEntityID(*obj.PostedByID)
	if !ok {
		return nil, nil
	}
	u, err := r.UserStore.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("postedBy: %w", err))
	}
	return u, nil
}

// Comments is the resolver for the comments field.
func (r *linkResolver) Comments(ctx context.Context, obj *model.Link) ([]*model.Comment, error) {
	linkID, ok := validation.ParseEntityID(obj.ID)
	if !ok {
		return []*model.Comment{}, nil
	}
	comments, err := r.CommentStore.ListCommentsByLink(ctx, linkID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("comments: %w", err))
	}
	return comments, nil
}

// Link is the resolver for the link field.
func (r *commentResolver) Link(ctx context.Context, obj *model.Comment) (*model.Link, error) {
	linkID, ok := validation.ParseEntityID(obj.LinkID)
	if !ok {
		return nil, apperror.Internal(fmt.Errorf("comment %s has malformed link id %q", obj.ID, obj.LinkID))
	}
	l, err := r.LinkStore.GetLinkByID(ctx, linkID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("comment link: %w", err))
	}
	return l, nil
}

// Links is the resolver for the links field.
func (r *userResolver) Links(ctx context.Context, obj *model.User) ([]*model.Link, error) {
	userID, ok := validation.ParseEntityID(obj.ID)
	if !ok {
		return []*model.Link{}, nil
	}
	links, err := r.LinkStore.ListLinksByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("user links: %w", err))
	}
	return links, nil
}

// Comment returns executor.CommentResolver implementation.
func (r *Resolver) Comment() executor.CommentResolver { return &commentResolver{r} }

// Link returns executor.LinkResolver implementation.
func (r *Resolver) Link() executor.LinkResolver { return &linkResolver{r} }

// Mutation returns executor.MutationResolver implementation.
func (r *Resolver) Mutation() executor.MutationResolver { return &mutationResolver{r} }

// Query returns executor.QueryResolver implementation.
func (r *Resolver) Query() executor.QueryResolver { return &queryResolver{r} }

// Subscription returns executor.SubscriptionResolver implementation.
func (r *Resolver) Subscription() executor.SubscriptionResolver { return &subscriptionResolver{r} }

// User returns executor.UserResolver implementation.
func (r *Resolver) User() executor.UserResolver { return &userResolver{r} }

type commentResolver struct{ *Resolver }
type linkResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
type subscriptionResolver struct{ *Resolver }
type userResolver struct{ *Resolver }
