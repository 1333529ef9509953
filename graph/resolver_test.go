package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/apperror"
	"github.com/VitaminP8/hackernews/internal/auth"
	"github.com/VitaminP8/hackernews/internal/mocks"
	"github.com/VitaminP8/hackernews/internal/subscription"
	"github.com/VitaminP8/hackernews/internal/validation"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createUserContext(userID uint) context.Context {
	ctx := context.Background()
	return auth.WithUserID(ctx, userID)
}

type fixture struct {
	resolver *Resolver
	calls    *mocks.CallLog
	links    *mocks.MockLinkStorage
	comments *mocks.MockCommentStorage
	users    *mocks.MockUserStorage
	notifier *mocks.MockNotifier
	tokens   *auth.JWTSigner
}

func newFixture(t *testing.T, existingLinks ...uint) *fixture {
	t.Helper()
	calls := &mocks.CallLog{}
	tokens, err := auth.NewJWTSigner("test-secret", time.Hour)
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	f := &fixture{
		calls:    calls,
		links:    mocks.NewMockLinkStorage(calls),
		comments: mocks.NewMockCommentStorage(calls, existingLinks...),
		users:    mocks.NewMockUserStorage(calls),
		notifier: mocks.NewMockNotifier(calls),
		tokens:   tokens,
	}
	f.resolver = &Resolver{
		LinkStore:    f.links,
		CommentStore: f.comments,
		UserStore:    f.users,
		Notifier:     f.notifier,
		Hasher:       auth.NewBcryptHasher(bcrypt.MinCost),
		Tokens:       tokens,
		Log:          logger,
	}
	return f
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func TestMutationResolver_PostLink(t *testing.T) {
	t.Run("Successful link creation persists then publishes once", func(t *testing.T) {
		f := newFixture(t)
		ctx := createUserContext(123)

		sub := f.notifier.Subscribe(subscription.TopicNewLink)
		defer sub.Cancel()

		link, err := f.resolver.Mutation().PostLink(ctx, model.PostLinkInput{
			URL:         "https://www.howtographql.com",
			Description: "Fullstack tutorial for GraphQL",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, link.ID)
		assert.Equal(t, "https://www.howtographql.com", link.URL)
		require.NotNil(t, link.PostedByID)
		assert.Equal(t, "123", *link.PostedByID)

		assert.Equal(t, []string{"LinkStore.CreateLink", "Notifier.Publish"}, f.calls.Calls())

		published := f.notifier.Published(subscription.TopicNewLink)
		require.Len(t, published, 1)
		assert.Equal(t, link, published[0].NewLink)

		select {
		case event := <-sub.Events():
			assert.Equal(t, link, event.NewLink)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the new link")
		}
	})

	rejected := []struct {
		name  string
		ctx   context.Context
		input model.PostLinkInput
		kind  error
	}{
		{
			name:  "Error when no authorization",
			ctx:   context.Background(),
			input: model.PostLinkInput{URL: "https://graphql.org", Description: "GraphQL"},
			kind:  apperror.ErrUnauthenticated,
		},
		{
			name:  "Error when description is empty",
			ctx:   createUserContext(1),
			input: model.PostLinkInput{URL: "https://graphql.org", Description: "   "},
			kind:  apperror.ErrValidation,
		},
		{
			name:  "Error when url is invalid",
			ctx:   createUserContext(1),
			input: model.PostLinkInput{URL: "not a url", Description: "GraphQL"},
			kind:  apperror.ErrValidation,
		},
		{
			name:  "Error when url has no http scheme",
			ctx:   createUserContext(1),
			input: model.PostLinkInput{URL: "ftp://example.com/file", Description: "GraphQL"},
			kind:  apperror.ErrValidation,
		},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			link, err := f.resolver.Mutation().PostLink(tc.ctx, tc.input)
			assert.ErrorIs(t, err, tc.kind)
			assert.Nil(t, link)

			// ничего не сохранено и не опубликовано
			assert.Empty(t, f.calls.Calls())
			assert.Empty(t, f.notifier.Published(subscription.TopicNewLink))
		})
	}

	t.Run("Storage failure does not publish", func(t *testing.T) {
		f := newFixture(t)
		f.links.Err = errors.New("connection refused")

		_, err := f.resolver.Mutation().PostLink(createUserContext(1), model.PostLinkInput{
			URL:         "https://graphql.org",
			Description: "GraphQL",
		})
		assert.ErrorIs(t, err, apperror.ErrInternal)
		assert.Equal(t, 0, f.calls.Count("Notifier.Publish"))
	})
}

func TestMutationResolver_PostCommentOnLink(t *testing.T) {
	t.Run("Successful comment creation", func(t *testing.T) {
		f := newFixture(t, 1)

		c, err := f.resolver.Mutation().PostCommentOnLink(context.Background(), model.PostCommentInput{
			LinkID: "1",
			Body:   "Great resource",
		})
		require.NoError(t, err)
		assert.Equal(t, "1", c.LinkID)
		assert.Equal(t, "Great resource", c.Body)
	})

	t.Run("Malformed id fails without touching the store", func(t *testing.T) {
		f := newFixture(t, 1)

		_, err := f.resolver.Mutation().PostCommentOnLink(context.Background(), model.PostCommentInput{
			LinkID: "abc",
			Body:   "Hello",
		})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Contains(t, err.Error(), "'abc'")
		assert.Empty(t, f.calls.Calls())
	})

	t.Run("Well-formed id of a missing link fails the same way after the store rejects it", func(t *testing.T) {
		f := newFixture(t, 1)

		_, err := f.resolver.Mutation().PostCommentOnLink(context.Background(), model.PostCommentInput{
			LinkID: "999999",
			Body:   "Hello",
		})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Contains(t, err.Error(), "'999999'")
		assert.Equal(t, []string{"CommentStore.CreateComment"}, f.calls.Calls())
	})

	t.Run("Empty body", func(t *testing.T) {
		f := newFixture(t, 1)

		_, err := f.resolver.Mutation().PostCommentOnLink(context.Background(), model.PostCommentInput{
			LinkID: "1",
			Body:   "",
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		assert.Empty(t, f.calls.Calls())
	})
}

func TestQueryResolver_Feed(t *testing.T) {
	f := newFixture(t)
	ctx := createUserContext(1)
	for _, in := range []model.PostLinkInput{
		{URL: "https://www.prisma.io", Description: "Prisma replaces traditional ORMs"},
		{URL: "https://graphql.org", Description: "GraphQL official website"},
		{URL: "https://www.howtographql.com", Description: "Fullstack tutorial for GraphQL"},
	} {
		_, err := f.resolver.Mutation().PostLink(ctx, in)
		require.NoError(t, err)
	}

	t.Run("Defaults", func(t *testing.T) {
		links, err := f.resolver.Query().Feed(ctx, model.FeedArgs{})
		require.NoError(t, err)
		assert.Len(t, links, 3)
		require.NotNil(t, f.links.LastQuery)
		assert.Equal(t, validation.DefaultTake, f.links.LastQuery.Take)
		assert.Equal(t, 0, f.links.LastQuery.Skip)
		assert.Equal(t, "", f.links.LastQuery.Filter)
	})

	t.Run("Filter skip and take are passed through", func(t *testing.T) {
		links, err := f.resolver.Query().Feed(ctx, model.FeedArgs{
			FilterNeedle: strPtr("graphql"),
			Skip:         intPtr(1),
			Take:         intPtr(1),
		})
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "https://www.howtographql.com", links[0].URL)
	})

	for _, take := range []int{0, -1, 51, 1000} {
		t.Run("Take out of range", func(t *testing.T) {
			_, err := f.resolver.Query().Feed(ctx, model.FeedArgs{Take: intPtr(take)})
			assert.ErrorIs(t, err, apperror.ErrValidation)

			var rangeErr *validation.OutOfRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, take, rangeErr.Value)
		})
	}

	t.Run("Negative skip", func(t *testing.T) {
		_, err := f.resolver.Query().Feed(ctx, model.FeedArgs{Skip: intPtr(-1)})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}

func TestQueryResolver_LinkAndComment(t *testing.T) {
	f := newFixture(t, 1)
	ctx := createUserContext(1)

	created, err := f.resolver.Mutation().PostLink(ctx, model.PostLinkInput{URL: "https://graphql.org", Description: "GraphQL"})
	require.NoError(t, err)
	c, err := f.resolver.Mutation().PostCommentOnLink(ctx, model.PostCommentInput{LinkID: created.ID, Body: "Nice"})
	require.NoError(t, err)

	t.Run("Existing ids", func(t *testing.T) {
		l, err := f.resolver.Query().Link(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, l)

		got, err := f.resolver.Query().Comment(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("Malformed and unknown ids resolve to null", func(t *testing.T) {
		for _, id := range []string{"abc", "-1", "", "42"} {
			l, err := f.resolver.Query().Link(ctx, id)
			assert.NoError(t, err)
			assert.Nil(t, l)

			got, err := f.resolver.Query().Comment(ctx, id)
			assert.NoError(t, err)
			assert.Nil(t, got)
		}
	})

	t.Run("Field resolvers", func(t *testing.T) {
		comments, err := f.resolver.Link().Comments(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, []*model.Comment{c}, comments)

		l, err := f.resolver.Comment().Link(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, created, l)

		// пользователь 1 не зарегистрирован в хранилище
		author, err := f.resolver.Link().PostedBy(ctx, created)
		require.NoError(t, err)
		assert.Nil(t, author)
	})
}

func TestMutationResolver_SignupLoginMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payload, err := f.resolver.Mutation().Signup(ctx, model.SignupInput{
		Email:    "alice@example.com",
		Password: "secret",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", payload.User.Name)

	userID, err := f.tokens.Verify(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), userID)

	t.Run("Duplicate email", func(t *testing.T) {
		_, err := f.resolver.Mutation().Signup(ctx, model.SignupInput{
			Email:    "alice@example.com",
			Password: "other",
			Name:     "Other",
		})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("Missing fields", func(t *testing.T) {
		_, err := f.resolver.Mutation().Signup(ctx, model.SignupInput{Email: "", Password: "x", Name: "x"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = f.resolver.Mutation().Signup(ctx, model.SignupInput{Email: "x@example.com", Password: "", Name: "x"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
		_, err = f.resolver.Mutation().Signup(ctx, model.SignupInput{Email: "x@example.com", Password: "x", Name: " "})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Login", func(t *testing.T) {
		got, err := f.resolver.Mutation().Login(ctx, model.LoginInput{Email: "alice@example.com", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, payload.User, got.User)
		assert.NotEmpty(t, got.Token)
	})

	t.Run("Unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, errUnknown := f.resolver.Mutation().Login(ctx, model.LoginInput{Email: "bob@example.com", Password: "secret"})
		_, errWrong := f.resolver.Mutation().Login(ctx, model.LoginInput{Email: "alice@example.com", Password: "wrong"})

		assert.ErrorIs(t, errUnknown, apperror.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, apperror.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("Me", func(t *testing.T) {
		me, err := f.resolver.Query().Me(auth.WithUserID(ctx, userID))
		require.NoError(t, err)
		assert.Equal(t, payload.User, me)

		_, err = f.resolver.Query().Me(ctx)
		assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
	})

	t.Run("User links", func(t *testing.T) {
		_, err := f.resolver.Mutation().PostLink(auth.WithUserID(ctx, userID), model.PostLinkInput{
			URL:         "https://graphql.org",
			Description: "GraphQL",
		})
		require.NoError(t, err)

		links, err := f.resolver.User().Links(ctx, payload.User)
		require.NoError(t, err)
		require.Len(t, links, 1)

		author, err := f.resolver.Link().PostedBy(ctx, links[0])
		require.NoError(t, err)
		assert.Equal(t, payload.User, author)
	})
}

func TestSubscriptionResolver_NewLink(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	events, err := f.resolver.Subscription().NewLink(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return f.notifier.SubscriberCount(subscription.TopicNewLink) == 1
	}, time.Second, 10*time.Millisecond)

	link, err := f.resolver.Mutation().PostLink(createUserContext(1), model.PostLinkInput{
		URL:         "https://graphql.org",
		Description: "GraphQL",
	})
	require.NoError(t, err)

	select {
	case got := <-events:
		assert.Equal(t, link, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for newLink")
	}

	// отмена контекста освобождает подписку
	cancel()
	require.Eventually(t, func() bool {
		return f.notifier.SubscriberCount(subscription.TopicNewLink) == 0
	}, time.Second, 10*time.Millisecond)

	_, ok := <-events
	assert.False(t, ok)
}
