package badgerdb

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s, err := Open("", logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func uintPtr(v uint) *uint {
	return &v
}

func TestStore_Links(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first, err := s.CreateLink(ctx, "https://www.prisma.io", "Prisma replaces traditional ORMs", uintPtr(1))
	require.NoError(t, err)
	assert.Equal(t, "1", first.ID)
	require.NotNil(t, first.PostedByID)
	assert.Equal(t, "1", *first.PostedByID)

	_, err = s.CreateLink(ctx, "https://graphql.org", "GraphQL official website", nil)
	require.NoError(t, err)
	_, err = s.CreateLink(ctx, "https://www.howtographql.com", "Fullstack tutorial for GraphQL", uintPtr(1))
	require.NoError(t, err)

	t.Run("Get by id", func(t *testing.T) {
		got, err := s.GetLinkByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, first, got)

		_, err = s.GetLinkByID(ctx, 99)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("List in id order", func(t *testing.T) {
		links, err := s.ListLinks(ctx, link.Query{Take: 30})
		require.NoError(t, err)
		require.Len(t, links, 3)
		for i, l := range links {
			assert.Equal(t, strconv.Itoa(i+1), l.ID)
		}
	})

	t.Run("Filter skip and take", func(t *testing.T) {
		links, err := s.ListLinks(ctx, link.Query{Filter: "GraphQL", Take: 30})
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "2", links[0].ID)
		assert.Equal(t, "3", links[1].ID)

		links, err = s.ListLinks(ctx, link.Query{Filter: "graphql", Skip: 1, Take: 1})
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, "3", links[0].ID)

		links, err = s.ListLinks(ctx, link.Query{Skip: 5, Take: 30})
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("Links of a user", func(t *testing.T) {
		links, err := s.ListLinksByUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, "1", links[0].ID)
		assert.Equal(t, "3", links[1].ID)

		links, err = s.ListLinksByUser(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestStore_Comments(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.CreateLink(ctx, "https://graphql.org", "GraphQL", nil)
	require.NoError(t, err)

	c, err := s.CreateComment(ctx, 1, "Great resource")
	require.NoError(t, err)
	assert.Equal(t, "1", c.ID)
	assert.Equal(t, "1", c.LinkID)

	t.Run("Missing link is a reference conflict", func(t *testing.T) {
		_, err := s.CreateComment(ctx, 999999, "Into the void")
		assert.ErrorIs(t, err, storage.ErrReferenceConflict)
	})

	t.Run("Get and list", func(t *testing.T) {
		got, err := s.GetCommentByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, c, got)

		_, err = s.GetCommentByID(ctx, 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = s.CreateComment(ctx, 1, "Second")
		require.NoError(t, err)
		comments, err := s.ListCommentsByLink(ctx, 1)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "Great resource", comments[0].Body)
		assert.Equal(t, "Second", comments[1].Body)
	})
}

func TestStore_Users(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "Alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = s.CreateUser(ctx, "Alice again", "alice@example.com", "other")
	assert.ErrorIs(t, err, storage.ErrDuplicate)

	got, err := s.GetUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	creds, err := s.GetCredentialsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u, creds.User)
	assert.Equal(t, "hash", creds.PasswordHash)

	_, err = s.GetCredentialsByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetUserByID(ctx, 7)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ConcurrentSignupsWithSameEmail(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.CreateUser(ctx, "Racer", "race@example.com", "hash"); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}
