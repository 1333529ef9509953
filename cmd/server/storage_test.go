package main

import (
	"context"
	"testing"

	"github.com/VitaminP8/hackernews/internal/config"
	"github.com/VitaminP8/hackernews/internal/validation"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStorage(t *testing.T) {
	log, _ := test.NewNullLogger()

	backends := []*config.Config{
		{Storage: config.StorageMemory},
		{Storage: config.StorageSQLite, SQLitePath: ":memory:"},
		{Storage: config.StorageBadger, BadgerPath: ""},
	}
	for _, cfg := range backends {
		t.Run(cfg.Storage, func(t *testing.T) {
			s, err := openStorage(cfg, log)
			require.NoError(t, err)
			defer func() { assert.NoError(t, s.close()) }()

			ctx := context.Background()
			l, err := s.links.CreateLink(ctx, "https://example.com", "Example", nil)
			require.NoError(t, err)

			id, ok := validation.ParseEntityID(l.ID)
			require.True(t, ok)
			_, err = s.comments.CreateComment(ctx, id, "first")
			require.NoError(t, err)

			_, err = s.users.CreateUser(ctx, "Alice", "alice@example.com", "hash")
			require.NoError(t, err)

			if s.health != nil {
				assert.NoError(t, s.health(ctx))
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := openStorage(&config.Config{Storage: "redis"}, log)
		assert.Error(t, err)
	})
}
