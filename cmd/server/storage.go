package main

import (
	"context"
	"fmt"

	"github.com/VitaminP8/hackernews/internal/comment"
	"github.com/VitaminP8/hackernews/internal/config"
	"github.com/VitaminP8/hackernews/internal/link"
	"github.com/VitaminP8/hackernews/internal/storage/badgerdb"
	"github.com/VitaminP8/hackernews/internal/storage/memory"
	"github.com/VitaminP8/hackernews/internal/storage/postgres"
	"github.com/VitaminP8/hackernews/internal/user"
	"github.com/sirupsen/logrus"
)

type stores struct {
	links    link.LinkStorage
	comments comment.CommentStorage
	users    user.UserStorage

	health func(ctx context.Context) error
	close  func() error
}

func openStorage(cfg *config.Config, log logrus.FieldLogger) (*stores, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		links := memory.NewLinkMemoryStorage()
		return &stores{
			links:    links,
			comments: memory.NewCommentMemoryStorage(links),
			users:    memory.NewUserMemoryStorage(),
			close:    func() error { return nil },
		}, nil

	case config.StoragePostgres, config.StorageSQLite:
		dialect, dsn := postgres.DialectPostgres, cfg.PostgresDSN()
		if cfg.Storage == config.StorageSQLite {
			dialect, dsn = postgres.DialectSQLite, cfg.SQLitePath
		}
		db, err := postgres.Open(dialect, dsn, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			links:    postgres.NewLinkPostgresStorage(db),
			comments: postgres.NewCommentPostgresStorage(db),
			users:    postgres.NewUserPostgresStorage(db),
			health:   func(ctx context.Context) error { return db.DB().PingContext(ctx) },
			close:    func() error { return postgres.Close(db) },
		}, nil

	case config.StorageBadger:
		store, err := badgerdb.Open(cfg.BadgerPath, log)
		if err != nil {
			return nil, err
		}
		return &stores{
			links:    store,
			comments: store,
			users:    store,
			close:    store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Storage)
	}
}
