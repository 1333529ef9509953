// Package postgres implements the storage interfaces on top of gorm.
// PostgreSQL is the production dialect; sqlite3 is accepted for local runs and tests.
package postgres

import (
	"errors"
	"fmt"

	"github.com/VitaminP8/hackernews/internal/storage"
	"github.com/VitaminP8/hackernews/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// Open connects to the database and migrates the schema.
func Open(dialect, dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	if dialect == DialectSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	db.LogMode(false)

	if dialect == DialectSQLite {
		// every sqlite connection needs its own PRAGMA and :memory: databases are per connection
		db.DB().SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	log.WithField("dialect", dialect).Info("Successfully connected to the database")
	return db, nil
}

// Migrate creates or updates the tables. Links are migrated before comments so the reference resolves.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(&models.User{}, &models.Link{}, &models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close the database connection: %w", err)
	}
	return nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}
	if dsn == ":memory:" {
		return "file::memory:?_foreign_keys=1"
	}
	return "file:" + dsn + "?_foreign_keys=1"
}

// translateError maps driver constraint violations onto the storage errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if gorm.IsRecordNotFoundError(err) {
		return storage.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %v", storage.ErrReferenceConflict, err)
		case pqUniqueViolation:
			return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", storage.ErrReferenceConflict, err)
		case sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
		}
	}
	return err
}
