package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/random"

	_ "embed"
	_ "github.com/mattn/go-sqlite3" // Enable sqlite3 driver
)

//go:embed schema.sql
var schemaDefinition string

type Database struct {
	ReadWrite *sqlx.DB
	ReadOnly  *sqlx.DB
	logger    *slog.Logger
}

// NewDatabase connects to database and synchronizes the schema.
//
// The url parameter is the path to the SQLite database file or ":memory:" for an in-memory database.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, errors.Wrap(err, "connect")
	}
	if err = db.sync(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "synchronize schema")
	}
	return db, nil
}

// connect establishes two database connections, one for read/write operations and one for read-only operations.
// This is a best practice mentioned in https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	var (
		err         error
		readWriteDB *sqlx.DB
		readDB      *sqlx.DB
	)

	// For in-memory databases, we need shared cache mode so that both connections access the same data.
	// Every in-memory database gets a random name so that parallel tests don't share data.
	// See https://www.sqlite.org/inmemorydb.html.
	inMemoryConfig := ""
	if strings.Contains(url, ":memory:") {
		var (
			randomID     string
			dbNameLength uint = 20
		)
		if randomID, err = random.Letters(dbNameLength); err != nil {
			return nil, errors.Wrap(err, "generate random ID")
		}
		url = randomID
		inMemoryConfig = "&mode=memory&cache=shared"
	}
	commonConfig := strings.Join([]string{
		// Write-ahead logging enables higher performance and concurrent readers.
		"_journal_mode=wal",
		// Avoids SQLITE_BUSY errors when database is under load.
		"_busy_timeout=5000",
		// Increases performance at the cost of durability https://www.sqlite.org/pragma.html#pragma_synchronous.
		"_synchronous=normal",
		"_foreign_keys=on",
		"_temp_store=memory",
	}, "&")

	// The options prefixed with underscore '_' are SQLite pragmas documented at https://www.sqlite.org/pragma.html.
	readConfig := fmt.Sprintf("file:%s?_txlock=deferred&_query_only=true&%s%s", url, commonConfig, inMemoryConfig)
	readWriteConfig := fmt.Sprintf("file:%s?_txlock=immediate&%s%s", url, commonConfig, inMemoryConfig)
	if inMemoryConfig == "" {
		readConfig += "&mode=ro"
		readWriteConfig += "&mode=rwc"
	}

	if readWriteDB, err = sqlx.ConnectContext(ctx, "sqlite3", readWriteConfig); err != nil {
		return nil, errors.Wrap(err, "open read-write database", slog.String("url", url))
	}
	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	if readDB, err = sqlx.ConnectContext(ctx, "sqlite3", readConfig); err != nil {
		return nil, errors.Join(
			errors.Wrap(err, "open read database", slog.String("url", url)),
			readWriteDB.Close(),
		)
	}
	maxReadConns := 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger.With(slog.String("source", "sqlite.Database")),
	}, nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
