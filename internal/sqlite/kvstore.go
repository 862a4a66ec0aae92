package sqlite

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/reaksi/internal/errors"
)

// KVStore persists opaque values by key in the kv table.
type KVStore struct {
	db *Database
}

func NewKVStore(db *Database) *KVStore {
	return &KVStore{db: db}
}

// Load returns the value stored at key or nil when nothing has been saved yet.
func (s *KVStore) Load(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.ReadOnly.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select kv", slog.String("key", key))
	}
	return value, nil
}

// Save stores value at key replacing the previous value.
func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ReadWrite.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (:key, :value)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated = strftime('%Y-%m-%dT%H:%M:%fZ')`,
		sql.Named("key", key), sql.Named("value", value))
	if err != nil {
		return errors.Wrap(err, "upsert kv", slog.String("key", key))
	}
	return nil
}
