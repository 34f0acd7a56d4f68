// storage.go

package main

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// Storage keys. Both values are JSON blobs.
const (
	keyCartItems    = "cartItems"
	keyCheckoutData = "checkoutData"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// KVStore is the durable string key-value store backing the cart and the
// checkout snapshot. It survives restarts; readers must tolerate missing
// keys.
type KVStore struct {
	db *sql.DB
}

func OpenKVStore(path string) (*KVStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one connection: sqlite writes serialize anyway, and :memory:
	// databases are per-connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &KVStore{db: db}, nil
}

// Get returns the value for key and whether the key was present.
func (s *KVStore) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *KVStore) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
