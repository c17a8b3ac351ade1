// Package bolt keeps local storage in a bbolt file, one bucket per namespace.
// The CLI uses it as its persistent "browser profile".
package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/wildguard/console/internal/core/ports"
)

// Store is a bbolt database handing out namespaced LocalStorage.
type Store struct {
	db *bbolt.DB
}

var _ ports.StorageProvider = (*Store)(nil)

func NewStore(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the state file at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening state file %s: %w", path, err)
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Scope(namespace string) ports.LocalStorage {
	return &Storage{db: s.db, bucket: []byte(namespace)}
}

// Storage is one bucket of a Store.
type Storage struct {
	db     *bbolt.DB
	bucket []byte
}

var _ ports.LocalStorage = (*Storage)(nil)

func (s *Storage) GetItem(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, found, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	return s.SetItems(ctx, map[string]string{key: value})
}

// SetItems writes every pair in one bbolt transaction.
func (s *Storage) SetItems(_ context.Context, items map[string]string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		for k, v := range items {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return fmt.Errorf("writing %s: %w", k, err)
			}
		}
		return nil
	})
}

func (s *Storage) RemoveItems(_ context.Context, keys ...string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete([]byte(k)); err != nil {
				return fmt.Errorf("deleting %s: %w", k, err)
			}
		}
		return nil
	})
}
