// Package cache persists analyzed records keyed by path and raw content
// hash, so unchanged files skip re-analysis across runs.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/codectx/codectx/internal/record"
)

const prefixRecord = "r:"

// Store is a BadgerDB-backed record cache.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the cache database at dbPath.
func Open(dbPath string) (*Store, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // suppress badger logs
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	return &Store{db: db}, nil
}

func key(path, rawHash string) []byte {
	return []byte(prefixRecord + path + ":" + rawHash)
}

// Get returns the cached record for path at the given raw content hash.
func (s *Store) Get(path, rawHash string) (*record.Record, bool) {
	var rec record.Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(path, rawHash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, false
	}
	return &rec, true
}

// Put stores rec under path and the raw content hash, replacing any entry
// for an older content hash of the same path.
func (s *Store) Put(path, rawHash string, rec *record.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := dropStale(txn, path); err != nil {
			return err
		}
		return txn.Set(key(path, rawHash), data)
	})
}

// dropStale deletes existing entries for path; only the latest content hash
// stays cached.
func dropStale(txn *badger.Txn, path string) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixRecord + path + ":")
	it := txn.NewIterator(opts)
	defer it.Close()

	var stale [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		stale = append(stale, it.Item().KeyCopy(nil))
	}
	for _, k := range stale {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Len counts cached records.
func (s *Store) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixRecord)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Clear removes every cached record.
func (s *Store) Clear() error {
	return s.db.DropPrefix([]byte(prefixRecord))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, badger.ErrDBClosed) {
		return err
	}
	return nil
}
