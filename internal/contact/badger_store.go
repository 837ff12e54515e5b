// SPDX-License-Identifier: MIT

package contact

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key layout:
// - submissions: "sub:<id>" (JSON)
// - idempotency: "idem:<key>" (value = submission id) with TTL
var (
	subPrefix  = []byte("sub:")
	idemPrefix = []byte("idem:")
)

// BadgerStore implements Store on a badger KV database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if needed) a badger store at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error { return s.db.Close() }

func (s *BadgerStore) Put(_ context.Context, sub *Submission) error {
	key := append(append([]byte{}, subPrefix...), sub.ID...)
	buf, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return ErrDuplicateID
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, buf)
	})
}

func (s *BadgerStore) Get(_ context.Context, id string) (*Submission, error) {
	key := append(append([]byte{}, subPrefix...), id...)
	var out Submission
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BadgerStore) List(_ context.Context, limit, offset int) ([]Submission, error) {
	all := []Submission{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = subPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(subPrefix); it.ValidForPrefix(subPrefix); it.Next() {
			var sub Submission
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sub)
			}); err != nil {
				return err
			}
			all = append(all, sub)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Badger iterates in key order; ordering is by time, so sort here.
	sortNewestFirst(all)
	return page(all, limit, offset), nil
}

func (s *BadgerStore) Delete(_ context.Context, id string) error {
	key := append(append([]byte{}, subPrefix...), id...)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *BadgerStore) Count(_ context.Context) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = subPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(subPrefix); it.ValidForPrefix(subPrefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (s *BadgerStore) PutIdempotency(_ context.Context, key, id string, ttl time.Duration) error {
	k := append(append([]byte{}, idemPrefix...), key...)
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(k, []byte(id)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStore) GetIdempotency(_ context.Context, key string) (string, error) {
	k := append(append([]byte{}, idemPrefix...), key...)
	var id string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *BadgerStore) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger store is closed")
	}
	return nil
}
