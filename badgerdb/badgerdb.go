// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package badgerdb provides a kv.Store backed by BadgerDB.
package badgerdb

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/log"
)

var (
	_      kv.Store = (*BadgerDB)(nil)
	logger          = log.WithContext("pkg", "badgerdb")
)

// Options options for creating badger db instance.
type Options struct {
	SyncWrites bool
	// CacheSize is the block cache size in MiB.
	CacheSize int
}

// BadgerDB wraps badger db impls.
type BadgerDB struct {
	db *badger.DB
}

// New creates or opens a persistent badger db at path.
func New(path string, opts Options) (*BadgerDB, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, errors.Wrap(err, "create badger db directory")
	}
	bopts := badger.DefaultOptions(path).WithSyncWrites(opts.SyncWrites)
	if opts.CacheSize > 0 {
		bopts = bopts.WithBlockCacheSize(int64(opts.CacheSize) << 20)
	}
	return open(bopts)
}

// NewMem creates a badger db in memory.
func NewMem() (*BadgerDB, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*BadgerDB, error) {
	db, err := badger.Open(opts.WithNumVersionsToKeep(1).WithLogger(badgerLogger{}))
	if err != nil {
		return nil, errors.Wrap(err, "open badger db")
	}
	return &BadgerDB{db: db}, nil
}

// IsNotFound to check if the error returned by Get indicates key not found.
func (b *BadgerDB) IsNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

// Get retrieve value for given key.
func (b *BadgerDB) Get(key []byte) (val []byte, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		val, err = (&transaction{txn}).Get(key)
		return err
	})
	return
}

// Has returns whether a key exists.
func (b *BadgerDB) Has(key []byte) (has bool, err error) {
	err = b.db.View(func(txn *badger.Txn) error {
		has, err = (&transaction{txn}).Has(key)
		return err
	})
	return
}

// Put save value for given key.
func (b *BadgerDB) Put(key, val []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	})
}

// Delete deletes the given key.
func (b *BadgerDB) Delete(key []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Iterate creates an iterator over the range, reading from a fresh snapshot.
func (b *BadgerDB) Iterate(r kv.Range) kv.Iterator {
	txn := b.db.NewTransaction(false)
	return newIterator(txn, r, txn.Discard)
}

// Update runs fn in a badger read-write transaction.
func (b *BadgerDB) Update(fn func(kv.GetPutter) error) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return fn(&transaction{txn})
	})
}

// Close closes the db.
func (b *BadgerDB) Close() error {
	return b.db.Close()
}

type transaction struct {
	txn *badger.Txn
}

func (t *transaction) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *transaction) Has(key []byte) (bool, error) {
	_, err := t.txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (t *transaction) Put(key, val []byte) error {
	// badger keeps references until commit
	return t.txn.Set(bytes.Clone(key), bytes.Clone(val))
}

func (t *transaction) Delete(key []byte) error {
	return t.txn.Delete(bytes.Clone(key))
}

func (t *transaction) IsNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}

func (t *transaction) Iterate(r kv.Range) kv.Iterator {
	return newIterator(t.txn, r, func() {})
}

// iterator adapts badger.Iterator to kv.Iterator.
type iterator struct {
	it      *badger.Iterator
	r       kv.Range
	started bool
	key     []byte
	val     []byte
	err     error
	done    func()
}

func newIterator(txn *badger.Txn, r kv.Range, done func()) *iterator {
	return &iterator{
		it:   txn.NewIterator(badger.DefaultIteratorOptions),
		r:    r,
		done: done,
	}
}

func (i *iterator) Next() bool {
	if i.err != nil {
		return false
	}
	if !i.started {
		i.started = true
		i.it.Seek(i.r.Start)
	} else {
		i.it.Next()
	}
	if !i.it.Valid() {
		return false
	}
	item := i.it.Item()
	key := item.KeyCopy(nil)
	if len(i.r.Limit) > 0 && bytes.Compare(key, i.r.Limit) >= 0 {
		return false
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		i.err = err
		return false
	}
	i.key, i.val = key, val
	return true
}

func (i *iterator) Key() []byte   { return i.key }
func (i *iterator) Value() []byte { return i.val }
func (i *iterator) Error() error  { return i.err }

func (i *iterator) Release() {
	i.it.Close()
	i.done()
}

// badgerLogger routes badger's internal logs to our logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...any)   { logger.Error(fmt.Sprintf(format, args...)) }
func (badgerLogger) Warningf(format string, args ...any) { logger.Warn(fmt.Sprintf(format, args...)) }
func (badgerLogger) Infof(format string, args ...any)    { logger.Debug(fmt.Sprintf(format, args...)) }
func (badgerLogger) Debugf(format string, args ...any)   { logger.Trace(fmt.Sprintf(format, args...)) }
