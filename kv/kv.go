// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Getter defines methods to read kv.
type Getter interface {
	// Get value for given key.
	// An error returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Iterator iterates over kv pairs in ascending key order.
// Key and Value are only valid until the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// PrefixRange returns the range covering all keys with the given prefix.
func PrefixRange(prefix []byte) Range {
	r := util.BytesPrefix(prefix)
	return Range{Start: r.Start, Limit: r.Limit}
}

// Iterable creates iterators.
type Iterable interface {
	Iterate(r Range) Iterator
}

// GetPutter wraps methods for getting/putting/iterating kvs.
type GetPutter interface {
	Getter
	Putter
	Iterable
}

// Store defines the full functional kv store.
type Store interface {
	GetPutter

	// Update runs fn in a read-write transaction. Writes made through the
	// GetPutter passed to fn become visible to its reads and iterators, and
	// are committed atomically when fn returns nil. Any error discards them.
	Update(fn func(GetPutter) error) error
	Close() error
}
