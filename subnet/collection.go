// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subnet

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/subnetd/kv"
)

func decode[V any](raw []byte) (v V, err error) {
	if err = rlp.DecodeBytes(raw, &v); err != nil {
		err = errors.Wrap(err, "decode")
	}
	return
}

func encode(v any) ([]byte, error) {
	raw, err := rlp.EncodeToBytes(v)
	return raw, errors.Wrap(err, "encode")
}

// Value is a single global value.
type Value[V any] struct {
	bucket kv.Bucket
}

func NewValue[V any](name string) *Value[V] {
	return &Value[V]{bucket: kv.Bucket(name + ":")}
}

// Get returns the stored value, or the zero value if absent.
func (v *Value[V]) Get(g kv.Getter) (V, error) {
	raw, ok, err := kv.GetOptional(g, v.bucket.Key())
	if err != nil || !ok {
		var zero V
		return zero, err
	}
	return decode[V](raw)
}

func (v *Value[V]) Set(p kv.Putter, val V) error {
	raw, err := encode(val)
	if err != nil {
		return err
	}
	return p.Put(v.bucket.Key(), raw)
}

// Mapping is a typed key/value collection, similar to a storage map with a single key.
type Mapping[K Key, V any] struct {
	bucket kv.Bucket
}

func NewMapping[K Key, V any](name string) *Mapping[K, V] {
	return &Mapping[K, V]{bucket: kv.Bucket(name + ":")}
}

// Bucket returns the key namespace of the collection.
func (m *Mapping[K, V]) Bucket() kv.Bucket { return m.bucket }

// Get returns the stored value, or the zero value if absent.
func (m *Mapping[K, V]) Get(g kv.Getter, key K) (V, error) {
	v, _, err := m.Lookup(g, key)
	return v, err
}

// Lookup returns the stored value and whether it exists.
func (m *Mapping[K, V]) Lookup(g kv.Getter, key K) (value V, ok bool, err error) {
	raw, ok, err := kv.GetOptional(g, m.bucket.Key(key.Bytes()))
	if err != nil || !ok {
		return value, false, err
	}
	value, err = decode[V](raw)
	return value, err == nil, err
}

func (m *Mapping[K, V]) Has(g kv.Getter, key K) (bool, error) {
	return g.Has(m.bucket.Key(key.Bytes()))
}

func (m *Mapping[K, V]) Set(p kv.Putter, key K, value V) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}
	return p.Put(m.bucket.Key(key.Bytes()), raw)
}

func (m *Mapping[K, V]) Remove(p kv.Putter, key K) error {
	return p.Delete(m.bucket.Key(key.Bytes()))
}

// Take removes the value and returns what was stored.
func (m *Mapping[K, V]) Take(rw kv.GetPutter, key K) (V, bool, error) {
	v, ok, err := m.Lookup(rw, key)
	if err != nil || !ok {
		return v, ok, err
	}
	return v, true, m.Remove(rw, key)
}

// Entry is one decoded element of a scan.
type Entry[V any] struct {
	Key   []byte // storage key without the bucket
	Value V
}

// Scan decodes up to limit entries of the collection in key order starting at start.
// A zero limit means no limit. more reports whether entries remain past the last one returned.
func (m *Mapping[K, V]) Scan(src kv.Iterable, start []byte, limit int) (entries []Entry[V], more bool, err error) {
	it := m.bucket.NewIterable(src).Iterate(kv.Range{Start: start})
	defer it.Release()

	for it.Next() {
		if limit > 0 && len(entries) >= limit {
			more = true
			break
		}
		v, err := decode[V](it.Value())
		if err != nil {
			return nil, false, err
		}
		entries = append(entries, Entry[V]{Key: append([]byte(nil), it.Key()...), Value: v})
	}
	return entries, more, it.Error()
}

// PrefixMap is a collection keyed by (prefix, secondary key) where the prefix is a netuid,
// a storage index or a lease id. All entries of one prefix are contiguous.
type PrefixMap[P Key, V any] struct {
	bucket kv.Bucket
}

func NewPrefixMap[P Key, V any](name string) *PrefixMap[P, V] {
	return &PrefixMap[P, V]{bucket: kv.Bucket(name + ":")}
}

// Bucket returns the key namespace of the collection.
func (m *PrefixMap[P, V]) Bucket() kv.Bucket { return m.bucket }

// Prefix returns the bucket-relative key prefix of entries under p.
func (m *PrefixMap[P, V]) Prefix(p P) []byte { return p.Bytes() }

func (m *PrefixMap[P, V]) key(p P, sub Key) []byte {
	return m.bucket.Key(p.Bytes(), sub.Bytes())
}

// Get returns the stored value, or the zero value if absent.
func (m *PrefixMap[P, V]) Get(g kv.Getter, p P, sub Key) (V, error) {
	v, _, err := m.Lookup(g, p, sub)
	return v, err
}

// Lookup returns the stored value and whether it exists.
func (m *PrefixMap[P, V]) Lookup(g kv.Getter, p P, sub Key) (value V, ok bool, err error) {
	raw, ok, err := kv.GetOptional(g, m.key(p, sub))
	if err != nil || !ok {
		return value, false, err
	}
	value, err = decode[V](raw)
	return value, err == nil, err
}

func (m *PrefixMap[P, V]) Has(g kv.Getter, p P, sub Key) (bool, error) {
	return g.Has(m.key(p, sub))
}

func (m *PrefixMap[P, V]) Set(pt kv.Putter, p P, sub Key, value V) error {
	raw, err := encode(value)
	if err != nil {
		return err
	}
	return pt.Put(m.key(p, sub), raw)
}

func (m *PrefixMap[P, V]) Remove(pt kv.Putter, p P, sub Key) error {
	return pt.Delete(m.key(p, sub))
}

// Scan decodes up to limit entries under p, starting at the secondary key start.
// Returned entry keys are secondary keys.
func (m *PrefixMap[P, V]) Scan(src kv.Iterable, p P, start []byte, limit int) (entries []Entry[V], more bool, err error) {
	prefix := p.Bytes()
	r := kv.PrefixRange(prefix)
	if len(start) > 0 {
		r.Start = append(append([]byte(nil), prefix...), start...)
	}
	it := m.bucket.NewIterable(src).Iterate(r)
	defer it.Release()

	for it.Next() {
		if limit > 0 && len(entries) >= limit {
			more = true
			break
		}
		v, err := decode[V](it.Value())
		if err != nil {
			return nil, false, err
		}
		entries = append(entries, Entry[V]{Key: append([]byte(nil), it.Key()[len(prefix):]...), Value: v})
	}
	return entries, more, it.Error()
}

// Count returns the number of entries under p.
func (m *PrefixMap[P, V]) Count(src kv.Iterable, p P) (int, error) {
	keys, _, err := kv.Collect(m.bucket.NewIterable(src), kv.PrefixRange(p.Bytes()), 0)
	return len(keys), err
}

// Take removes the entry under (p, sub) and returns what was stored.
func (m *PrefixMap[P, V]) Take(rw kv.GetPutter, p P, sub Key) (V, bool, error) {
	v, ok, err := m.Lookup(rw, p, sub)
	if err != nil || !ok {
		return v, ok, err
	}
	return v, true, m.Remove(rw, p, sub)
}
