// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("not found")

type mem map[string]string

func (m mem) Get(k []byte) ([]byte, error) {
	if v, ok := m[string(k)]; ok {
		return []byte(v), nil
	}
	return nil, errNotFound
}

func (m mem) Has(k []byte) (bool, error) {
	_, ok := m[string(k)]
	return ok, nil
}

func (m mem) Put(k, v []byte) error {
	m[string(k)] = string(v)
	return nil
}

func (m mem) Delete(k []byte) error {
	delete(m, string(k))
	return nil
}

func (m mem) IsNotFound(err error) bool {
	return err == errNotFound
}

func (m mem) Iterate(r Range) Iterator {
	var keys []string
	for k := range m {
		if bytes.Compare([]byte(k), r.Start) < 0 {
			continue
		}
		if len(r.Limit) > 0 && bytes.Compare([]byte(k), r.Limit) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	i := -1
	return &struct {
		NextFunc
		KeyFunc
		ValueFunc
		ReleaseFunc
		ErrorFunc
	}{
		func() bool { i++; return i < len(keys) },
		func() []byte { return []byte(keys[i]) },
		func() []byte { return []byte(m[keys[i]]) },
		func() {},
		func() error { return nil },
	}
}

func TestBucket_GetterGet(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want string
	}{
		{Bucket(""), "k1", "v1"},
		{Bucket(""), "k2", "v2"},
		{Bucket("k"), "k1", ""},
		{Bucket("k"), "1", "v1"},
		{Bucket("k"), "2", "v2"},
		{Bucket("k1"), "", "v1"},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got, _ := tt.b.NewGetter(m).Get([]byte(tt.key))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestBucket_GetterHas(t *testing.T) {
	m := mem{"k1": "v1", "k2": "v2"}

	tests := []struct {
		b    Bucket
		key  string
		want bool
	}{
		{Bucket(""), "k1", true},
		{Bucket("k"), "k1", false},
		{Bucket("k"), "1", true},
		{Bucket("k1"), "", true},
	}
	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			got, err := tt.b.NewGetter(m).Has([]byte(tt.key))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBucket_Putter(t *testing.T) {
	m := mem{}
	p := Bucket("b:").NewPutter(m)

	require.NoError(t, p.Put([]byte("x"), []byte("1")))
	assert.Equal(t, "1", m["b:x"])

	require.NoError(t, p.Delete([]byte("x")))
	assert.Empty(t, m)
}

func TestBucket_Iterate(t *testing.T) {
	m := mem{"a:1": "x", "a:2": "y", "a:3": "z", "b:1": "w"}
	it := Bucket("a:").NewIterable(m).Iterate(Range{Start: []byte("2")})
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"2", "3"}, keys)
}

func TestCollect(t *testing.T) {
	m := mem{"p1": "", "p2": "", "p3": "", "q1": ""}

	keys, more, err := Collect(m, PrefixRange([]byte("p")), 2)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, [][]byte{[]byte("p1"), []byte("p2")}, keys)

	keys, more, err = Collect(m, PrefixRange([]byte("p")), 0)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, keys, 3)
}

func TestGetOptional(t *testing.T) {
	m := mem{"k": "v"}
	v, ok, err := GetOptional(m, []byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))

	_, ok, err = GetOptional(m, []byte("missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}
