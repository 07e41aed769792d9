// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package badgerdb

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/subnetd/kv"
)

func TestBadgerDB(t *testing.T) {
	persistent, err := New(t.TempDir(), Options{})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*BadgerDB{persistent, mem} {
		require.NoError(t, db.Put([]byte("k"), []byte("v")))

		got, err := db.Get([]byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		has, err := db.Has([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete([]byte("k")))
		_, err = db.Get([]byte("k"))
		assert.True(t, db.IsNotFound(err))
	}
}

func TestBadgerDBIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		require.NoError(t, db.Put([]byte(k), []byte(k)))
	}

	keys, more, err := kv.Collect(db, kv.PrefixRange([]byte("a")), 2)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, [][]byte{[]byte("a1"), []byte("a2")}, keys)
}

func TestBadgerDBUpdate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Update(func(rw kv.GetPutter) error {
		if err := rw.Put([]byte("p1"), []byte("1")); err != nil {
			return err
		}
		keys, _, err := kv.Collect(rw, kv.PrefixRange([]byte("p")), 0)
		if err != nil {
			return err
		}
		assert.Len(t, keys, 1, "pending writes are visible to iterators")
		return nil
	}))

	err = db.Update(func(rw kv.GetPutter) error {
		if err := rw.Delete([]byte("p1")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	assert.Error(t, err)

	has, err := db.Has([]byte("p1"))
	require.NoError(t, err)
	assert.True(t, has, "aborted delete is discarded")
}
