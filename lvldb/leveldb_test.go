// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/subnetd/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persistent, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDBIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		require.NoError(t, db.Put([]byte(k), []byte(k)))
	}

	keys, more, err := kv.Collect(db, kv.PrefixRange([]byte("a")), 0)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, keys, 3)

	keys, _, err = kv.Collect(db, kv.Range{Start: []byte("a2")}, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("a2"), []byte("a3"), []byte("b1")}, keys)
}

func TestLevelDBUpdate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("x"), []byte("1")))

	err = db.Update(func(rw kv.GetPutter) error {
		if err := rw.Delete([]byte("x")); err != nil {
			return err
		}
		if err := rw.Put([]byte("y"), []byte("2")); err != nil {
			return err
		}
		// reads observe pending writes
		has, err := rw.Has([]byte("x"))
		if err != nil {
			return err
		}
		assert.False(t, has)
		return nil
	})
	require.NoError(t, err)

	has, err := db.Has([]byte("y"))
	require.NoError(t, err)
	assert.True(t, has)

	// a failed update leaves no trace
	err = db.Update(func(rw kv.GetPutter) error {
		if err := rw.Put([]byte("z"), []byte("3")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	has, err = db.Has([]byte("z"))
	require.NoError(t, err)
	assert.False(t, has)
}
