// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsReportsRateChanges(t *testing.T) {
	var cs Stats
	assert.Zero(t, cs.HitRate())

	changed, hit, miss := cs.Stats()
	assert.False(t, changed, "no lookups yet")
	assert.Zero(t, hit)
	assert.Zero(t, miss)

	cs.Miss()
	assert.Equal(t, int64(1), cs.Hit())
	changed, hit, miss = cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)
	assert.InDelta(t, 0.5, cs.HitRate(), 1e-9)

	// same rate again
	cs.Hit()
	cs.Miss()
	changed, _, _ = cs.Stats()
	assert.False(t, changed)

	cs.Hit()
	changed, hit, miss = cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(2), miss)
}

// Hashed account keys are loaded once per account; every later lookup of the
// same hotkey or coldkey is a hit.
func TestStatsTrackAccountKeyLookups(t *testing.T) {
	keys, err := NewLRU[[32]byte, []byte](2)
	require.NoError(t, err)

	var hot, cold [32]byte
	hot[0], cold[0] = 0x10, 0x20
	loads := 0
	load := func(a [32]byte) ([]byte, error) {
		loads++
		return append([]byte{0xaa}, a[:]...), nil
	}

	for range 3 {
		_, err := keys.GetOrLoad(hot, load)
		require.NoError(t, err)
		_, err = keys.GetOrLoad(cold, load)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, loads)
	_, hit, miss := keys.Stats().Stats()
	assert.Equal(t, int64(4), hit)
	assert.Equal(t, int64(2), miss)
	assert.InDelta(t, 4.0/6.0, keys.Stats().HitRate(), 1e-9)
}
