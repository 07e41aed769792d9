// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountID(t *testing.T) {
	s := "0x" + strings.Repeat("ab", 32)
	a, err := ParseAccountID(s)
	require.NoError(t, err)
	assert.Equal(t, s, a.String())
	assert.False(t, a.IsZero())

	_, err = ParseAccountID("0x1234")
	assert.Error(t, err)

	_, err = ParseAccountID(strings.Repeat("ab", 32))
	assert.Error(t, err, "missing 0x prefix")
}

func TestAccountIDJSON(t *testing.T) {
	a := BytesToAccountID([]byte{1, 2, 3})
	data, err := json.Marshal(&a)
	require.NoError(t, err)

	var b AccountID
	require.NoError(t, json.Unmarshal(data, &b))
	assert.Equal(t, a, b)
	assert.Equal(t, byte(3), b[31])
}

func TestAccountKey(t *testing.T) {
	a := BytesToAccountID([]byte("alice"))
	k := Blake2b128Concat(a.Bytes())
	assert.Len(t, k, Blake2b128Length+AccountIDLength)
	assert.Equal(t, a.Bytes(), k[Blake2b128Length:])
	assert.Equal(t, k, Blake2b128Concat(a.Bytes()))
}

func TestStorageIndex(t *testing.T) {
	assert.Equal(t, StorageIndex(7), StorageIndexOf(7, 0))
	assert.Equal(t, StorageIndex(GlobalMaxSubnetCount+7), StorageIndexOf(7, 1))
	assert.True(t, RootNetUID.IsRoot())
	assert.Equal(t, []byte{0x01, 0x02}, NetUID(0x0102).Bytes())
}
