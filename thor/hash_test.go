// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/blake2b"
)

func TestBlake2b128(t *testing.T) {
	h, err := blake2b.New(Blake2b128Length, nil)
	assert.NoError(t, err)
	h.Write([]byte("foo"))
	h.Write([]byte("bar"))

	got := Blake2b128([]byte("foo"), []byte("bar"))
	assert.Equal(t, h.Sum(nil), got[:])
	assert.Equal(t, got, Blake2b128([]byte("foobar")))
	assert.NotEqual(t, got, Blake2b128([]byte("foo")))
}

func TestBlake2b128Concat(t *testing.T) {
	data := []byte{0, 1}
	key := Blake2b128Concat(data)

	assert.Len(t, key, Blake2b128Length+len(data))
	sum := Blake2b128(data)
	assert.Equal(t, sum[:], key[:Blake2b128Length])
	assert.Equal(t, data, key[Blake2b128Length:])
}

func BenchmarkBlake2b128(b *testing.B) {
	data := make([]byte, 34)

	rng := rand.New(rand.NewPCG(1, 0)) //#nosec G404
	for i := range data {
		data[i] = byte(rng.Uint64())
	}

	for b.Loop() {
		Blake2b128(data)
	}
}
