// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Blake2b128Length is the digest size of Blake2b128.
const Blake2b128Length = 16

func newBlake2b128() hash.Hash {
	h, _ := blake2b.New(Blake2b128Length, nil)
	return h
}

type blake2bState struct {
	hash.Hash
	b16 [Blake2b128Length]byte
}

var blake2bStatePool = sync.Pool{
	New: func() any {
		return &blake2bState{
			Hash: newBlake2b128(),
		}
	},
}

// Blake2b128 computes the blake2b-128 checksum of the concatenated data.
func Blake2b128(data ...[]byte) (h [Blake2b128Length]byte) {
	w := blake2bStatePool.Get().(*blake2bState)
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(w.b16[:0])
	h = w.b16
	w.Reset()
	blake2bStatePool.Put(w)
	return
}

// Blake2b128Concat returns blake2b128(data) || data. Keys built this way are
// evenly spread while still carrying the original bytes, so the secondary
// key can be recovered from a scanned storage key.
func Blake2b128Concat(data []byte) []byte {
	h := Blake2b128(data)
	out := make([]byte, 0, Blake2b128Length+len(data))
	out = append(out, h[:]...)
	return append(out, data...)
}
