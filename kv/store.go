// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// GetOptional reads key and reports whether it was present.
func GetOptional(g Getter, key []byte) ([]byte, bool, error) {
	val, err := g.Get(key)
	if err != nil {
		if g.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

// Collect iterates r and returns up to limit copied keys. A limit of zero
// means no limit. more reports whether further keys exist past the last
// returned one.
func Collect(src Iterable, r Range, limit int) (keys [][]byte, more bool, err error) {
	it := src.Iterate(r)
	defer it.Release()

	for it.Next() {
		if limit > 0 && len(keys) >= limit {
			more = true
			break
		}
		keys = append(keys, append([]byte(nil), it.Key()...))
	}
	return keys, more, it.Error()
}
