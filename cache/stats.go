// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts hits and misses of a cache.
type Stats struct {
	hit, miss atomic.Int64
	// last reported hit rate in permille
	permille atomic.Int32
}

// Hit records a hit and returns the hit count.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss and returns the miss count.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// HitRate returns hits over lookups, or 0 before the first lookup.
func (cs *Stats) HitRate() float64 {
	return hitRate(cs.hit.Load(), cs.miss.Load())
}

// Stats returns the hit and miss counts, and whether the hit rate moved by
// at least one permille since the previous call.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit = cs.hit.Load()
	miss = cs.miss.Load()
	p := int32(hitRate(hit, miss) * 1000)
	return cs.permille.Swap(p) != p, hit, miss
}

func hitRate(hit, miss int64) float64 {
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}
