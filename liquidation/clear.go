// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

// clearPrefix removes up to limit entries of bucket whose key starts with prefix,
// beginning at cursor (relative to prefix, empty for the start). It returns the
// number of removed entries and the cursor of the first entry left, or nil when
// nothing under prefix remains past the removed ones.
func clearPrefix(rw kv.GetPutter, bucket kv.Bucket, prefix, cursor []byte, limit int) (int, []byte, error) {
	r := kv.PrefixRange(prefix)
	if len(cursor) > 0 {
		r.Start = append(append(make([]byte, 0, len(prefix)+len(cursor)), prefix...), cursor...)
	}
	keys, _, err := kv.Collect(bucket.NewIterable(rw), r, limit+1)
	if err != nil {
		return 0, nil, err
	}

	var next []byte
	if len(keys) > limit {
		next = keys[limit][len(prefix):]
		keys = keys[:limit]
	}
	putter := bucket.NewPutter(rw)
	for _, k := range keys {
		if err := putter.Delete(k); err != nil {
			return 0, nil, err
		}
	}
	return len(keys), next, nil
}

// clearBySuffix scans the whole bucket and removes up to limit entries whose key
// ends with netuid. There is no resume point: complete is reported when fewer
// than limit matches were found. Removed keys are returned relative to the bucket.
func clearBySuffix(rw kv.GetPutter, bucket kv.Bucket, netuid thor.NetUID, limit int) (removed [][]byte, complete bool, err error) {
	it := bucket.NewIterable(rw).Iterate(kv.Range{})
	for it.Next() {
		if subnet.NetUIDSuffix(it.Key()) != netuid {
			continue
		}
		removed = append(removed, append([]byte(nil), it.Key()...))
		if len(removed) >= limit {
			break
		}
	}
	it.Release()
	if err := it.Error(); err != nil {
		return nil, false, err
	}

	putter := bucket.NewPutter(rw)
	for _, k := range removed {
		if err := putter.Delete(k); err != nil {
			return nil, false, err
		}
	}
	return removed, len(removed) < limit, nil
}

// BoundCursor returns raw if it fits in a resume token of maxLen bytes.
func BoundCursor(raw []byte, maxLen int) ([]byte, bool) {
	if len(raw) > maxLen {
		return nil, false
	}
	return raw, true
}

// boundCursor applies BoundCursor. On overflow it emits a CursorOverflow event and
// the caller skips the rest of the collection, leaving its remaining entries orphaned.
func (s *step) boundCursor(raw []byte, phase Tag) ([]byte, bool) {
	if bounded, ok := BoundCursor(raw, s.cfg.MaxCursorLen); ok {
		return bounded, true
	}
	logger.Warn("resume cursor overflow, skipping rest of collection",
		"netuid", s.netuid, "phase", phase, "len", len(raw), "max", s.cfg.MaxCursorLen)
	s.emit(EventCursorOverflow, phase, uint64(len(raw)), "")
	return nil, false
}
