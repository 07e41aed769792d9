// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"encoding/binary"

	"github.com/vechain/subnetd/subnet"
)

// clearRootWeights zeroes, in every root validator row starting at uidCursor, the
// weights pointing at the subnet. Rows keep their shape.
func (s *step) clearRootWeights(uidCursor uint16, budget uint64) (ChunkResult, error) {
	unit := s.cfg.MatrixEntryCost
	limit := int(MaxItems(budget, unit))

	rows, more, err := subnet.Weights.Scan(s.rw, subnet.RootWeights, subnet.UID(uidCursor).Bytes(), limit)
	if err != nil {
		return ChunkResult{}, err
	}

	var last uint16
	for _, row := range rows {
		last = binary.BigEndian.Uint16(row.Key)
		changed := false
		for i := range row.Value {
			if row.Value[i].Dest == uint16(s.netuid) && row.Value[i].Weight != 0 {
				row.Value[i].Weight = 0
				changed = true
			}
		}
		if changed {
			if err := subnet.Weights.Set(s.rw, subnet.RootWeights, subnet.Raw(row.Key), row.Value); err != nil {
				return ChunkResult{}, err
			}
		}
	}
	s.removed[ClearRootWeights] += len(rows)

	cost := charge(len(rows), unit)
	if more {
		return Incomplete(cost, Phase{Tag: ClearRootWeights, UIDCursor: last + 1}), nil
	}
	return Complete(cost), nil
}
