// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/subnetd/subnet"
)

// Share returns floor(pot * alpha / total) computed in 256 bits. It is zero
// when any input is zero and saturates at the largest uint64.
func Share(pot, alpha uint64, total *uint256.Int) uint64 {
	if pot == 0 || alpha == 0 || total == nil || total.IsZero() {
		return 0
	}
	x := new(uint256.Int).Mul(uint256.NewInt(pot), uint256.NewInt(alpha))
	x.Div(x, total)
	if !x.IsUint64() {
		return math.MaxUint64
	}
	return x.Uint64()
}

func toU256(b *big.Int) *uint256.Int {
	if b == nil || b.Sign() <= 0 {
		return new(uint256.Int)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return new(uint256.Int).SetAllOne()
	}
	return v
}

// distributeAlpha pays the snapshot entries from cursorIdx on. Each payment
// removes the snapshot entry and the live stake position in the same step.
// Completing the phase burns whatever the floored shares left of the pot.
func (s *step) distributeAlpha(cursorIdx uint32, budget uint64) (ChunkResult, error) {
	unit := s.cfg.DistributionEntryCost
	state, ok, err := runStates.Lookup(s.rw, s.netuid)
	if err != nil {
		return ChunkResult{}, err
	}
	if !ok {
		return ChunkResult{}, errors.Errorf("run state of netuid %v missing", s.netuid)
	}

	total := toU256(state.TotalAlphaValue)
	end := uint32(min(uint64(cursorIdx)+MaxItems(budget, unit), uint64(state.SnapshotCount)))

	var count int
	for i := cursorIdx; i < end; i++ {
		count++
		entry, ok, err := snapshots.Take(s.rw, s.netuid, snapshotIndex(i))
		if err != nil {
			return ChunkResult{}, err
		}
		if !ok {
			continue
		}
		share := min(Share(state.TaoPot, entry.Alpha, total), state.Undistributed())
		if share > 0 {
			if err := s.ledger.Credit(entry.Coldkey, share); err != nil {
				return ChunkResult{}, err
			}
			state.TaoDistributed += share
			s.paid += share
		}
		if err := subnet.Alpha.Remove(s.rw, subnet.StakeKey{Hotkey: entry.Hotkey, Coldkey: entry.Coldkey, NetUID: s.netuid}); err != nil {
			return ChunkResult{}, err
		}
	}
	s.removed[DistributeAlpha] += count

	complete := end >= state.SnapshotCount
	if complete {
		if dust := state.Undistributed(); dust > 0 {
			if err := s.ledger.Burn(dust); err != nil {
				return ChunkResult{}, err
			}
			state.TaoDistributed = state.TaoPot
			s.dust += dust
			logger.Warn("distribution dust burned", "netuid", s.netuid, "dust", dust, "snapshot", state.SnapshotCount)
			s.emit(EventDistributionDust, DistributeAlpha, dust, "")
		}
	}
	if err := runStates.Set(s.rw, s.netuid, state); err != nil {
		return ChunkResult{}, err
	}

	cost := charge(count, unit)
	if !complete {
		return Incomplete(cost, Phase{Tag: DistributeAlpha, CursorIdx: end}), nil
	}
	return Complete(cost), nil
}
