// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

// step is the context of one invocation on one subnet. Its writes go to a
// single transaction and its events are delivered only after that commits.
type step struct {
	cfg         *Config
	swap        SwapHandler
	commitments CommitmentsPurger

	rw     kv.GetPutter
	ledger *subnet.Ledger
	netuid thor.NetUID

	events  []Event
	removed map[Tag]int
	paid    uint64
	dust    uint64
}

func (e *Engine) newStep(rw kv.GetPutter, netuid thor.NetUID) *step {
	return &step{
		cfg:         &e.cfg,
		swap:        e.swap,
		commitments: e.commitments,
		rw:          rw,
		ledger:      subnet.NewLedger(rw),
		netuid:      netuid,
		removed:     make(map[Tag]int),
	}
}

func (s *step) emit(kind EventKind, phase Tag, amount uint64, detail string) {
	s.events = append(s.events, Event{
		Kind:   kind,
		NetUID: s.netuid,
		Phase:  phase,
		Amount: amount,
		Detail: detail,
	})
}

// charge returns the cost of count items, charging one item when nothing was touched.
func charge(count int, unit uint64) uint64 {
	return CostFor(uint64(max(count, 1)), unit)
}

// run dispatches p to its handler.
func (s *step) run(p Phase, budget uint64) (ChunkResult, error) {
	switch p.Tag {
	case ClearHyperparameters:
		return s.clearHyperparameters()
	case ClearNeuronData:
		return s.clearNeuronData(p.MapIndex, p.Cursor, budget)
	case ClearRootWeights:
		return s.clearRootWeights(p.UIDCursor, budget)
	case FinalizeRootDividends:
		return s.finalizeRootDividends()
	case DistributeAlpha:
		return s.distributeAlpha(p.CursorIdx, budget)
	case DissolveUserLiquidity:
		return s.dissolveUserLiquidity()
	case ClearProtocolLiquidity:
		return s.clearProtocolLiquidity()
	case ClearMatrices:
		return s.clearMatrices(p.Mechanism, p.MapIndex, p.Cursor, budget)
	case ClearTwoKeyMaps:
		return s.clearTwoKeyMaps(p.MapIndex, budget)
	case FinalCleanup:
		return s.finalCleanup()
	}
	return Complete(0), nil
}
