// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"math/big"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

// Start freezes netuid and schedules its teardown. The staker snapshot and the
// pot are captured here once; positions below MinSnapshotAlpha are dropped
// without payment.
func (e *Engine) Start(netuid thor.NetUID, block uint64) (state RunState, err error) {
	if netuid.IsRoot() {
		return RunState{}, ErrRootSubnet
	}
	err = e.update(netuid, func(s *step) error {
		state, err = s.start(block)
		return err
	})
	return
}

func (s *step) start(block uint64) (RunState, error) {
	if exists, err := s.ledger.SubnetExists(s.netuid); err != nil {
		return RunState{}, err
	} else if !exists {
		return RunState{}, errors.Wrapf(ErrSubnetNotFound, "netuid %v", s.netuid)
	}
	if has, err := phases.Has(s.rw, s.netuid); err != nil {
		return RunState{}, err
	} else if has {
		return RunState{}, errors.Wrapf(ErrAlreadyLiquidating, "netuid %v", s.netuid)
	}

	pot, err := s.ledger.SubnetTAO(s.netuid)
	if err != nil {
		return RunState{}, err
	}
	count, total, err := s.snapshot()
	if err != nil {
		return RunState{}, err
	}
	if err := s.ledger.SubTotalStake(pot); err != nil {
		return RunState{}, err
	}

	blocks, err := s.estimateBlocks(count)
	if err != nil {
		return RunState{}, err
	}
	state := RunState{
		RunID:              uuid.New(),
		StartedAt:          block,
		MaxCompletionBlock: subnet.SaturatingAdd(block, blocks),
		TaoPot:             pot,
		TotalAlphaValue:    total,
		SnapshotCount:      count,
	}
	if err := runStates.Set(s.rw, s.netuid, state); err != nil {
		return RunState{}, err
	}
	if err := phases.Set(s.rw, s.netuid, Start()); err != nil {
		return RunState{}, err
	}
	if err := s.ledger.MarkLiquidating(s.netuid, block); err != nil {
		return RunState{}, err
	}

	logger.Info("liquidation started", "netuid", s.netuid, "run", state.RunID,
		"pot", pot, "stakers", count, "alpha", total, "deadline", state.MaxCompletionBlock)
	s.emit(EventLiquidationStarted, ClearHyperparameters, pot, state.RunID)
	return state, nil
}

// snapshot walks the stake positions once and records those of the subnet.
func (s *step) snapshot() (uint32, *big.Int, error) {
	entries, _, err := subnet.Alpha.Scan(s.rw, nil, 0)
	if err != nil {
		return 0, nil, err
	}
	var (
		count   uint32
		total   = new(big.Int)
		dropped int
	)
	for _, entry := range entries {
		if subnet.NetUIDSuffix(entry.Key) != s.netuid {
			continue
		}
		pos, err := subnet.DecodeStakeKey(entry.Key)
		if err != nil {
			return 0, nil, err
		}
		if entry.Value < s.cfg.MinSnapshotAlpha {
			if err := subnet.Alpha.Remove(s.rw, pos); err != nil {
				return 0, nil, err
			}
			dropped++
			continue
		}
		snap := SnapshotEntry{Hotkey: pos.Hotkey, Coldkey: pos.Coldkey, Alpha: entry.Value}
		if err := snapshots.Set(s.rw, s.netuid, snapshotIndex(count), snap); err != nil {
			return 0, nil, err
		}
		total.Add(total, new(big.Int).SetUint64(entry.Value))
		count++
	}
	if dropped > 0 {
		logger.Debug("dust positions dropped", "netuid", s.netuid, "count", dropped)
	}
	return count, total, nil
}

// estimateBlocks sizes the completion window from the work known at freeze time.
// Every map or mechanism boundary ends an invocation, so the window covers one
// block per boundary plus the budget-bound chunks. Chunks are counted twice so
// teardowns sharing the block budget still fit.
func (s *step) estimateBlocks(stakers uint32) (uint64, error) {
	if s.cfg.BlockBudget == 0 {
		return s.cfg.MaxLiquidationBlocks, nil
	}
	neurons, err := subnet.SubnetworkN.Get(s.rw, s.netuid)
	if err != nil {
		return 0, err
	}
	mechanisms, err := s.mechanismCount()
	if err != nil {
		return 0, err
	}
	rootRows, err := subnet.Weights.Count(s.rw, subnet.RootWeights)
	if err != nil {
		return 0, err
	}

	steps := boundaries(mechanisms)

	work := CostFor(uint64(stakers), s.cfg.DistributionEntryCost)
	work = subnet.SaturatingAdd(work, CostFor(uint64(neurons)*uint64(len(neuronMaps)), s.cfg.NeuronEntryCost))
	work = subnet.SaturatingAdd(work, CostFor(uint64(neurons)*uint64(mechanisms)*uint64(len(matrixMaps)), s.cfg.MatrixEntryCost))
	work = subnet.SaturatingAdd(work, CostFor(uint64(rootRows), s.cfg.MatrixEntryCost))
	chunks := work/s.cfg.BlockBudget + 1

	blocks := subnet.SaturatingAdd(steps, CostFor(chunks, 2))
	return min(max(blocks, s.cfg.MinLiquidationBlocks), s.cfg.MaxLiquidationBlocks), nil
}

// boundaries returns how many invocations a teardown of a subnet with the given
// mechanism count takes when every chunk fits its budget.
func boundaries(mechanisms uint8) uint64 {
	return uint64(len(neuronMaps)) +
		uint64(mechanisms)*uint64(len(matrixMaps)) +
		uint64(len(twoKeyMaps)) + 2
}

// ProcessAll runs one scheduler pass at block. The budget is split evenly
// between the teardowns in progress, in netuid order. Teardowns past their
// completion deadline are finalized regardless of budget.
func (e *Engine) ProcessAll(block, budget uint64) (uint64, error) {
	netuids, err := e.Liquidating()
	if err != nil || len(netuids) == 0 {
		return 0, err
	}
	share := budget / uint64(len(netuids))

	var spent uint64
	for _, netuid := range netuids {
		state, _, err := e.RunState(netuid)
		if err != nil {
			return spent, err
		}
		if state.MaxCompletionBlock > 0 && block > state.MaxCompletionBlock {
			_, cost, err := e.EmergencyFinalize(netuid)
			if err != nil {
				return spent, err
			}
			spent = subnet.SaturatingAdd(spent, cost)
			continue
		}
		res, err := e.Advance(netuid, share)
		if err != nil {
			return spent, err
		}
		spent = subnet.SaturatingAdd(spent, res.Cost)
	}
	return spent, nil
}
