// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package liquidation tears down subnets in bounded, resumable steps.
package liquidation

import (
	"github.com/pkg/errors"

	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

var logger = log.WithContext("pkg", "liquidation")

// SetLogger replaces the package logger.
func SetLogger(l log.Logger) { logger = l }

var (
	ErrNotLiquidating     = errors.New("subnet is not being liquidated")
	ErrAlreadyLiquidating = errors.New("subnet is already being liquidated")
	ErrSubnetNotFound     = errors.New("subnet not found")
	ErrRootSubnet         = errors.New("root subnet cannot be liquidated")
)

// SwapHandler unwinds the liquidity positions of a subnet's market.
type SwapHandler interface {
	DissolveAllLiquidityProviders(rw kv.GetPutter, netuid thor.NetUID) error
	ClearProtocolLiquidity(rw kv.GetPutter, netuid thor.NetUID) error
}

// CommitmentsPurger drops the commitments published on a subnet.
type CommitmentsPurger interface {
	PurgeNetuid(rw kv.GetPutter, netuid thor.NetUID) error
}

// Engine drives subnet teardowns. Every invocation runs in its own store
// transaction, so a failed invocation leaves the persisted phase untouched.
type Engine struct {
	store       kv.Store
	cfg         Config
	swap        SwapHandler
	commitments CommitmentsPurger
	emitter     Emitter
}

// New creates an engine. Collaborators may be nil.
func New(store kv.Store, cfg Config, swap SwapHandler, commitments CommitmentsPurger, emitter Emitter) *Engine {
	return &Engine{
		store:       store,
		cfg:         cfg,
		swap:        swap,
		commitments: commitments,
		emitter:     emitter,
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// update runs fn in a transaction and delivers the step's events once it commits.
func (e *Engine) update(netuid thor.NetUID, fn func(s *step) error) error {
	var s *step
	if err := e.store.Update(func(rw kv.GetPutter) error {
		s = e.newStep(rw, netuid)
		return fn(s)
	}); err != nil {
		return err
	}
	e.flush(s)
	return nil
}

func (e *Engine) flush(s *step) {
	for tag, n := range s.removed {
		metricEntriesRemoved().AddWithLabel(int64(n), map[string]string{"phase": tag.String()})
	}
	if s.paid > 0 {
		metricTaoDistributed().Add(int64(s.paid))
	}
	if s.dust > 0 {
		metricDustBurned().Add(int64(s.dust))
	}
	for _, ev := range s.events {
		switch {
		case ev.Kind == EventLiquidationStarted:
			metricActive().Add(1)
		case ev.Kind == EventLiquidationCompleted:
			metricActive().Add(-1)
		case ev.Kind == EventPhaseCompleted:
			metricPhasesCompleted().AddWithLabel(1, map[string]string{"phase": ev.Phase.String()})
		case ev.Kind.IsWarning():
			metricWarnings().AddWithLabel(1, map[string]string{"kind": ev.Kind.String()})
		}
	}
	if e.emitter == nil || len(s.events) == 0 {
		return
	}
	if err := e.emitter.Emit(s.events...); err != nil {
		logger.Warn("failed to emit events", "netuid", s.netuid, "count", len(s.events), "err", err)
	}
}

// Advance runs the teardown of netuid for at most budget. Phases are chained while
// budget remains; a phase reporting Incomplete ends the invocation. The first step
// always processes at least one item, even when budget is below its unit cost.
func (e *Engine) Advance(netuid thor.NetUID, budget uint64) (result ChunkResult, err error) {
	err = e.update(netuid, func(s *step) error {
		result, err = s.advance(budget)
		return err
	})
	if err == nil {
		metricAdvanceCost().Observe(int64(min(result.Cost, 1<<62)))
	}
	return
}

func (s *step) advance(budget uint64) (ChunkResult, error) {
	phase, ok, err := phases.Lookup(s.rw, s.netuid)
	if err != nil {
		return ChunkResult{}, err
	}
	if !ok {
		return ChunkResult{}, errors.Wrapf(ErrNotLiquidating, "netuid %v", s.netuid)
	}

	var total uint64
	remaining := budget
	for {
		res, err := s.run(phase, remaining)
		if err != nil {
			return ChunkResult{}, errors.Wrapf(err, "netuid %v phase %v", s.netuid, phase)
		}
		total = subnet.SaturatingAdd(total, res.Cost)
		remaining = subnet.SaturatingSub(remaining, res.Cost)

		if !res.IsComplete() {
			logger.Trace("phase incomplete", "netuid", s.netuid, "next", *res.Next, "cost", res.Cost)
			return Incomplete(total, *res.Next), phases.Set(s.rw, s.netuid, *res.Next)
		}

		next := phase.Next()
		logger.Debug("phase completed", "netuid", s.netuid, "phase", phase.Tag, "cost", res.Cost)
		s.emit(EventPhaseCompleted, phase.Tag, res.Cost, "")

		if next.Tag == Done {
			return Complete(total), s.finish()
		}
		phase = next
		if remaining == 0 || remaining < s.cfg.unitCost(next.Tag) {
			return Incomplete(total, next), phases.Set(s.rw, s.netuid, next)
		}
	}
}

// finish drops the teardown records once Done is reached.
func (s *step) finish() error {
	state, _, err := runStates.Take(s.rw, s.netuid)
	if err != nil {
		return err
	}
	if err := phases.Remove(s.rw, s.netuid); err != nil {
		return err
	}
	if err := s.ledger.UnmarkLiquidating(s.netuid); err != nil {
		return err
	}
	logger.Info("liquidation completed", "netuid", s.netuid, "run", state.RunID, "distributed", state.TaoDistributed)
	s.emit(EventLiquidationCompleted, Done, state.TaoDistributed, state.RunID)
	return nil
}

// RunPhase runs the handler of phase p once for netuid, without chaining phases
// and without touching the persisted phase.
func (e *Engine) RunPhase(netuid thor.NetUID, p Phase, budget uint64) (result ChunkResult, err error) {
	err = e.update(netuid, func(s *step) error {
		result, err = s.run(p, budget)
		return err
	})
	return
}

// ForceComplete drives the teardown of netuid to Done in one invocation.
func (e *Engine) ForceComplete(netuid thor.NetUID) (uint64, error) {
	var total uint64
	for {
		res, err := e.Advance(netuid, Unlimited)
		if err != nil {
			return total, err
		}
		total = subnet.SaturatingAdd(total, res.Cost)
		if res.IsComplete() {
			return total, nil
		}
	}
}

// EmergencyFinalize ends an overdue teardown. Stakers not paid yet are dropped
// and the undistributed pot is burned; the remaining phases then run unbounded.
// It returns the burned amount and the cost of the work done.
func (e *Engine) EmergencyFinalize(netuid thor.NetUID) (burned, cost uint64, err error) {
	err = e.update(netuid, func(s *step) error {
		phase, ok, err := phases.Lookup(s.rw, s.netuid)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(ErrNotLiquidating, "netuid %v", netuid)
		}
		if burned, err = s.dropUndistributed(); err != nil {
			return err
		}
		if phase.Tag == DistributeAlpha {
			// nothing left to pay
			phase = phase.Next()
			if err := phases.Set(s.rw, netuid, phase); err != nil {
				return err
			}
		}
		logger.Warn("liquidation overdue, finalizing", "netuid", netuid, "phase", phase, "burned", burned)
		s.emit(EventEmergencyFinalized, phase.Tag, burned, "")

		for {
			res, err := s.advance(Unlimited)
			if err != nil {
				return err
			}
			cost = subnet.SaturatingAdd(cost, res.Cost)
			if res.IsComplete() {
				return nil
			}
		}
	})
	return
}

// dropUndistributed burns the unpaid part of the pot and removes the snapshot
// entries left, along with their stake positions.
func (s *step) dropUndistributed() (uint64, error) {
	state, ok, err := runStates.Lookup(s.rw, s.netuid)
	if err != nil || !ok {
		return 0, err
	}
	entries, _, err := snapshots.Scan(s.rw, s.netuid, nil, 0)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if err := snapshots.Remove(s.rw, s.netuid, subnet.Raw(entry.Key)); err != nil {
			return 0, err
		}
		pos := subnet.StakeKey{Hotkey: entry.Value.Hotkey, Coldkey: entry.Value.Coldkey, NetUID: s.netuid}
		if err := subnet.Alpha.Remove(s.rw, pos); err != nil {
			return 0, err
		}
	}
	burned := state.Undistributed()
	if burned > 0 {
		if err := s.ledger.Burn(burned); err != nil {
			return 0, err
		}
		s.dust += burned
	}
	state.TaoDistributed = state.TaoPot
	state.SnapshotCount = 0
	return burned, runStates.Set(s.rw, s.netuid, state)
}

// Phase returns the persisted phase of netuid.
func (e *Engine) Phase(netuid thor.NetUID) (Phase, bool, error) {
	return phases.Lookup(e.store, netuid)
}

// RunState returns the run state of netuid.
func (e *Engine) RunState(netuid thor.NetUID) (RunState, bool, error) {
	return runStates.Lookup(e.store, netuid)
}

// IsLiquidating reports whether netuid has a teardown in progress.
func (e *Engine) IsLiquidating(netuid thor.NetUID) (bool, error) {
	return phases.Has(e.store, netuid)
}

// Liquidating lists the subnets being torn down, in netuid order.
func (e *Engine) Liquidating() ([]thor.NetUID, error) {
	entries, _, err := phases.Scan(e.store, nil, 0)
	if err != nil {
		return nil, err
	}
	out := make([]thor.NetUID, 0, len(entries))
	for _, entry := range entries {
		out = append(out, subnet.NetUIDSuffix(entry.Key))
	}
	return out, nil
}
