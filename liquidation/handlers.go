// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

// neuronMaps are the per-neuron collections keyed by netuid, in clearing order.
// Index len(neuronMaps) removes the per-subnet vectors.
var neuronMaps = []kv.Bucket{
	subnet.BlockAtRegistration.Bucket(),
	subnet.Axons.Bucket(),
	subnet.NeuronCertificates.Bucket(),
	subnet.Prometheus.Bucket(),
	subnet.AlphaDividendsPerSubnet.Bucket(),
	subnet.PendingChildKeys.Bucket(),
	subnet.AssociatedEvmAddress.Bucket(),
	subnet.Uids.Bucket(),
	subnet.Keys.Bucket(),
	subnet.LastHotkeySwapOnNetuid.Bucket(),
}

var vectors = []kv.Bucket{
	subnet.Rank.Bucket(),
	subnet.Trust.Bucket(),
	subnet.Active.Bucket(),
	subnet.Emission.Bucket(),
	subnet.Consensus.Bucket(),
	subnet.Dividends.Bucket(),
	subnet.PruningScores.Bucket(),
	subnet.ValidatorPermit.Bucket(),
	subnet.ValidatorTrust.Bucket(),
}

// matrixMaps are the per-mechanism collections keyed by storage index, in clearing order.
// Index len(matrixMaps) moves on to the next mechanism.
var matrixMaps = []kv.Bucket{
	subnet.WeightCommits.Bucket(),
	subnet.TimelockedWeightCommits.Bucket(),
	subnet.CRV3WeightCommits.Bucket(),
	subnet.CRV3WeightCommitsV2.Bucket(),
	subnet.Bonds.Bucket(),
	subnet.Weights.Bucket(),
}

// twoKeyMaps are the collections keyed by (account, netuid), in clearing order.
// They are followed by the hotkey alpha/shares pair and the lease/identity records.
var twoKeyMaps = [...]kv.Bucket{
	subnet.ChildkeyTake.Bucket(),
	subnet.ChildKeys.Bucket(),
	subnet.ParentKeys.Bucket(),
	subnet.LastHotkeyEmissionOnNetuid.Bucket(),
	subnet.TotalHotkeyAlphaLastEpoch.Bucket(),
	subnet.IsNetworkMember.Bucket(),
}

const (
	hotkeyAlphaAndShares = uint8(len(twoKeyMaps))
	leasesAndIdentity    = hotkeyAlphaAndShares + 1
	twoKeyMapsLast       = leasesAndIdentity
)

func (s *step) removeItem(bucket kv.Bucket, key []byte) error {
	return s.rw.Delete(bucket.Key(key))
}

func (s *step) clearHyperparameters() (ChunkResult, error) {
	for _, hp := range subnet.Hyperparameters {
		if err := hp.Remove(s.rw, s.netuid); err != nil {
			return ChunkResult{}, err
		}
	}
	s.removed[ClearHyperparameters] += len(subnet.Hyperparameters)
	return Complete(CostFor(uint64(len(subnet.Hyperparameters)), s.cfg.HyperparamCost)), nil
}

func (s *step) clearNeuronData(mapIdx uint8, cursor []byte, budget uint64) (ChunkResult, error) {
	unit := s.cfg.NeuronEntryCost
	if int(mapIdx) >= len(neuronMaps) {
		for _, v := range vectors {
			if err := s.removeItem(v, s.netuid.Bytes()); err != nil {
				return ChunkResult{}, err
			}
		}
		s.removed[ClearNeuronData] += len(vectors)
		return Complete(unit), nil
	}

	limit := int(MaxItems(budget, unit))
	n, next, err := clearPrefix(s.rw, neuronMaps[mapIdx], s.netuid.Bytes(), cursor, limit)
	if err != nil {
		return ChunkResult{}, err
	}
	s.removed[ClearNeuronData] += n
	cost := charge(n, unit)

	if next != nil {
		if bounded, ok := s.boundCursor(next, ClearNeuronData); ok {
			return Incomplete(cost, Phase{Tag: ClearNeuronData, MapIndex: mapIdx, Cursor: bounded}), nil
		}
	}
	return Incomplete(cost, Phase{Tag: ClearNeuronData, MapIndex: mapIdx + 1}), nil
}

func (s *step) finalizeRootDividends() (ChunkResult, error) {
	if _, err := s.ledger.SettleRootDividends(s.netuid); err != nil {
		return ChunkResult{}, err
	}
	return Complete(s.cfg.FixedOverheadCost), nil
}

func (s *step) dissolveUserLiquidity() (ChunkResult, error) {
	if s.swap != nil {
		if err := s.swap.DissolveAllLiquidityProviders(s.rw, s.netuid); err != nil {
			logger.Warn("failed to dissolve liquidity providers", "netuid", s.netuid, "err", err)
			s.emit(EventLpDissolutionFailed, DissolveUserLiquidity, 0, err.Error())
		}
	}
	return Complete(s.cfg.FixedOverheadCost), nil
}

func (s *step) clearProtocolLiquidity() (ChunkResult, error) {
	if s.swap != nil {
		if err := s.swap.ClearProtocolLiquidity(s.rw, s.netuid); err != nil {
			logger.Warn("failed to clear protocol liquidity", "netuid", s.netuid, "err", err)
			s.emit(EventProtocolLpClearFailed, ClearProtocolLiquidity, 0, err.Error())
		}
	}
	return Complete(s.cfg.FixedOverheadCost), nil
}

func (s *step) mechanismCount() (uint8, error) {
	n, err := subnet.MechanismCountCurrent.Get(s.rw, s.netuid)
	if err != nil {
		return 0, err
	}
	return max(n, 1), nil
}

func (s *step) clearMatrices(mechanism, mapIdx uint8, cursor []byte, budget uint64) (ChunkResult, error) {
	unit := s.cfg.MatrixEntryCost
	count, err := s.mechanismCount()
	if err != nil {
		return ChunkResult{}, err
	}
	if mechanism >= count {
		if err := subnet.MechanismEmissionSplit.Remove(s.rw, s.netuid); err != nil {
			return ChunkResult{}, err
		}
		return Complete(unit), nil
	}

	nextMechanism := Phase{Tag: ClearMatrices, Mechanism: mechanism + 1}
	if int(mapIdx) >= len(matrixMaps) {
		return Incomplete(unit, nextMechanism), nil
	}

	idx := thor.StorageIndexOf(s.netuid, thor.MechanismID(mechanism))
	if mapIdx == 0 && len(cursor) == 0 {
		// entering the mechanism
		if err := subnet.LastUpdate.Remove(s.rw, idx); err != nil {
			return ChunkResult{}, err
		}
		if err := subnet.Incentive.Remove(s.rw, idx); err != nil {
			return ChunkResult{}, err
		}
	}

	limit := int(MaxItems(budget, unit))
	n, next, err := clearPrefix(s.rw, matrixMaps[mapIdx], idx.Bytes(), cursor, limit)
	if err != nil {
		return ChunkResult{}, err
	}
	s.removed[ClearMatrices] += n
	cost := charge(n, unit)

	if next != nil {
		if bounded, ok := s.boundCursor(next, ClearMatrices); ok {
			return Incomplete(cost, Phase{Tag: ClearMatrices, Mechanism: mechanism, MapIndex: mapIdx, Cursor: bounded}), nil
		}
		return Incomplete(cost, Phase{Tag: ClearMatrices, Mechanism: mechanism, MapIndex: mapIdx + 1}), nil
	}
	if int(mapIdx)+1 >= len(matrixMaps) {
		return Incomplete(cost, nextMechanism), nil
	}
	return Incomplete(cost, Phase{Tag: ClearMatrices, Mechanism: mechanism, MapIndex: mapIdx + 1}), nil
}

func (s *step) clearTwoKeyMaps(mapIdx uint8, budget uint64) (ChunkResult, error) {
	unit := s.cfg.NeuronEntryCost
	limit := int(MaxItems(budget, unit))

	var (
		count    int
		complete bool
	)
	switch {
	case mapIdx < hotkeyAlphaAndShares:
		removed, done, err := clearBySuffix(s.rw, twoKeyMaps[mapIdx], s.netuid, limit)
		if err != nil {
			return ChunkResult{}, err
		}
		count, complete = len(removed), done
	case mapIdx == hotkeyAlphaAndShares:
		n, done, err := s.clearHotkeyAlphaAndShares(limit)
		if err != nil {
			return ChunkResult{}, err
		}
		count, complete = n, done
	case mapIdx == leasesAndIdentity:
		if err := s.clearLeasesAndIdentity(); err != nil {
			return ChunkResult{}, err
		}
		count, complete = 1, true
	default:
		return Complete(s.cfg.FixedOverheadCost), nil
	}
	s.removed[ClearTwoKeyMaps] += count

	cost := charge(count, unit)
	switch {
	case !complete:
		return Incomplete(cost, Phase{Tag: ClearTwoKeyMaps, MapIndex: mapIdx}), nil
	case mapIdx >= twoKeyMapsLast:
		return Complete(cost), nil
	}
	return Incomplete(cost, Phase{Tag: ClearTwoKeyMaps, MapIndex: mapIdx + 1}), nil
}

// clearHotkeyAlphaAndShares removes TotalHotkeyAlpha and TotalHotkeyShares together.
// Once drained the subnet's alpha reserves go too.
func (s *step) clearHotkeyAlphaAndShares(limit int) (int, bool, error) {
	removed, complete, err := clearBySuffix(s.rw, subnet.TotalHotkeyAlpha.Bucket(), s.netuid, limit)
	if err != nil {
		return 0, false, err
	}
	shares := subnet.TotalHotkeyShares.Bucket()
	for _, k := range removed {
		if err := s.removeItem(shares, k); err != nil {
			return 0, false, err
		}
	}
	if complete {
		if err := subnet.SubnetAlphaIn.Remove(s.rw, s.netuid); err != nil {
			return 0, false, err
		}
		if err := subnet.SubnetAlphaOut.Remove(s.rw, s.netuid); err != nil {
			return 0, false, err
		}
	}
	return len(removed), complete, nil
}

func (s *step) clearLeasesAndIdentity() error {
	id, ok, err := subnet.SubnetUIDToLeaseID.Take(s.rw, s.netuid)
	if err != nil {
		return err
	}
	if ok {
		lease := subnet.LeaseID(id)
		if err := subnet.SubnetLeases.Remove(s.rw, lease); err != nil {
			return err
		}
		_, next, err := clearPrefix(s.rw, subnet.SubnetLeaseShares.Bucket(), lease.Bytes(), nil, s.cfg.LeaseSharesClearCap)
		if err != nil {
			return err
		}
		if next != nil {
			logger.Warn("lease shares not fully cleared", "netuid", s.netuid, "lease", id, "cap", s.cfg.LeaseSharesClearCap)
		}
		if err := subnet.AccumulatedLeaseDividends.Remove(s.rw, lease); err != nil {
			return err
		}
	}
	return subnet.SubnetIdentities.Remove(s.rw, s.netuid)
}

func (s *step) finalCleanup() (ChunkResult, error) {
	n := s.netuid
	for _, remove := range []func() error{
		func() error { return subnet.SubnetOwner.Remove(s.rw, n) },
		func() error { return subnet.SubnetworkN.Remove(s.rw, n) },
		func() error { return subnet.NetworksAdded.Remove(s.rw, n) },
		func() error { return subnet.NetworkRegisteredAt.Remove(s.rw, n) },
		func() error { return subnet.MechanismCountCurrent.Remove(s.rw, n) },
		func() error { return subnet.SubnetTAO.Remove(s.rw, n) },
		s.ledger.DecTotalNetworks,
	} {
		if err := remove(); err != nil {
			return ChunkResult{}, err
		}
	}
	if s.commitments != nil {
		if err := s.commitments.PurgeNetuid(s.rw, n); err != nil {
			logger.Warn("failed to purge commitments", "netuid", n, "err", err)
		}
	}
	return Complete(s.cfg.FixedOverheadCost), nil
}
