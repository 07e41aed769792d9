// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subnet

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/thor"
)

// ErrSubnetExists is returned when registering a netuid that is already taken.
var ErrSubnetExists = errors.New("subnet already exists")

// Registry writes subnet state. It covers what the rest of the network does to
// build up a subnet: registration, neurons, stake and weights.
type Registry struct {
	*Ledger
}

func NewRegistry(rw kv.GetPutter) *Registry {
	return &Registry{NewLedger(rw)}
}

// RegisterNetwork creates netuid owned by owner with the given number of mechanisms.
func (r *Registry) RegisterNetwork(netuid thor.NetUID, owner thor.AccountID, block uint64, mechanisms uint8) error {
	exists, err := r.SubnetExists(netuid)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(ErrSubnetExists, "netuid %v", netuid)
	}
	if mechanisms == 0 {
		mechanisms = 1
	}
	if err := NetworksAdded.Set(r.rw, netuid, true); err != nil {
		return err
	}
	if err := SubnetOwner.Set(r.rw, netuid, owner); err != nil {
		return err
	}
	if err := NetworkRegisteredAt.Set(r.rw, netuid, block); err != nil {
		return err
	}
	if err := MechanismCountCurrent.Set(r.rw, netuid, mechanisms); err != nil {
		return err
	}
	if mechanisms > 1 {
		split := make([]uint16, mechanisms)
		for i := range split {
			split[i] = ^uint16(0) / uint16(mechanisms)
		}
		if err := MechanismEmissionSplit.Set(r.rw, netuid, split); err != nil {
			return err
		}
	}
	for i, hp := range Hyperparameters {
		if err := hp.Set(r.rw, netuid, uint64(i+1)); err != nil {
			return err
		}
	}
	if err := SubnetIdentities.Set(r.rw, netuid, []byte("subnet-"+netuid.String())); err != nil {
		return err
	}
	if err := r.initVectors(netuid, mechanisms); err != nil {
		return err
	}
	return r.IncTotalNetworks()
}

func (r *Registry) initVectors(netuid thor.NetUID, mechanisms uint8) error {
	for _, v := range []*Mapping[thor.NetUID, []uint16]{Rank, Trust, Consensus, Dividends, PruningScores, ValidatorTrust} {
		if err := v.Set(r.rw, netuid, []uint16{0}); err != nil {
			return err
		}
	}
	for _, v := range []*Mapping[thor.NetUID, []bool]{Active, ValidatorPermit} {
		if err := v.Set(r.rw, netuid, []bool{false}); err != nil {
			return err
		}
	}
	if err := Emission.Set(r.rw, netuid, []uint64{0}); err != nil {
		return err
	}
	for m := range mechanisms {
		idx := thor.StorageIndexOf(netuid, thor.MechanismID(m))
		if err := LastUpdate.Set(r.rw, idx, []uint64{0}); err != nil {
			return err
		}
		if err := Incentive.Set(r.rw, idx, []uint16{0}); err != nil {
			return err
		}
	}
	return nil
}

// RegisterNeuron assigns uid in netuid to hotkey and records its per-neuron data.
func (r *Registry) RegisterNeuron(netuid thor.NetUID, uid uint16, hotkey thor.AccountID, block uint64) error {
	if err := r.EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	key := Account(hotkey)
	if err := Keys.Set(r.rw, netuid, UID(uid), hotkey); err != nil {
		return err
	}
	if err := Uids.Set(r.rw, netuid, key, uid); err != nil {
		return err
	}
	if err := BlockAtRegistration.Set(r.rw, netuid, UID(uid), block); err != nil {
		return err
	}
	axon := AxonInfo{Block: block, Version: 1, IP: []byte{127, 0, 0, 1}, Port: 8091, Protocol: 4}
	if err := Axons.Set(r.rw, netuid, key, axon); err != nil {
		return err
	}
	if err := Prometheus.Set(r.rw, netuid, key, axon); err != nil {
		return err
	}
	if err := NeuronCertificates.Set(r.rw, netuid, key, hotkey.Bytes()); err != nil {
		return err
	}
	if err := AlphaDividendsPerSubnet.Set(r.rw, netuid, key, 0); err != nil {
		return err
	}
	if err := IsNetworkMember.Set(r.rw, AccountNet{hotkey, netuid}, true); err != nil {
		return err
	}
	n, err := SubnetworkN.Get(r.rw, netuid)
	if err != nil {
		return err
	}
	if uid >= n {
		n = uid + 1
	}
	return SubnetworkN.Set(r.rw, netuid, n)
}

// AddStake stakes tao from coldkey to hotkey on netuid, minting alpha one to one.
func (r *Registry) AddStake(hotkey, coldkey thor.AccountID, netuid thor.NetUID, alpha, tao uint64) error {
	if err := r.EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	pos := StakeKey{hotkey, coldkey, netuid}
	cur, err := Alpha.Get(r.rw, pos)
	if err != nil {
		return err
	}
	if err := Alpha.Set(r.rw, pos, SaturatingAdd(cur, alpha)); err != nil {
		return err
	}

	hk := AccountNet{hotkey, netuid}
	total, err := TotalHotkeyAlpha.Get(r.rw, hk)
	if err != nil {
		return err
	}
	if err := TotalHotkeyAlpha.Set(r.rw, hk, SaturatingAdd(total, alpha)); err != nil {
		return err
	}
	shares, err := TotalHotkeyShares.Get(r.rw, hk)
	if err != nil {
		return err
	}
	if shares == nil {
		shares = new(big.Int)
	}
	if err := TotalHotkeyShares.Set(r.rw, hk, shares.Add(shares, new(big.Int).SetUint64(alpha))); err != nil {
		return err
	}
	out, err := SubnetAlphaOut.Get(r.rw, netuid)
	if err != nil {
		return err
	}
	if err := SubnetAlphaOut.Set(r.rw, netuid, SaturatingAdd(out, alpha)); err != nil {
		return err
	}

	if err := r.AddSubnetTAO(netuid, tao); err != nil {
		return err
	}
	if err := r.AddTotalStake(tao); err != nil {
		return err
	}
	return r.Mint(tao)
}

// Stake returns the alpha held by (hotkey, coldkey) on netuid.
func (r *Registry) Stake(hotkey, coldkey thor.AccountID, netuid thor.NetUID) (uint64, error) {
	return Alpha.Get(r.rw, StakeKey{hotkey, coldkey, netuid})
}

// SetWeights writes the weight and bond rows of uid for one mechanism of netuid.
func (r *Registry) SetWeights(netuid thor.NetUID, mechanism thor.MechanismID, uid uint16, row []WeightEntry) error {
	if err := r.EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	idx := thor.StorageIndexOf(netuid, mechanism)
	if err := Weights.Set(r.rw, idx, UID(uid), row); err != nil {
		return err
	}
	if err := Bonds.Set(r.rw, idx, UID(uid), row); err != nil {
		return err
	}
	return WeightCommits.Set(r.rw, idx, UID(uid), []byte{byte(uid), byte(mechanism)})
}

// SetRootWeights writes the root network weight row of validator uid. A weight
// pointing at a subnet being torn down may only be kept or zeroed.
func (r *Registry) SetRootWeights(uid uint16, row []WeightEntry) error {
	cur, err := Weights.Get(r.rw, RootWeights, UID(uid))
	if err != nil {
		return err
	}
	prev := make(map[uint16]uint16, len(cur))
	for _, w := range cur {
		prev[w.Dest] = w.Weight
	}
	for _, w := range row {
		if w.Weight == 0 || prev[w.Dest] == w.Weight {
			continue
		}
		if err := r.EnsureNotLiquidating(thor.NetUID(w.Dest)); err != nil {
			return err
		}
	}
	return Weights.Set(r.rw, RootWeights, UID(uid), row)
}

// RootWeightRow returns the root network weight row of validator uid.
func (r *Registry) RootWeightRow(uid uint16) ([]WeightEntry, error) {
	return Weights.Get(r.rw, RootWeights, UID(uid))
}

// SetChildKeys links parent hotkey to children on netuid.
func (r *Registry) SetChildKeys(parent thor.AccountID, netuid thor.NetUID, children []thor.AccountID, take uint16) error {
	if err := r.EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	if err := ChildKeys.Set(r.rw, AccountNet{parent, netuid}, children); err != nil {
		return err
	}
	if err := ChildkeyTake.Set(r.rw, AccountNet{parent, netuid}, take); err != nil {
		return err
	}
	for _, child := range children {
		if err := ParentKeys.Set(r.rw, AccountNet{child, netuid}, []thor.AccountID{parent}); err != nil {
			return err
		}
	}
	return nil
}

// Lease records a lease of netuid with the given share holders.
func (r *Registry) Lease(netuid thor.NetUID, id LeaseID, lease Lease, shares map[thor.AccountID]uint64) error {
	if err := r.EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	if err := SubnetUIDToLeaseID.Set(r.rw, netuid, uint32(id)); err != nil {
		return err
	}
	lease.NetUID = netuid
	if err := SubnetLeases.Set(r.rw, id, lease); err != nil {
		return err
	}
	for acc, share := range shares {
		if err := SubnetLeaseShares.Set(r.rw, id, Account(acc), share); err != nil {
			return err
		}
	}
	return AccumulatedLeaseDividends.Set(r.rw, id, 0)
}

// AddPendingRootDividends accrues root dividends attributable to netuid.
func (r *Registry) AddPendingRootDividends(netuid thor.NetUID, amount uint64) error {
	if err := r.EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	cur, err := PendingRootDivs.Get(r.rw, netuid)
	if err != nil {
		return err
	}
	return PendingRootDivs.Set(r.rw, netuid, SaturatingAdd(cur, amount))
}
