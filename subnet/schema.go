// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subnet

import (
	"math/big"

	"github.com/vechain/subnetd/thor"
)

// AxonInfo is the serving endpoint advertised by a neuron.
type AxonInfo struct {
	Block    uint64
	Version  uint32
	IP       []byte
	Port     uint16
	Protocol uint8
}

// WeightEntry is one (destination, weight) pair of a sparse weight row.
type WeightEntry struct {
	Dest   uint16
	Weight uint16
}

// Lease is a subnet lease record.
type Lease struct {
	Beneficiary    thor.AccountID
	Coldkey        thor.AccountID
	Hotkey         thor.AccountID
	EmissionsShare uint8
	EndBlock       uint64
	NetUID         thor.NetUID
	Cost           uint64
}

// Global counters.
var (
	TotalIssuance = NewValue[uint64]("TotalIssuance")
	TotalStake    = NewValue[uint64]("TotalStake")
	TotalNetworks = NewValue[uint16]("TotalNetworks")
)

// Account balances of the base currency.
var Balances = NewMapping[Account, uint64]("Balances")

// Subnet existence and ownership.
var (
	NetworksAdded          = NewMapping[thor.NetUID, bool]("NetworksAdded")
	SubnetOwner            = NewMapping[thor.NetUID, thor.AccountID]("SubnetOwner")
	SubnetworkN            = NewMapping[thor.NetUID, uint16]("SubnetworkN")
	NetworkRegisteredAt    = NewMapping[thor.NetUID, uint64]("NetworkRegisteredAt")
	MechanismCountCurrent  = NewMapping[thor.NetUID, uint8]("MechanismCountCurrent")
	SubnetTAO              = NewMapping[thor.NetUID, uint64]("SubnetTAO")
	SubnetAlphaIn          = NewMapping[thor.NetUID, uint64]("SubnetAlphaIn")
	SubnetAlphaOut         = NewMapping[thor.NetUID, uint64]("SubnetAlphaOut")
	PendingRootDivs        = NewMapping[thor.NetUID, uint64]("PendingRootDivs")
	SubnetIdentities       = NewMapping[thor.NetUID, []byte]("SubnetIdentitiesV3")
	MechanismEmissionSplit = NewMapping[thor.NetUID, []uint16]("MechanismEmissionSplit")
	// SubnetLiquidating holds the start block of subnets being torn down.
	SubnetLiquidating = NewMapping[thor.NetUID, uint64]("SubnetLiquidating")
)

// HyperparameterNames lists the scalar per-subnet configuration items.
var HyperparameterNames = []string{
	"Tempo", "Kappa", "Difficulty", "MaxAllowedUids", "ImmunityPeriod",
	"ActivityCutoff", "MinAllowedWeights", "RegistrationsThisInterval",
	"POWRegistrationsThisInterval", "BurnRegistrationsThisInterval",
	"SubnetAlphaInEmission", "SubnetAlphaOutEmission", "SubnetTaoInEmission",
	"SubnetVolume", "SubnetMovingPrice", "SubnetTaoFlow", "SubnetEmaTaoFlow",
	"SubnetTaoProvided", "TokenSymbol", "SubnetMechanism", "SubnetOwnerHotkey",
	"NetworkRegistrationAllowed", "NetworkPowRegistrationAllowed", "TransferToggle",
	"SubnetLocked", "LargestLocked", "FirstEmissionBlockNumber",
	"PendingValidatorEmission", "PendingServerEmission", "PendingRootAlphaDivs",
	"PendingOwnerCut", "BlocksSinceLastStep", "LastMechansimStepBlock",
	"LastAdjustmentBlock", "ServingRateLimit", "Rho", "AlphaSigmoidSteepness",
	"MaxAllowedValidators", "AdjustmentInterval", "BondsMovingAverage",
	"BondsPenalty", "BondsResetOn", "WeightsSetRateLimit", "ValidatorPruneLen",
	"ScalingLawPower", "TargetRegistrationsPerInterval", "AdjustmentAlpha",
	"CommitRevealWeightsEnabled", "Burn", "MinBurn", "MaxBurn", "MinDifficulty",
	"MaxDifficulty", "RegistrationsThisBlock", "EMAPriceHalvingBlocks",
	"RAORecycledForRegistration", "MaxRegistrationsPerBlock", "WeightsVersionKey",
	"LiquidAlphaOn", "Yuma3On", "AlphaValues", "SubtokenEnabled",
	"ImmuneOwnerUidsLimit", "StakeWeight", "LoadedEmission", "RevealPeriodEpochs",
}

// Hyperparameters holds one collection per name in HyperparameterNames, in the same order.
var Hyperparameters = func() []*Mapping[thor.NetUID, uint64] {
	out := make([]*Mapping[thor.NetUID, uint64], 0, len(HyperparameterNames))
	for _, name := range HyperparameterNames {
		out = append(out, NewMapping[thor.NetUID, uint64](name))
	}
	return out
}()

// Per-neuron collections, keyed by netuid first.
var (
	BlockAtRegistration     = NewPrefixMap[thor.NetUID, uint64]("BlockAtRegistration")
	Axons                   = NewPrefixMap[thor.NetUID, AxonInfo]("Axons")
	NeuronCertificates      = NewPrefixMap[thor.NetUID, []byte]("NeuronCertificates")
	Prometheus              = NewPrefixMap[thor.NetUID, AxonInfo]("Prometheus")
	AlphaDividendsPerSubnet = NewPrefixMap[thor.NetUID, uint64]("AlphaDividendsPerSubnet")
	PendingChildKeys        = NewPrefixMap[thor.NetUID, []byte]("PendingChildKeys")
	AssociatedEvmAddress    = NewPrefixMap[thor.NetUID, []byte]("AssociatedEvmAddress")
	Uids                    = NewPrefixMap[thor.NetUID, uint16]("Uids")
	Keys                    = NewPrefixMap[thor.NetUID, thor.AccountID]("Keys")
	LastHotkeySwapOnNetuid  = NewPrefixMap[thor.NetUID, uint64]("LastHotkeySwapOnNetuid")
)

// Per-subnet vectors indexed by uid.
var (
	Rank            = NewMapping[thor.NetUID, []uint16]("Rank")
	Trust           = NewMapping[thor.NetUID, []uint16]("Trust")
	Active          = NewMapping[thor.NetUID, []bool]("Active")
	Emission        = NewMapping[thor.NetUID, []uint64]("Emission")
	Consensus       = NewMapping[thor.NetUID, []uint16]("Consensus")
	Dividends       = NewMapping[thor.NetUID, []uint16]("Dividends")
	PruningScores   = NewMapping[thor.NetUID, []uint16]("PruningScores")
	ValidatorPermit = NewMapping[thor.NetUID, []bool]("ValidatorPermit")
	ValidatorTrust  = NewMapping[thor.NetUID, []uint16]("ValidatorTrust")
)

// Per-mechanism collections, keyed by storage index first.
var (
	WeightCommits           = NewPrefixMap[thor.StorageIndex, []byte]("WeightCommits")
	TimelockedWeightCommits = NewPrefixMap[thor.StorageIndex, []byte]("TimelockedWeightCommits")
	CRV3WeightCommits       = NewPrefixMap[thor.StorageIndex, []byte]("CRV3WeightCommits")
	CRV3WeightCommitsV2     = NewPrefixMap[thor.StorageIndex, []byte]("CRV3WeightCommitsV2")
	Bonds                   = NewPrefixMap[thor.StorageIndex, []WeightEntry]("Bonds")
	Weights                 = NewPrefixMap[thor.StorageIndex, []WeightEntry]("Weights")

	LastUpdate = NewMapping[thor.StorageIndex, []uint64]("LastUpdate")
	Incentive  = NewMapping[thor.StorageIndex, []uint16]("Incentive")
)

// Collections keyed by (account, netuid).
var (
	ChildkeyTake               = NewMapping[AccountNet, uint16]("ChildkeyTake")
	ChildKeys                  = NewMapping[AccountNet, []thor.AccountID]("ChildKeys")
	ParentKeys                 = NewMapping[AccountNet, []thor.AccountID]("ParentKeys")
	LastHotkeyEmissionOnNetuid = NewMapping[AccountNet, uint64]("LastHotkeyEmissionOnNetuid")
	TotalHotkeyAlphaLastEpoch  = NewMapping[AccountNet, uint64]("TotalHotkeyAlphaLastEpoch")
	IsNetworkMember            = NewMapping[AccountNet, bool]("IsNetworkMember")
	TotalHotkeyAlpha           = NewMapping[AccountNet, uint64]("TotalHotkeyAlpha")
	TotalHotkeyShares          = NewMapping[AccountNet, *big.Int]("TotalHotkeyShares")
)

// Alpha holds staking positions keyed by (hotkey, coldkey, netuid).
var Alpha = NewMapping[StakeKey, uint64]("Alpha")

// Subnet leases.
var (
	SubnetUIDToLeaseID        = NewMapping[thor.NetUID, uint32]("SubnetUidToLeaseId")
	SubnetLeases              = NewMapping[LeaseID, Lease]("SubnetLeases")
	SubnetLeaseShares         = NewPrefixMap[LeaseID, uint64]("SubnetLeaseShares")
	AccumulatedLeaseDividends = NewMapping[LeaseID, uint64]("AccumulatedLeaseDividends")
)

// RootWeights is the root network's validator weight matrix.
var RootWeights = thor.StorageIndexOf(thor.RootNetUID, 0)
