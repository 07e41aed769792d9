// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"math"
	"math/bits"

	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

// Unlimited is a budget large enough to finish any teardown in one invocation.
const Unlimited = math.MaxUint64

// Config holds the cost model and limits of the engine.
type Config struct {
	HyperparamCost        uint64 `yaml:"hyperparam-cost"`
	NeuronEntryCost       uint64 `yaml:"neuron-entry-cost"`
	MatrixEntryCost       uint64 `yaml:"matrix-entry-cost"`
	DistributionEntryCost uint64 `yaml:"distribution-entry-cost"`
	FixedOverheadCost     uint64 `yaml:"fixed-overhead-cost"`

	MaxCursorLen         int    `yaml:"max-cursor-len"`
	MinSnapshotAlpha     uint64 `yaml:"min-snapshot-alpha"`
	MinLiquidationBlocks uint64 `yaml:"min-liquidation-blocks"`
	MaxLiquidationBlocks uint64 `yaml:"max-liquidation-blocks"`
	LeaseSharesClearCap  int    `yaml:"lease-shares-clear-cap"`
	// BlockBudget is the budget expected per block, used to size the completion deadline.
	BlockBudget uint64 `yaml:"block-budget"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		HyperparamCost:        thor.HyperparamCost,
		NeuronEntryCost:       thor.NeuronEntryCost,
		MatrixEntryCost:       thor.MatrixEntryCost,
		DistributionEntryCost: thor.DistributionEntryCost,
		FixedOverheadCost:     thor.FixedOverheadCost,
		MaxCursorLen:          thor.MaxCursorLen,
		MinSnapshotAlpha:      thor.MinSnapshotAlpha,
		MinLiquidationBlocks:  thor.MinLiquidationBlocks,
		MaxLiquidationBlocks:  thor.MaxLiquidationBlocks,
		LeaseSharesClearCap:   thor.LeaseSharesClearCap,
		BlockBudget:           5_000_000,
	}
}

// MaxItems returns how many items of the given unit cost fit in budget.
// It never returns less than one so every step makes progress.
func MaxItems(budget, unit uint64) uint64 {
	if unit == 0 {
		return math.MaxUint32
	}
	n := budget / unit
	if n == 0 {
		return 1
	}
	return min(n, math.MaxUint32)
}

// CostFor returns the budget consumed by count items of the given unit cost.
func CostFor(count, unit uint64) uint64 {
	hi, lo := bits.Mul64(count, unit)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// unitCost is the smallest cost a step of the phase can report.
func (c *Config) unitCost(t Tag) uint64 {
	switch t {
	case ClearHyperparameters:
		return CostFor(uint64(len(subnet.Hyperparameters)), c.HyperparamCost)
	case ClearNeuronData, ClearTwoKeyMaps:
		return c.NeuronEntryCost
	case ClearRootWeights, ClearMatrices:
		return c.MatrixEntryCost
	case DistributeAlpha:
		return c.DistributionEntryCost
	case Done:
		return 0
	}
	return c.FixedOverheadCost
}
