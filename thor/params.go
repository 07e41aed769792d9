// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Per-unit costs of teardown work, in budget units.
const (
	HyperparamCost        uint64 = 5_000   // removing one scalar hyperparameter
	NeuronEntryCost       uint64 = 25_000  // removing one per-neuron entry
	MatrixEntryCost       uint64 = 30_000  // removing or editing one matrix row
	DistributionEntryCost uint64 = 100_000 // paying one snapshot entry
	FixedOverheadCost     uint64 = 50_000  // any O(1) whole-map step
)

// Teardown limits.
const (
	MaxCursorLen         = 256  // largest encodable resume token, in bytes
	MinSnapshotAlpha     = 1000 // positions below this are not paid
	MinLiquidationBlocks = 10   // lower bound of a teardown window
	MaxLiquidationBlocks = 7200 // upper bound of a teardown window
	LeaseSharesClearCap  = 1000 // lease shares removed alongside a lease
)
