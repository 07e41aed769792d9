// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"github.com/vechain/subnetd/metrics"
)

var (
	metricAdvanceCost     = metrics.LazyLoadHistogram("liquidation_advance_cost", metrics.BucketWeight)
	metricEntriesRemoved  = metrics.LazyLoadCounterVec("liquidation_entries_removed_count", []string{"phase"})
	metricPhasesCompleted = metrics.LazyLoadCounterVec("liquidation_phases_completed_count", []string{"phase"})
	metricWarnings        = metrics.LazyLoadCounterVec("liquidation_warnings_count", []string{"kind"})
	metricTaoDistributed  = metrics.LazyLoadCounter("liquidation_tao_distributed")
	metricDustBurned      = metrics.LazyLoadCounter("liquidation_dust_burned")
	metricActive          = metrics.LazyLoadGauge("liquidation_active_count")
)
