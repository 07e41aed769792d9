// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs before TestPromMetrics switches the service to prometheus.
func TestNoopMetrics(t *testing.T) {
	require.IsType(t, noopMetrics{}, metrics)
	assert.Nil(t, HTTPHandler())

	// meters defined package wide resolve to the noop service until prometheus is enabled
	advanceCost := LazyLoadHistogram("noop_advance_cost", BucketWeight)
	removed := LazyLoadCounterVec("noop_entries_removed_count", []string{"phase"})
	active := LazyLoadGauge("noop_active_count")

	assert.NotPanics(t, func() {
		for _, cost := range []int64{25_000, 1_000_000, 60_000_000} {
			advanceCost().Observe(cost)
		}
		for _, phase := range []string{"clear neuron maps", "distribute alpha"} {
			removed().AddWithLabel(3, map[string]string{"phase": phase})
		}
		// labels the meter was not declared with are ignored
		removed().AddWithLabel(1, map[string]string{"netuid": "7"})
		active().Set(2)
		active().Add(-1)

		Counter("noop_tao_distributed").Add(4100)
		CounterVec("noop_warnings_count", []string{"kind"}).AddWithLabel(1, map[string]string{"kind": "dust"})
		GaugeVec("noop_phase_gauge", []string{"phase"}).SetWithLabel(1, map[string]string{"phase": "snapshot"})
		HistogramVec("noop_chunk_items", []string{"phase"}, BucketItems).
			ObserveWithLabels(50, map[string]string{"phase": "clear matrices"})
	})

	// a nil handler falls back to the default mux, which serves nothing
	server := httptest.NewServer(HTTPHandler())
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
