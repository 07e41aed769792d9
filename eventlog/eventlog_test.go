// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/subnetd/liquidation"
	"github.com/vechain/subnetd/thor"
)

func ev(kind liquidation.EventKind, netuid thor.NetUID, amount uint64, detail string) liquidation.Event {
	return liquidation.Event{Kind: kind, NetUID: netuid, Phase: liquidation.DistributeAlpha, Amount: amount, Detail: detail}
}

func TestEmitAndFilter(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	var _ liquidation.Emitter = db

	require.NoError(t, db.Emit(
		ev(liquidation.EventLiquidationStarted, 1, 601, "run-1"),
		ev(liquidation.EventLiquidationStarted, 2, 10, "run-2"),
		ev(liquidation.EventDistributionDust, 1, 1, ""),
	))
	require.NoError(t, db.Emit(ev(liquidation.EventLiquidationCompleted, 1, 601, "run-1")))

	all, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, r := range all {
		assert.Equal(t, uint64(i+1), r.Seq)
	}
	assert.Equal(t, "run-1", all[2].RunID, "events are tagged with the open run")
	assert.Equal(t, uint64(1), all[2].Amount)
	assert.Equal(t, liquidation.DistributeAlpha, all[2].Phase)

	netuid := thor.NetUID(1)
	got, err := db.Filter(context.Background(), &Filter{
		NetUID: &netuid,
		Kinds:  []liquidation.EventKind{liquidation.EventDistributionDust, liquidation.EventLiquidationCompleted},
		Order:  DESC,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, liquidation.EventLiquidationCompleted, got[0].Kind)
	assert.Equal(t, liquidation.EventDistributionDust, got[1].Kind)

	got, err = db.Filter(context.Background(), &Filter{FromSeq: 2, Options: &Options{Offset: 1, Limit: 1}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(3), got[0].Seq)

	runs, err := db.Runs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1"}, runs)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.Emit(ev(liquidation.EventCursorOverflow, 3, 300, "")))
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.NotEmpty(t, db.DriverVersion())

	got, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, liquidation.EventCursorOverflow, got[0].Kind)
}

func TestFilterCanceled(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Emit(ev(liquidation.EventPhaseCompleted, 1, 0, "")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.Filter(ctx, nil)
	assert.Error(t, err)
}
