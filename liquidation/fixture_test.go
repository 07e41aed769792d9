// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vechain/subnetd/badgerdb"
	"github.com/vechain/subnetd/commitments"
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/lvldb"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/swap"
	"github.com/vechain/subnetd/thor"
)

func init() {
	SetLogger(log.NewLogger(log.DiscardHandler()))
}

type fixture struct {
	db          kv.Store
	reg         *subnet.Registry
	engine      *Engine
	events      *Recorder
	pool        *swap.Pool
	commitments *commitments.Store
}

type storeFactory func(t *testing.T) kv.Store

func memLevelDB(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func memBadger(t *testing.T) kv.Store {
	db, err := badgerdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var stores = map[string]storeFactory{
	"leveldb": memLevelDB,
	"badger":  memBadger,
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MinSnapshotAlpha = 1
	return cfg
}

func newFixture(t *testing.T, cfg Config) *fixture {
	return newFixtureWith(t, memLevelDB(t), cfg, swap.New())
}

func newFixtureWith(t *testing.T, db kv.Store, cfg Config, pool *swap.Pool) *fixture {
	f := &fixture{
		db:          db,
		reg:         subnet.NewRegistry(db),
		events:      &Recorder{},
		pool:        pool,
		commitments: commitments.New(),
	}
	f.engine = New(db, cfg, pool, f.commitments, f.events)
	return f
}

func acc(b ...byte) thor.AccountID {
	return thor.BytesToAccountID(b)
}

// userLP is the TAO side of the user liquidity position opened by populate.
const userLP = 50

type staker struct {
	hot, cold thor.AccountID
	alpha     uint64
	tao       uint64
}

// populate registers netuid with neurons, stakers and data in every collection
// the teardown touches.
func (f *fixture) populate(t *testing.T, netuid thor.NetUID, neurons uint16, mechanisms uint8, stakers []staker) {
	r := f.reg
	owner := acc(0xee, byte(netuid))
	require.NoError(t, r.RegisterNetwork(netuid, owner, 1, mechanisms))
	for uid := range neurons {
		hot := acc(0xaa, byte(netuid), byte(uid))
		require.NoError(t, r.RegisterNeuron(netuid, uid, hot, 2))
		for m := range mechanisms {
			row := []subnet.WeightEntry{{Dest: uid, Weight: 100}}
			require.NoError(t, r.SetWeights(netuid, thor.MechanismID(m), uid, row))
		}
		require.NoError(t, r.SetChildKeys(hot, netuid, []thor.AccountID{acc(0xcc, byte(uid))}, 10))
	}
	for _, s := range stakers {
		require.NoError(t, r.AddStake(s.hot, s.cold, netuid, s.alpha, s.tao))
	}
	require.NoError(t, r.AddPendingRootDividends(netuid, 7))
	require.NoError(t, r.Lease(netuid, subnet.LeaseID(netuid), subnet.Lease{Beneficiary: owner, NetUID: netuid},
		map[thor.AccountID]uint64{acc(0xdd, 1): 1, acc(0xdd, 2): 2}))
	require.NoError(t, f.commitments.Commit(f.db, netuid, owner, 3, []byte("commit")))

	lp := swap.Position{Owner: acc(0xbb, byte(netuid)), TAO: userLP, Alpha: userLP}
	require.NoError(t, f.pool.AddLiquidity(f.db, netuid, 1, lp))
	require.NoError(t, f.pool.AddLiquidity(f.db, netuid, 2, swap.Position{TAO: 70, Alpha: 70, Protocol: true}))
}

func stakersOf(netuid thor.NetUID, alphas ...uint64) []staker {
	out := make([]staker, 0, len(alphas))
	for i, a := range alphas {
		out = append(out, staker{
			hot:   acc(0x10, byte(netuid), byte(i)),
			cold:  acc(0x20, byte(netuid), byte(i)),
			alpha: a,
			tao:   a,
		})
	}
	return out
}

func (f *fixture) balance(t *testing.T, a thor.AccountID) uint64 {
	bal, err := f.reg.Balance(a)
	require.NoError(t, err)
	return bal
}

func (f *fixture) issuance(t *testing.T) uint64 {
	v, err := f.reg.TotalIssuance()
	require.NoError(t, err)
	return v
}

// advanceAll runs Advance with budget until the teardown completes, returning
// every result.
func (f *fixture) advanceAll(t *testing.T, netuid thor.NetUID, budget uint64) []ChunkResult {
	var results []ChunkResult
	for range 100_000 {
		res, err := f.engine.Advance(netuid, budget)
		require.NoError(t, err)
		results = append(results, res)
		if res.IsComplete() {
			return results
		}
	}
	t.Fatalf("teardown of %v did not complete", netuid)
	return nil
}

// dump returns every key/value of the store.
func dump(t *testing.T, db kv.Store) map[string]string {
	it := db.Iterate(kv.Range{})
	defer it.Release()
	out := make(map[string]string)
	for it.Next() {
		out[string(it.Key())] = string(it.Value())
	}
	require.NoError(t, it.Error())
	return out
}

func countPrefix(t *testing.T, db kv.Store, bucket kv.Bucket, prefix []byte) int {
	keys, _, err := kv.Collect(bucket.NewIterable(db), kv.PrefixRange(prefix), 0)
	require.NoError(t, err)
	return len(keys)
}
