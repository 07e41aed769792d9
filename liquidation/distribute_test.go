// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/subnetd/thor"
)

func TestShare(t *testing.T) {
	total := uint256.NewInt(600)
	assert.Equal(t, uint64(100), Share(601, 100, total))
	assert.Equal(t, uint64(200), Share(601, 200, total))
	assert.Equal(t, uint64(300), Share(601, 300, total))

	assert.Zero(t, Share(0, 100, total))
	assert.Zero(t, Share(601, 0, total))
	assert.Zero(t, Share(601, 100, new(uint256.Int)))
	assert.Zero(t, Share(601, 100, nil))

	// pot * alpha overflows 64 bits
	assert.Equal(t, uint64(math.MaxUint64), Share(math.MaxUint64, math.MaxUint64, uint256.NewInt(math.MaxUint64)))
	assert.Equal(t, uint64(math.MaxUint64/2), Share(math.MaxUint64, 1<<62, uint256.NewInt(1<<63)))
}

func TestDistributionScenario(t *testing.T) {
	f := newFixture(t, testConfig())
	stakers := stakersOf(1, 100, 200, 300)
	stakers[2].tao = 301
	f.populate(t, 1, 2, 1, stakers)
	minted := f.issuance(t)

	state, err := f.engine.Start(1, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(601), state.TaoPot)
	require.Equal(t, uint64(600), state.TotalAlphaValue.Uint64())

	_, err = f.engine.ForceComplete(1)
	require.NoError(t, err)

	for i, want := range []uint64{100, 200, 300} {
		assert.Equal(t, want, f.balance(t, stakers[i].cold))
		stake, err := f.reg.Stake(stakers[i].hot, stakers[i].cold, 1)
		require.NoError(t, err)
		assert.Zero(t, stake)
	}
	dust := f.events.Filter(EventDistributionDust)
	require.Len(t, dust, 1)
	assert.Equal(t, uint64(1), dust[0].Amount)
	assert.Equal(t, minted-1, f.issuance(t))
}

func TestConservationDegenerateSnapshots(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f := newFixture(t, testConfig())
		f.populate(t, 1, 1, 1, nil)
		require.NoError(t, f.reg.AddSubnetTAO(1, 500))
		require.NoError(t, f.reg.Mint(500))
		require.NoError(t, f.reg.AddTotalStake(500))

		state, err := f.engine.Start(1, 1)
		require.NoError(t, err)
		assert.Zero(t, state.SnapshotCount)

		res, err := f.engine.RunPhase(1, Phase{Tag: DistributeAlpha}, Unlimited)
		require.NoError(t, err)
		assert.True(t, res.IsComplete())

		after, _, err := f.engine.RunState(1)
		require.NoError(t, err)
		assert.Equal(t, after.TaoPot, after.TaoDistributed)
		assert.Equal(t, uint64(userLP), f.issuance(t), "the whole pot is burned")

		dust := f.events.Filter(EventDistributionDust)
		require.Len(t, dust, 1)
		assert.Equal(t, uint64(500), dust[0].Amount)
	})
	t.Run("single", func(t *testing.T) {
		f := newFixture(t, testConfig())
		stakers := stakersOf(1, 3000)
		stakers[0].tao = 777
		f.populate(t, 1, 1, 1, stakers)

		_, err := f.engine.Start(1, 1)
		require.NoError(t, err)
		_, err = f.engine.ForceComplete(1)
		require.NoError(t, err)

		assert.Equal(t, uint64(777), f.balance(t, stakers[0].cold))
		assert.Empty(t, f.events.Filter(EventDistributionDust))
		assert.Equal(t, uint64(777+userLP), f.issuance(t))
	})
}

func TestNoDoublePayment(t *testing.T) {
	cfg := testConfig()
	f := newFixture(t, cfg)
	stakers := stakersOf(1, 10, 20, 30, 40, 50)
	f.populate(t, 1, 1, 1, stakers)
	_, err := f.engine.Start(1, 1)
	require.NoError(t, err)

	res, err := f.engine.RunPhase(1, Phase{Tag: DistributeAlpha}, 2*cfg.DistributionEntryCost)
	require.NoError(t, err)
	require.Equal(t, Phase{Tag: DistributeAlpha, CursorIdx: 2}, *res.Next)
	paid := make(map[thor.AccountID]uint64)
	for _, s := range stakers {
		paid[s.cold] = f.balance(t, s.cold)
	}

	// replaying the same chunk finds the entries gone
	_, err = f.engine.RunPhase(1, Phase{Tag: DistributeAlpha}, 2*cfg.DistributionEntryCost)
	require.NoError(t, err)
	for _, s := range stakers {
		assert.Equal(t, paid[s.cold], f.balance(t, s.cold))
	}

	res, err = f.engine.RunPhase(1, *res.Next, Unlimited)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())

	state, _, err := f.engine.RunState(1)
	require.NoError(t, err)
	var total uint64
	for _, s := range stakers {
		total += f.balance(t, s.cold)
		stake, err := f.reg.Stake(s.hot, s.cold, 1)
		require.NoError(t, err)
		assert.Zero(t, stake)
	}
	assert.Equal(t, state.TaoPot, total)
	assert.Equal(t, state.TaoPot, state.TaoDistributed)
}

type resumeCase struct {
	Alphas  []uint32
	Taos    []uint16
	Budgets []uint32
}

func TestIdempotentResumption(t *testing.T) {
	cfg := testConfig()
	for seed := range int64(8) {
		var c resumeCase
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(1, 12).Fuzz(&c)

		stakers := make([]staker, len(c.Alphas))
		for i, a := range c.Alphas {
			stakers[i] = stakersOf(1, uint64(a)+1)[0]
			stakers[i].hot = acc(0x10, byte(i))
			stakers[i].cold = acc(0x20, byte(i))
			stakers[i].tao = uint64(c.Taos[i%len(c.Taos)])
		}

		whole := newFixture(t, cfg)
		whole.populate(t, 1, 6, 2, stakers)
		split := newFixture(t, cfg)
		split.populate(t, 1, 6, 2, stakers)
		for _, f := range []*fixture{whole, split} {
			_, err := f.engine.Start(1, 1)
			require.NoError(t, err)
		}

		whole.advanceAll(t, 1, Unlimited)
		for i := 0; ; i++ {
			res, err := split.engine.Advance(1, uint64(c.Budgets[i%len(c.Budgets)]))
			require.NoError(t, err)
			if res.IsComplete() {
				break
			}
			require.Less(t, i, 100_000)
		}

		if !assert.Equal(t, dump(t, whole.db), dump(t, split.db)) {
			t.Fatalf("seed %d diverged: %s", seed, spew.Sdump(c))
		}
		for _, s := range stakers {
			assert.Equal(t, whole.balance(t, s.cold), split.balance(t, s.cold))
		}
		assert.Equal(t, whole.issuance(t), split.issuance(t))
	}
}
