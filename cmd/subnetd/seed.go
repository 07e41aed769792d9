// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/subnetd/commitments"
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/swap"
	"github.com/vechain/subnetd/thor"
)

// seedAccount derives a demo account from a role tag and an index.
func seedAccount(role byte, netuid thor.NetUID, i uint32) thor.AccountID {
	var b [7]byte
	b[0] = role
	binary.BigEndian.PutUint16(b[1:], uint16(netuid))
	binary.BigEndian.PutUint32(b[3:], i)
	return thor.BytesToAccountID(b[:])
}

type seedPlan struct {
	netuid     thor.NetUID
	block      uint64
	neurons    uint16
	stakers    uint32
	mechanisms uint8
}

func seedAction(ctx *cli.Context) error {
	initLogger(ctx)
	netuid, err := netuidOf(ctx)
	if err != nil {
		return err
	}
	if netuid.IsRoot() {
		return errors.New("cannot seed the root subnet")
	}
	plan := seedPlan{
		netuid:     netuid,
		block:      ctx.Uint64(blockFlag.Name),
		neurons:    uint16(min(ctx.Uint(neuronsFlag.Name), 1<<16-1)),
		stakers:    uint32(ctx.Uint(stakersFlag.Name)),
		mechanisms: uint8(min(max(ctx.Uint(mechanismsFlag.Name), 1), 255)),
	}

	store := openStore(ctx, makeDataDir(ctx))
	defer store.Close()

	if err := store.Update(func(rw kv.GetPutter) error { return seed(rw, plan) }); err != nil {
		return err
	}
	fmt.Printf("seeded subnet %v: %d neurons, %d stakers, %d mechanisms\n",
		plan.netuid, plan.neurons, plan.stakers, plan.mechanisms)
	return nil
}

func seed(rw kv.GetPutter, plan seedPlan) error {
	r := subnet.NewRegistry(rw)
	owner := seedAccount('o', plan.netuid, 0)
	if err := r.RegisterNetwork(plan.netuid, owner, plan.block, plan.mechanisms); err != nil {
		return err
	}

	for uid := range plan.neurons {
		hotkey := seedAccount('h', plan.netuid, uint32(uid))
		if err := r.RegisterNeuron(plan.netuid, uid, hotkey, plan.block); err != nil {
			return err
		}
		row := []subnet.WeightEntry{{Dest: uid, Weight: 1000}, {Dest: (uid + 1) % plan.neurons, Weight: 500}}
		for m := range plan.mechanisms {
			if err := r.SetWeights(plan.netuid, thor.MechanismID(m), uid, row); err != nil {
				return err
			}
		}
		if uid%4 == 0 && uid+1 < plan.neurons {
			child := seedAccount('h', plan.netuid, uint32(uid+1))
			if err := r.SetChildKeys(hotkey, plan.netuid, []thor.AccountID{child}, 100); err != nil {
				return err
			}
		}
	}

	for i := range plan.stakers {
		hotkey := seedAccount('h', plan.netuid, i%uint32(max(plan.neurons, 1)))
		coldkey := seedAccount('c', plan.netuid, i)
		alpha := 500 + uint64(i)*37
		if err := r.AddStake(hotkey, coldkey, plan.netuid, alpha, alpha/2+1); err != nil {
			return err
		}
	}

	// root validators point a share of their weight at the new subnet
	for uid := range min(plan.neurons, 8) {
		row, err := r.RootWeightRow(uid)
		if err != nil {
			return err
		}
		row = append(row, subnet.WeightEntry{Dest: uint16(plan.netuid), Weight: 100 + uid})
		if err := r.SetRootWeights(uid, row); err != nil {
			return err
		}
	}
	if err := r.AddPendingRootDividends(plan.netuid, 1000); err != nil {
		return err
	}

	lease := subnet.LeaseID(plan.netuid)
	shares := map[thor.AccountID]uint64{
		seedAccount('l', plan.netuid, 0): 60,
		seedAccount('l', plan.netuid, 1): 40,
	}
	if err := r.Lease(plan.netuid, lease, subnet.Lease{
		Beneficiary:    owner,
		Coldkey:        owner,
		Hotkey:         seedAccount('h', plan.netuid, 0),
		EmissionsShare: 10,
		EndBlock:       plan.block + 100_000,
		NetUID:         plan.netuid,
	}, shares); err != nil {
		return err
	}

	pool := swap.New()
	for i := range uint32(4) {
		pos := swap.Position{Owner: seedAccount('p', plan.netuid, i), TAO: 1000 * uint64(i+1), Alpha: 900 * uint64(i+1)}
		if err := pool.AddLiquidity(rw, plan.netuid, swap.PositionID(i), pos); err != nil {
			return err
		}
	}
	if err := pool.AddLiquidity(rw, plan.netuid, 1<<32, swap.Position{TAO: 50_000, Alpha: 50_000, Protocol: true}); err != nil {
		return err
	}

	return commitments.New().Commit(rw, plan.netuid, owner, plan.block, []byte("demo commitment"))
}
