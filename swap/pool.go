// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package swap keeps the liquidity positions of each subnet's market.
package swap

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

var logger = log.WithContext("pkg", "swap")

// ErrPoolDisabled is returned by pools built with Disabled.
var ErrPoolDisabled = errors.New("swap pool disabled")

// Position is a liquidity position.
type Position struct {
	Owner    thor.AccountID
	TAO      uint64
	Alpha    uint64
	Protocol bool
}

// PoolState is the aggregate state of a subnet's pool.
type PoolState struct {
	Liquidity uint64
	PriceSqrt uint64
}

var (
	positions = subnet.NewPrefixMap[thor.NetUID, Position]("SwapPositions")
	pools     = subnet.NewMapping[thor.NetUID, PoolState]("SwapPoolState")
)

// PositionID identifies a position inside a subnet's pool.
type PositionID uint64

func (p PositionID) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(p))
}

// Pool is the market collaborator of the liquidation engine.
type Pool struct {
	disabled bool
}

func New() *Pool { return &Pool{} }

// Disabled returns a pool whose teardown operations always fail.
func Disabled() *Pool { return &Pool{disabled: true} }

// AddLiquidity opens a position in the pool of netuid. The TAO side of a user
// position is minted, like stake; protocol positions are backed by the subnet pool.
func (p *Pool) AddLiquidity(rw kv.GetPutter, netuid thor.NetUID, id PositionID, pos Position) error {
	ledger := subnet.NewLedger(rw)
	if err := ledger.EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	if has, err := positions.Has(rw, netuid, id); err != nil {
		return err
	} else if has {
		return errors.Errorf("position %d exists on netuid %v", id, netuid)
	}
	if err := positions.Set(rw, netuid, id, pos); err != nil {
		return err
	}
	if !pos.Protocol {
		if err := ledger.Mint(pos.TAO); err != nil {
			return err
		}
	}
	state, err := pools.Get(rw, netuid)
	if err != nil {
		return err
	}
	state.Liquidity = subnet.SaturatingAdd(state.Liquidity, pos.TAO)
	if state.PriceSqrt == 0 {
		state.PriceSqrt = 1
	}
	return pools.Set(rw, netuid, state)
}

// Positions returns every position of netuid.
func (p *Pool) Positions(src kv.Iterable, netuid thor.NetUID) ([]Position, error) {
	entries, _, err := positions.Scan(src, netuid, nil, 0)
	if err != nil {
		return nil, err
	}
	out := make([]Position, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}
	return out, nil
}

// DissolveAllLiquidityProviders closes every user position of netuid, refunding
// the TAO side to the owner.
func (p *Pool) DissolveAllLiquidityProviders(rw kv.GetPutter, netuid thor.NetUID) error {
	return p.remove(rw, netuid, false)
}

// ClearProtocolLiquidity removes the protocol owned positions and the pool itself.
// Protocol liquidity is backed by the subnet pool, which the teardown already accounts for.
func (p *Pool) ClearProtocolLiquidity(rw kv.GetPutter, netuid thor.NetUID) error {
	if err := p.remove(rw, netuid, true); err != nil {
		return err
	}
	return pools.Remove(rw, netuid)
}

func (p *Pool) remove(rw kv.GetPutter, netuid thor.NetUID, protocol bool) error {
	if p.disabled {
		return ErrPoolDisabled
	}
	entries, _, err := positions.Scan(rw, netuid, nil, 0)
	if err != nil {
		return err
	}
	ledger := subnet.NewLedger(rw)
	var (
		removed  int
		refunded uint64
	)
	for _, e := range entries {
		if e.Value.Protocol != protocol {
			continue
		}
		if !protocol {
			if err := ledger.Credit(e.Value.Owner, e.Value.TAO); err != nil {
				return err
			}
			refunded = subnet.SaturatingAdd(refunded, e.Value.TAO)
		}
		if err := positions.Remove(rw, netuid, subnet.Raw(e.Key)); err != nil {
			return err
		}
		removed++
	}
	logger.Debug("positions removed", "netuid", netuid, "protocol", protocol, "count", removed, "refunded", refunded)
	return nil
}
