// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subnet

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/thor"
)

var logger = log.WithContext("pkg", "subnet")

// SetLogger replaces the package logger.
func SetLogger(l log.Logger) { logger = l }

// ErrSubnetLiquidating is returned by writes to a subnet being torn down.
var ErrSubnetLiquidating = errors.New("subnet is being liquidated")

// SaturatingAdd returns a+b, clamped at the maximum uint64.
func SaturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return ^uint64(0)
	}
	return sum
}

// SaturatingSub returns a-b, clamped at zero.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Ledger is the network-wide accounting context. Every mutation of a global
// counter goes through it and saturates instead of wrapping.
type Ledger struct {
	rw kv.GetPutter
}

// NewLedger creates a ledger over rw. rw is usually a transaction.
func NewLedger(rw kv.GetPutter) *Ledger {
	return &Ledger{rw: rw}
}

// Store returns the underlying storage.
func (l *Ledger) Store() kv.GetPutter { return l.rw }

func (l *Ledger) TotalIssuance() (uint64, error) { return TotalIssuance.Get(l.rw) }

func (l *Ledger) TotalStake() (uint64, error) { return TotalStake.Get(l.rw) }

func (l *Ledger) TotalNetworks() (uint16, error) { return TotalNetworks.Get(l.rw) }

// Mint increases the total issuance.
func (l *Ledger) Mint(amount uint64) error {
	total, err := TotalIssuance.Get(l.rw)
	if err != nil {
		return err
	}
	return TotalIssuance.Set(l.rw, SaturatingAdd(total, amount))
}

// Burn destroys amount from the total issuance.
func (l *Ledger) Burn(amount uint64) error {
	total, err := TotalIssuance.Get(l.rw)
	if err != nil {
		return err
	}
	if amount > total {
		logger.Warn("burn exceeds issuance", "amount", amount, "issuance", total)
	}
	return TotalIssuance.Set(l.rw, SaturatingSub(total, amount))
}

// AddTotalStake increases the total stake by amount.
func (l *Ledger) AddTotalStake(amount uint64) error {
	total, err := TotalStake.Get(l.rw)
	if err != nil {
		return err
	}
	return TotalStake.Set(l.rw, SaturatingAdd(total, amount))
}

// SubTotalStake decreases the total stake by amount.
func (l *Ledger) SubTotalStake(amount uint64) error {
	total, err := TotalStake.Get(l.rw)
	if err != nil {
		return err
	}
	return TotalStake.Set(l.rw, SaturatingSub(total, amount))
}

// IncTotalNetworks increments the subnet count.
func (l *Ledger) IncTotalNetworks() error {
	n, err := TotalNetworks.Get(l.rw)
	if err != nil {
		return err
	}
	if n < ^uint16(0) {
		n++
	}
	return TotalNetworks.Set(l.rw, n)
}

// DecTotalNetworks decrements the subnet count.
func (l *Ledger) DecTotalNetworks() error {
	n, err := TotalNetworks.Get(l.rw)
	if err != nil {
		return err
	}
	if n > 0 {
		n--
	}
	return TotalNetworks.Set(l.rw, n)
}

func (l *Ledger) Balance(acc thor.AccountID) (uint64, error) {
	return Balances.Get(l.rw, Account(acc))
}

// Credit adds amount to the free balance of acc.
func (l *Ledger) Credit(acc thor.AccountID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	bal, err := Balances.Get(l.rw, Account(acc))
	if err != nil {
		return err
	}
	return Balances.Set(l.rw, Account(acc), SaturatingAdd(bal, amount))
}

func (l *Ledger) SubnetTAO(netuid thor.NetUID) (uint64, error) {
	return SubnetTAO.Get(l.rw, netuid)
}

// AddSubnetTAO adds amount to the collateral pool of netuid.
func (l *Ledger) AddSubnetTAO(netuid thor.NetUID, amount uint64) error {
	tao, err := SubnetTAO.Get(l.rw, netuid)
	if err != nil {
		return err
	}
	return SubnetTAO.Set(l.rw, netuid, SaturatingAdd(tao, amount))
}

// SettleRootDividends moves the pending root dividends accrued for netuid into the
// root network's pool. It returns the settled amount.
func (l *Ledger) SettleRootDividends(netuid thor.NetUID) (uint64, error) {
	pending, ok, err := PendingRootDivs.Take(l.rw, netuid)
	if err != nil || !ok || pending == 0 {
		return 0, err
	}
	if err := l.AddSubnetTAO(thor.RootNetUID, pending); err != nil {
		return 0, err
	}
	logger.Debug("root dividends settled", "netuid", netuid, "amount", pending)
	return pending, nil
}

// SubnetExists reports whether netuid is a registered subnet.
func (l *Ledger) SubnetExists(netuid thor.NetUID) (bool, error) {
	return NetworksAdded.Get(l.rw, netuid)
}

// IsLiquidating reports whether netuid is being torn down.
func (l *Ledger) IsLiquidating(netuid thor.NetUID) (bool, error) {
	return SubnetLiquidating.Has(l.rw, netuid)
}

// MarkLiquidating freezes netuid at block. Registry writes to it fail until
// UnmarkLiquidating is called.
func (l *Ledger) MarkLiquidating(netuid thor.NetUID, block uint64) error {
	return SubnetLiquidating.Set(l.rw, netuid, block)
}

func (l *Ledger) UnmarkLiquidating(netuid thor.NetUID) error {
	return SubnetLiquidating.Remove(l.rw, netuid)
}

// EnsureNotLiquidating fails with ErrSubnetLiquidating if netuid is being torn down.
func (l *Ledger) EnsureNotLiquidating(netuid thor.NetUID) error {
	frozen, err := l.IsLiquidating(netuid)
	if err != nil {
		return err
	}
	if frozen {
		return errors.Wrapf(ErrSubnetLiquidating, "netuid %v", netuid)
	}
	return nil
}
