// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package commitments stores data commitments published by neurons.
package commitments

import (
	"github.com/vechain/subnetd/kv"
	"github.com/vechain/subnetd/log"
	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

var logger = log.WithContext("pkg", "commitments")

// Commitment is the latest commitment of an account on a subnet.
type Commitment struct {
	Block uint64
	Data  []byte
}

var (
	commitmentOf   = subnet.NewPrefixMap[thor.NetUID, Commitment]("CommitmentOf")
	lastCommitment = subnet.NewPrefixMap[thor.NetUID, uint64]("LastCommitment")
)

// Store is the commitments collaborator of the liquidation engine.
type Store struct{}

func New() *Store { return &Store{} }

// Commit records data as the commitment of who on netuid.
func (s *Store) Commit(rw kv.GetPutter, netuid thor.NetUID, who thor.AccountID, block uint64, data []byte) error {
	if err := subnet.NewLedger(rw).EnsureNotLiquidating(netuid); err != nil {
		return err
	}
	if err := commitmentOf.Set(rw, netuid, subnet.Account(who), Commitment{Block: block, Data: data}); err != nil {
		return err
	}
	return lastCommitment.Set(rw, netuid, subnet.Account(who), block)
}

// Get returns the commitment of who on netuid.
func (s *Store) Get(g kv.Getter, netuid thor.NetUID, who thor.AccountID) (Commitment, bool, error) {
	return commitmentOf.Lookup(g, netuid, subnet.Account(who))
}

// PurgeNetuid removes every commitment of netuid.
func (s *Store) PurgeNetuid(rw kv.GetPutter, netuid thor.NetUID) error {
	var total int
	for _, m := range []interface {
		Bucket() kv.Bucket
	}{commitmentOf, lastCommitment} {
		bucket := m.Bucket()
		keys, _, err := kv.Collect(bucket.NewIterable(rw), kv.PrefixRange(netuid.Bytes()), 0)
		if err != nil {
			return err
		}
		putter := bucket.NewPutter(rw)
		for _, k := range keys {
			if err := putter.Delete(k); err != nil {
				return err
			}
		}
		total += len(keys)
	}
	logger.Debug("commitments purged", "netuid", netuid, "count", total)
	return nil
}
