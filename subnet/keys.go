// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subnet

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/subnetd/cache"
	"github.com/vechain/subnetd/thor"
)

// Key is anything that can be laid out as a storage key.
type Key interface {
	Bytes() []byte
}

// hashedAccountLen is the length of a blake2_128concat encoded account.
const hashedAccountLen = thor.Blake2b128Length + thor.AccountIDLength

var accountKeys = func() *cache.LRU[thor.AccountID, []byte] {
	c, err := cache.NewLRU[thor.AccountID, []byte](4096)
	if err != nil {
		panic(err)
	}
	return c
}()

// AccountKeyStats reports the hit/miss counters of the hashed account key cache.
func AccountKeyStats() *cache.Stats {
	return accountKeys.Stats()
}

// hashedAccount returns blake2_128concat(a). The returned slice is shared and must not be modified.
func hashedAccount(a thor.AccountID) []byte {
	k, _ := accountKeys.GetOrLoad(a, func(a thor.AccountID) ([]byte, error) {
		return thor.Blake2b128Concat(a[:]), nil
	})
	return k
}

// Account keys a collection by a single account.
type Account thor.AccountID

func (a Account) Bytes() []byte { return hashedAccount(thor.AccountID(a)) }

// UID is a neuron's position inside a subnet.
type UID uint16

func (u UID) Bytes() []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(u))
	return b[:]
}

// LeaseID identifies a subnet lease.
type LeaseID uint32

func (l LeaseID) Bytes() []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(l))
	return b[:]
}

// Raw is a key used as-is.
type Raw []byte

func (r Raw) Bytes() []byte { return r }

// AccountNet keys a collection by (account, netuid). The netuid is the key suffix,
// so these collections can only be cleared for a subnet by a full scan.
type AccountNet struct {
	Account thor.AccountID
	NetUID  thor.NetUID
}

func (k AccountNet) Bytes() []byte {
	out := make([]byte, 0, hashedAccountLen+2)
	out = append(out, hashedAccount(k.Account)...)
	return append(out, k.NetUID.Bytes()...)
}

// StakeKey keys a staking position by (hotkey, coldkey, netuid).
type StakeKey struct {
	Hotkey  thor.AccountID
	Coldkey thor.AccountID
	NetUID  thor.NetUID
}

func (k StakeKey) Bytes() []byte {
	out := make([]byte, 0, 2*hashedAccountLen+2)
	out = append(out, hashedAccount(k.Hotkey)...)
	out = append(out, hashedAccount(k.Coldkey)...)
	return append(out, k.NetUID.Bytes()...)
}

// DecodeStakeKey recovers a StakeKey from its storage layout.
func DecodeStakeKey(b []byte) (StakeKey, error) {
	if len(b) != 2*hashedAccountLen+2 {
		return StakeKey{}, errors.Errorf("invalid stake key length %d", len(b))
	}
	var k StakeKey
	copy(k.Hotkey[:], b[thor.Blake2b128Length:hashedAccountLen])
	copy(k.Coldkey[:], b[hashedAccountLen+thor.Blake2b128Length:2*hashedAccountLen])
	k.NetUID = NetUIDSuffix(b)
	return k, nil
}

// NetUIDSuffix returns the netuid stored in the last two bytes of a key.
func NetUIDSuffix(b []byte) thor.NetUID {
	if len(b) < 2 {
		return thor.NetUID(0xffff)
	}
	return thor.NetUID(binary.BigEndian.Uint16(b[len(b)-2:]))
}
