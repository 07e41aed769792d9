// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/binary"
	"strconv"
)

// NetUID is the subnet identifier.
type NetUID uint16

// RootNetUID is the root network. It is never torn down.
const RootNetUID NetUID = 0

// GlobalMaxSubnetCount bounds the number of subnets, and is the stride used to
// derive per-mechanism storage indexes.
const GlobalMaxSubnetCount = 4096

// MechanismID identifies a mechanism inside a subnet.
type MechanismID uint8

// StorageIndex addresses mechanism-scoped collections. Mechanism 0 shares the
// netuid value.
type StorageIndex uint16

// IsRoot returns whether n is the root network.
func (n NetUID) IsRoot() bool {
	return n == RootNetUID
}

// Bytes returns the big-endian key form.
func (n NetUID) Bytes() []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(n))
	return b[:]
}

func (n NetUID) String() string {
	return strconv.FormatUint(uint64(n), 10)
}

// StorageIndexOf returns the storage index of mechanism m of subnet n.
func StorageIndexOf(n NetUID, m MechanismID) StorageIndex {
	return StorageIndex(uint32(m)*GlobalMaxSubnetCount + uint32(n))
}

// Bytes returns the big-endian key form.
func (i StorageIndex) Bytes() []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(i))
	return b[:]
}
