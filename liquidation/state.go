// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"encoding/binary"
	"math/big"

	"github.com/vechain/subnetd/subnet"
	"github.com/vechain/subnetd/thor"
)

// RunState is recorded once when a teardown starts and read by the distribution phase.
type RunState struct {
	RunID              string
	StartedAt          uint64
	MaxCompletionBlock uint64
	TaoPot             uint64
	TotalAlphaValue    *big.Int
	SnapshotCount      uint32
	TaoDistributed     uint64
}

// Undistributed returns the part of the pot not paid out yet.
func (s *RunState) Undistributed() uint64 {
	return subnet.SaturatingSub(s.TaoPot, s.TaoDistributed)
}

// SnapshotEntry is a staking position frozen at the start of a teardown.
type SnapshotEntry struct {
	Hotkey  thor.AccountID
	Coldkey thor.AccountID
	Alpha   uint64
}

type snapshotIndex uint32

func (i snapshotIndex) Bytes() []byte {
	return binary.BigEndian.AppendUint32(nil, uint32(i))
}

var (
	phases    = subnet.NewMapping[thor.NetUID, Phase]("LiquidationPhase")
	runStates = subnet.NewMapping[thor.NetUID, RunState]("LiquidationRunState")
	snapshots = subnet.NewPrefixMap[thor.NetUID, SnapshotEntry]("LiquidationStakerSnapshot")
)
