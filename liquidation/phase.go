// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package liquidation

import (
	"cmp"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// Tag names a teardown phase. Tags are declared in execution order.
type Tag uint8

const (
	ClearHyperparameters Tag = iota
	ClearNeuronData
	ClearRootWeights
	FinalizeRootDividends
	DistributeAlpha
	DissolveUserLiquidity
	ClearProtocolLiquidity
	ClearMatrices
	ClearTwoKeyMaps
	FinalCleanup
	Done
)

var tagNames = [...]string{
	ClearHyperparameters:   "ClearHyperparameters",
	ClearNeuronData:        "ClearNeuronData",
	ClearRootWeights:       "ClearRootWeights",
	FinalizeRootDividends:  "FinalizeRootDividends",
	DistributeAlpha:        "DistributeAlpha",
	DissolveUserLiquidity:  "DissolveUserLiquidity",
	ClearProtocolLiquidity: "ClearProtocolLiquidity",
	ClearMatrices:          "ClearMatrices",
	ClearTwoKeyMaps:        "ClearTwoKeyMaps",
	FinalCleanup:           "FinalCleanup",
	Done:                   "Done",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// Phase is the persisted progress of a teardown. Only the fields relevant to
// Tag are meaningful, the others stay zero.
type Phase struct {
	Tag       Tag
	MapIndex  uint8  // ClearNeuronData, ClearMatrices, ClearTwoKeyMaps
	Mechanism uint8  // ClearMatrices
	UIDCursor uint16 // ClearRootWeights
	CursorIdx uint32 // DistributeAlpha
	Cursor    []byte // resume token of a partial prefix scan, empty when none
}

type phaseRLP Phase

// DecodeRLP implements rlp.Decoder. An empty cursor decodes to nil.
func (p *Phase) DecodeRLP(s *rlp.Stream) error {
	var raw phaseRLP
	if err := s.Decode(&raw); err != nil {
		return err
	}
	*p = Phase(raw)
	if len(p.Cursor) == 0 {
		p.Cursor = nil
	}
	return nil
}

// Start is the phase every teardown begins with.
func Start() Phase { return Phase{Tag: ClearHyperparameters} }

// Next returns the phase following p with its sub-indices reset.
func (p Phase) Next() Phase {
	if p.Tag >= Done {
		return Phase{Tag: Done}
	}
	return Phase{Tag: p.Tag + 1}
}

// Compare orders phases by (Tag, Mechanism, MapIndex).
func (p Phase) Compare(o Phase) int {
	switch {
	case p.Tag != o.Tag:
		return cmp.Compare(p.Tag, o.Tag)
	case p.Mechanism != o.Mechanism:
		return cmp.Compare(p.Mechanism, o.Mechanism)
	default:
		return cmp.Compare(p.MapIndex, o.MapIndex)
	}
}

func (p Phase) String() string {
	switch p.Tag {
	case ClearNeuronData, ClearTwoKeyMaps:
		return fmt.Sprintf("%v{map=%d cursor=%x}", p.Tag, p.MapIndex, p.Cursor)
	case ClearRootWeights:
		return fmt.Sprintf("%v{uid=%d}", p.Tag, p.UIDCursor)
	case DistributeAlpha:
		return fmt.Sprintf("%v{idx=%d}", p.Tag, p.CursorIdx)
	case ClearMatrices:
		return fmt.Sprintf("%v{mechanism=%d map=%d cursor=%x}", p.Tag, p.Mechanism, p.MapIndex, p.Cursor)
	}
	return p.Tag.String()
}

// ChunkResult is the outcome of one bounded unit of work.
type ChunkResult struct {
	Cost uint64
	// Next is the phase to resume from, nil when the work is complete.
	Next *Phase
}

// Complete reports a finished unit of work.
func Complete(cost uint64) ChunkResult {
	return ChunkResult{Cost: cost}
}

// Incomplete reports work that must resume from next.
func Incomplete(cost uint64, next Phase) ChunkResult {
	return ChunkResult{Cost: cost, Next: &next}
}

// IsComplete reports whether r carries no resume phase.
func (r ChunkResult) IsComplete() bool { return r.Next == nil }

func (r ChunkResult) String() string {
	if r.IsComplete() {
		return fmt.Sprintf("Complete(%d)", r.Cost)
	}
	return fmt.Sprintf("Incomplete(%d, %v)", r.Cost, *r.Next)
}
