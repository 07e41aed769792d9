// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// AccountIDLength length of account id in bytes.
const AccountIDLength = 32

// AccountID identifies a participant (hotkey or coldkey).
type AccountID [AccountIDLength]byte

var (
	_ json.Marshaler   = (*AccountID)(nil)
	_ json.Unmarshaler = (*AccountID)(nil)
)

// String implements stringer.
func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// AbbrevString returns abbrev string presentation.
func (a AccountID) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", a[:4], a[28:])
}

// Bytes returns byte slice form of the account id.
func (a AccountID) Bytes() []byte {
	return a[:]
}

// IsZero returns if the account id has all zero bytes.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// MarshalJSON implements json.Marshaler.
func (a *AccountID) MarshalJSON() ([]byte, error) {
	if a == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *AccountID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAccountID(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAccountID converts a 0x-prefixed hex string into AccountID.
func ParseAccountID(s string) (AccountID, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return AccountID{}, errors.Wrap(err, "decode account id")
	}
	if len(b) != AccountIDLength {
		return AccountID{}, errors.Errorf("invalid account id length %d", len(b))
	}
	var a AccountID
	copy(a[:], b)
	return a, nil
}

// BytesToAccountID converts bytes slice into account id.
// If b is larger than the id length, b will be cropped (from the left).
// If b is smaller than the id length, b will be extended (from the left).
func BytesToAccountID(b []byte) AccountID {
	if len(b) > AccountIDLength {
		b = b[len(b)-AccountIDLength:]
	}
	var a AccountID
	copy(a[AccountIDLength-len(b):], b)
	return a
}
