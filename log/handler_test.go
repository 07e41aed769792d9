// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"terminal", "json", "logfmt"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	_, err := ParseFormat("yaml")
	assert.ErrorContains(t, err, `unknown log format "yaml"`)
	_, err = ParseFormat("")
	assert.Error(t, err)
}

func TestNewHandlerJSON(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	l := NewLogger(NewHandler(&buf, FormatJSON, &lvl, true))

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Info("phase complete", "netuid", 3, "pot", big.NewInt(601), "refund", uint256.NewInt(50))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "info", rec["lvl"])
	assert.Equal(t, "phase complete", rec["msg"])
	assert.Equal(t, "601", rec["pot"])
	assert.Equal(t, "50", rec["refund"])
	assert.Contains(t, rec, "t")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewHandlerLogfmt(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)
	l := NewLogger(NewHandler(&buf, FormatLogfmt, &lvl, false))

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("emergency finalize", "netuid", 9, "burned", big.NewInt(1200))
	out := buf.String()
	assert.Contains(t, out, "lvl=warn")
	assert.Contains(t, out, `msg="emergency finalize"`)
	assert.Contains(t, out, "burned=1200")
	assert.True(t, strings.HasPrefix(out, "t="))

	lvl.Set(LevelInfo)
	buf.Reset()
	l.Info("now shown")
	assert.Contains(t, buf.String(), "lvl=info")
}

func TestNewHandlerTerminal(t *testing.T) {
	var buf bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	l := NewLogger(NewHandler(&buf, FormatTerminal, &lvl, false))

	l.Info("started", "netuid", 2)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "INFO "))
	assert.Contains(t, out, "netuid=2")
}
