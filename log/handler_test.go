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

func TestBuiltinReplace(t *testing.T) {
	var nilBig *big.Int
	assert.Equal(t, "<nil>", builtinReplace(nil, slog.Any("v", nilBig), false).Value.String())
	assert.Equal(t, "12345678901234567890123", builtinReplace(nil, slog.Any("v", bigFromString("12345678901234567890123")), false).Value.String())
	assert.Equal(t, "42", builtinReplace(nil, slog.Any("v", uint256.NewInt(42)), false).Value.String())
	assert.Equal(t, "0x0102", builtinReplace(nil, slog.Any("v", []byte{1, 2}), true).Value.String())

	lvl := builtinReplace(nil, slog.Any(slog.LevelKey, slog.LevelWarn), false)
	assert.Equal(t, "lvl", lvl.Key)
}

func bigFromString(s string) *big.Int {
	v, _ := new(big.Int).SetString(s, 10)
	return v
}

func TestWithContextResolvesRootLazily(t *testing.T) {
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelInfo)
	SetDefault(JSONHandlerWithLevel(&buf, &level))
	t.Cleanup(func() { SetDefault(DiscardHandler()) })

	logger.Debug("hidden")
	logger.With("event", "Transfer").Info("created table", "table", "Transfer_0")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "created table", record["msg"])
	assert.Equal(t, "test", record["pkg"])
	assert.Equal(t, "Transfer", record["event"])
	assert.Equal(t, "Transfer_0", record["table"])
}

func TestTerminalHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelWarn)
	h := NewTerminalHandlerWithLevel(&buf, &level, false)

	SetDefault(h)
	t.Cleanup(func() { SetDefault(DiscardHandler()) })

	Info("quiet")
	assert.Empty(t, buf.String())
	Warn("loud", "k", 1)
	assert.Contains(t, buf.String(), "loud")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelTrace, FromLegacyLevel(LegacyLevelTrace))
	assert.Equal(t, LevelCrit, FromLegacyLevel(LegacyLevelCrit))
}
