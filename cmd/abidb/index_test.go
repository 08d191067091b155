// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/big"
	"path/filepath"
	"strings"
	"testing"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/abidb/abi"
	"github.com/vechain/abidb/logdb"
)

const transferABI = `[
	{"type":"event","name":"Transfer","inputs":[
		{"name":"from","type":"address"},
		{"name":"to","type":"address"},
		{"name":"value","type":"uint256"}
	]},
	{"type":"event","name":"Paused","inputs":[{"name":"by","type":"address","indexed":true}]}
]`

func transferLine(t *testing.T, block, index uint64, value int64) string {
	parsed, err := ethabi.JSON(strings.NewReader(transferABI))
	require.NoError(t, err)
	data, err := parsed.Events["Transfer"].Inputs.Pack(
		common.HexToAddress("0x01"),
		common.HexToAddress("0x02"),
		big.NewInt(value),
	)
	require.NoError(t, err)

	line, err := json.Marshal(&rawLog{
		Event:       "Transfer",
		BlockNumber: block,
		LogIndex:    index,
		Address:     common.HexToAddress("0xcafe"),
		Data:        data,
	})
	require.NoError(t, err)
	return string(line)
}

func newIndexTarget(t *testing.T) (*logdb.LogDB, *abi.ABI, string) {
	path := filepath.Join(t.TempDir(), "index.sqlite")
	db, err := logdb.New(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	contract, err := abi.New([]byte(transferABI))
	require.NoError(t, err)
	return db, contract, path
}

func countTransfers(t *testing.T, path string) int {
	conn, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer conn.Close()

	var n int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM Transfer_0").Scan(&n))
	return n
}

func TestIndex(t *testing.T) {
	db, contract, path := newIndexTarget(t)

	input := strings.Join([]string{
		transferLine(t, 3, 0, 10),
		"",
		transferLine(t, 3, 1, 11),
		transferLine(t, 7, 0, 12),
	}, "\n")

	ix := newIndexer(db, contract, 2)
	require.NoError(t, ix.run(context.Background(), strings.NewReader(input), 0))

	assert.Equal(t, uint64(3), ix.total)
	assert.Equal(t, []string{"Transfer"}, db.Events())
	block, err := db.EventBlock("Transfer")
	require.NoError(t, err)
	assert.Equal(t, logdb.Block{Indexed: 7, Finalized: 0}, block)
	assert.Equal(t, 3, countTransfers(t, path))
}

func TestIndexKeepsFinalized(t *testing.T) {
	db, contract, _ := newIndexTarget(t)

	ev, _ := contract.EventByName("Transfer")
	require.NoError(t, db.PrepareEvent("Transfer", ev))
	require.NoError(t, db.Update([]logdb.EventBlock{{Event: "Transfer", Block: logdb.Block{Indexed: 2, Finalized: 2}}}, nil))

	ix := newIndexer(db, contract, 100)
	require.NoError(t, ix.run(context.Background(), strings.NewReader(transferLine(t, 5, 0, 1)), 0))

	block, err := db.EventBlock("Transfer")
	require.NoError(t, err)
	assert.Equal(t, logdb.Block{Indexed: 5, Finalized: 2}, block)
}

func TestIndexErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"unknown event", `{"event":"Approval","blockNumber":1,"data":"0x"}`},
		{"indexed input", `{"event":"Paused","blockNumber":1,"data":"0x"}`},
		{"bad data", `{"event":"Transfer","blockNumber":1,"data":"0x00"}`},
		{"bad json", `{"event":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, contract, _ := newIndexTarget(t)

			input := transferLine(t, 1, 0, 1) + "\n" + tt.line + "\n" + transferLine(t, 2, 0, 1)
			ix := newIndexer(db, contract, 1)
			assert.Error(t, ix.run(context.Background(), strings.NewReader(input), 0))

			// the first batch was committed before the failing line
			block, err := db.EventBlock("Transfer")
			require.NoError(t, err)
			assert.Equal(t, uint64(1), block.Indexed)
		})
	}
}

func TestIndexCanceled(t *testing.T) {
	db, contract, _ := newIndexTarget(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var lines []string
	for i := range 5000 {
		lines = append(lines, transferLine(t, uint64(i+1), 0, 1))
	}
	ix := newIndexer(db, contract, 10000)
	err := ix.run(ctx, strings.NewReader(strings.Join(lines, "\n")), 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, db.Events())
}
