// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/abidb/abi"
)

// Block is the indexing progress of an event.
type Block struct {
	Indexed   uint64
	Finalized uint64
}

// EventBlock updates the progress of an event.
type EventBlock struct {
	Event string
	Block Block
}

// Log is a decoded event log. Fields must match the prepared event's inputs.
type Log struct {
	Event            string
	BlockNumber      uint64
	LogIndex         uint64
	TransactionIndex uint64
	Address          common.Address
	Fields           []abi.Value
}

// Uncle marks block Number as no longer canonical for Event.
type Uncle struct {
	Event  string
	Number uint64
}
