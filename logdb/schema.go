// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/abidb/abi"
)

// control tables, shared by every event.
const (
	eventBlockTableSchema = `CREATE TABLE IF NOT EXISTS event_block(
	event TEXT PRIMARY KEY NOT NULL,
	indexed INTEGER NOT NULL,
	finalized INTEGER NOT NULL
) STRICT;`

	eventSchemaTableSchema = `CREATE TABLE IF NOT EXISTS event_schema(
	event TEXT PRIMARY KEY NOT NULL,
	descriptor BLOB NOT NULL
) STRICT;`

	getEventBlock    = "SELECT indexed, finalized FROM event_block WHERE event = ?1;"
	newEventBlock    = "INSERT INTO event_block (event, indexed, finalized) VALUES(?1, 0, 0) ON CONFLICT(event) DO NOTHING;"
	setEventBlock    = "UPDATE event_block SET indexed = ?2, finalized = ?3 WHERE event = ?1;"
	setEventIndexed  = "UPDATE event_block SET indexed = ?2 WHERE event = ?1;"
	newEventSchema   = "INSERT INTO event_schema (event, descriptor) VALUES(?1, ?2) ON CONFLICT(event) DO NOTHING;"
	listEventSchemas = "SELECT event, descriptor FROM event_schema ORDER BY event;"
)

// columns present in every event table, followed by array_index in array tables.
const (
	fixedColumns      = "block_number INTEGER NOT NULL, log_index INTEGER NOT NULL, transaction_index INTEGER NOT NULL, address BLOB NOT NULL"
	fixedColumnsCount = 4
	arrayColumn       = "array_index INTEGER NOT NULL"
	primaryKey        = "block_number ASC, log_index ASC"
	primaryKeyArray   = "block_number ASC, log_index ASC, array_index ASC"
)

type columnType string

const (
	integerColumn columnType = "INTEGER"
	blobColumn    columnType = "BLOB"
)

// table is the column layout of one event table. Table 0 holds every value outside of dynamic
// arrays, one more table follows for each dynamic array in traversal order.
type table struct {
	columns []columnType
}

// eventToTables compiles an event descriptor into its table layout.
func eventToTables(event *abi.Event) ([]table, error) {
	if err := event.Validate(); err != nil {
		return nil, errors.WithMessage(ErrUnsupportedKind, err.Error())
	}
	for _, in := range event.Inputs {
		if arrayDepth(in.Kind) > 1 {
			return nil, errors.WithMessagef(ErrNestedDynamicArrays, "field %s", in.Name)
		}
	}

	tables := []table{{}}
	current := 0
	for _, in := range event.Inputs {
		abi.VisitKind(in.Kind, func(v abi.Visit[abi.Kind]) {
			switch v.Step {
			case abi.Leaf:
				tables[current].columns = append(tables[current].columns, columnTypeOf(v.Node))
			case abi.ArrayStart:
				tables = append(tables, table{})
				current = len(tables) - 1
			case abi.ArrayEnd:
				current = 0
			}
		})
	}
	return tables, nil
}

// arrayDepth returns the maximum number of dynamic arrays nested in k.
func arrayDepth(k abi.Kind) int {
	var depth, deepest int
	abi.VisitKind(k, func(v abi.Visit[abi.Kind]) {
		switch v.Step {
		case abi.ArrayStart:
			depth++
			deepest = max(deepest, depth)
		case abi.ArrayEnd:
			depth--
		}
	})
	return deepest
}

func columnTypeOf(k abi.Kind) columnType {
	switch k.(type) {
	case abi.Int, abi.Uint, abi.Address, abi.FixedBytes, abi.Function, abi.Bytes, abi.String:
		return blobColumn
	case abi.Bool:
		return integerColumn
	case abi.Tuple, abi.FixedArray, abi.Array:
		panic(fmt.Sprintf("logdb: %s is not a leaf kind", k))
	default:
		panic(fmt.Sprintf("logdb: unknown kind %T", k))
	}
}
