// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/abidb/abi"
)

// tableValues holds the cells of one table for a single log. count is the number of
// array elements, so an array table has count rows of len(cells)/count cells.
type tableValues struct {
	count int
	cells []any
}

// encodeLog converts the log into the insert arguments of each table of the event, one
// slice of arguments per row.
func encodeLog(pe *preparedEvent, log *Log) ([][][]any, error) {
	inputs := pe.descriptor.Inputs
	if len(log.Fields) != len(inputs) {
		return nil, errors.WithMessagef(ErrValueMismatch, "log has %d fields but event has %d", len(log.Fields), len(inputs))
	}
	for i, f := range log.Fields {
		if err := abi.CheckValue(inputs[i].Kind, f); err != nil {
			return nil, errors.WithMessagef(ErrValueMismatch, "field %d: %v", i, err)
		}
	}

	fixed, err := fixedValues(log)
	if err != nil {
		return nil, err
	}

	values := []tableValues{{count: 1}}
	current := 0
	var cellErr error
	for _, f := range log.Fields {
		abi.VisitValue(f, func(v abi.Visit[abi.Value]) {
			switch v.Step {
			case abi.Leaf:
				cell, err := encodeCell(v.Node)
				if err != nil && cellErr == nil {
					cellErr = err
				}
				values[current].cells = append(values[current].cells, cell)
			case abi.ArrayStart:
				values = append(values, tableValues{count: v.Len})
				current = len(values) - 1
			case abi.ArrayEnd:
				current = 0
			}
		})
	}
	if cellErr != nil {
		return nil, cellErr
	}
	if len(values) != len(pe.inserts) {
		panic(fmt.Sprintf("logdb: %s values map to %d tables instead of %d", pe.name, len(values), len(pe.inserts)))
	}

	rows := make([][][]any, len(values))
	for i, tv := range values {
		fields := pe.inserts[i].fields
		if len(tv.cells) != fields*tv.count {
			panic(fmt.Sprintf("logdb: %s table %d got %d cells for %d rows of %d fields", pe.name, i, len(tv.cells), tv.count, fields))
		}
		rows[i] = make([][]any, 0, tv.count)
		for j := 0; j < tv.count; j++ {
			args := make([]any, 0, len(fixed)+1+fields)
			args = append(args, fixed...)
			if i != 0 {
				args = append(args, int64(j))
			}
			args = append(args, tv.cells[j*fields:(j+1)*fields]...)
			rows[i] = append(rows[i], args)
		}
	}
	return rows, nil
}

func fixedValues(log *Log) ([]any, error) {
	blockNumber, err := toInt64(log.BlockNumber, "block number")
	if err != nil {
		return nil, err
	}
	logIndex, err := toInt64(log.LogIndex, "log index")
	if err != nil {
		return nil, err
	}
	txIndex, err := toInt64(log.TransactionIndex, "transaction index")
	if err != nil {
		return nil, err
	}
	return []any{blockNumber, logIndex, txIndex, log.Address.Bytes()}, nil
}

func toInt64(v uint64, what string) (int64, error) {
	if v > math.MaxInt64 {
		return 0, errors.WithMessagef(ErrRange, "%s %d", what, v)
	}
	return int64(v), nil
}

// encodeCell converts a leaf value into its column value. Integers are stored as 32 bytes
// big endian two's complement.
func encodeCell(v abi.Value) (any, error) {
	switch v := v.(type) {
	case abi.IntValue:
		if v.V == nil || !abi.IntFits(v.Bits, v.V) {
			return nil, errors.WithMessagef(ErrValueMismatch, "%v doesn't fit int%d", v.V, v.Bits)
		}
		return intCell(v.V), nil
	case abi.UintValue:
		if v.V == nil || !abi.UintFits(v.Bits, v.V) {
			return nil, errors.WithMessagef(ErrValueMismatch, "%v doesn't fit uint%d", v.V, v.Bits)
		}
		return intCell(v.V), nil
	case abi.AddressValue:
		return common.Address(v).Bytes(), nil
	case abi.BoolValue:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case abi.FixedBytesValue:
		return nonNil(v), nil
	case abi.FunctionValue:
		cell := make([]byte, 0, common.AddressLength+len(v.Selector))
		cell = append(cell, v.Address.Bytes()...)
		return append(cell, v.Selector[:]...), nil
	case abi.BytesValue:
		return nonNil(v), nil
	case abi.StringValue:
		// bound as bytes, text can't be stored in a strict BLOB column
		return append([]byte{}, string(v)...), nil
	case abi.TupleValue, abi.FixedArrayValue, abi.ArrayValue:
		panic(fmt.Sprintf("logdb: %s is not a leaf value", v.Kind()))
	default:
		panic(fmt.Sprintf("logdb: unknown value %T", v))
	}
}

// intCell expects x to fit in 256 bits, signed or not.
func intCell(x *big.Int) []byte {
	var u uint256.Int
	u.SetFromBig(x)
	cell := u.Bytes32()
	return cell[:]
}

// nonNil keeps empty byte slices empty, sqlite binds a nil slice as NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
