// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/abidb/abi"
)

// newEvent names inputs "field 0", "field 1", ...
func newEvent(kinds ...abi.Kind) *abi.Event {
	ev := &abi.Event{Name: "Test"}
	for i, k := range kinds {
		ev.Inputs = append(ev.Inputs, abi.EventField{Name: fmt.Sprintf("field %d", i), Kind: k})
	}
	return ev
}

func columns(types ...columnType) table {
	return table{columns: types}
}

const (
	B = blobColumn
	I = integerColumn
)

func TestEventToTablesSimple(t *testing.T) {
	tables, err := eventToTables(newEvent(abi.Bytes{}, abi.Bool{}))
	require.NoError(t, err)
	assert.Equal(t, []table{columns(B, I)}, tables)
}

func TestEventToTablesFlat(t *testing.T) {
	tables, err := eventToTables(newEvent(
		abi.Bool{},
		abi.Tuple{Elems: []abi.Kind{abi.Bytes{}, abi.Bool{}}},
		abi.Bool{},
		abi.FixedArray{Size: 2, Elem: abi.Bytes{}},
		abi.Bool{},
		abi.Tuple{Elems: []abi.Kind{abi.Tuple{Elems: []abi.Kind{abi.FixedArray{Size: 2, Elem: abi.Bytes{}}}}}},
		abi.Bool{},
		abi.FixedArray{Size: 2, Elem: abi.FixedArray{Size: 2, Elem: abi.Bytes{}}},
	))
	require.NoError(t, err)
	assert.Equal(t, []table{columns(
		I,
		B, I,
		I,
		B, B,
		I,
		B, B,
		I,
		B, B, B, B,
	)}, tables)
	assert.Len(t, tables[0].columns, 14)
}

func TestEventToTablesArray(t *testing.T) {
	tables, err := eventToTables(newEvent(
		abi.Bool{},
		abi.Array{Elem: abi.Bytes{}},
		abi.Bool{},
		abi.Array{Elem: abi.Bool{}},
		abi.Bool{},
	))
	require.NoError(t, err)
	assert.Equal(t, []table{columns(I, I, I), columns(B), columns(I)}, tables)
}

func TestEventToTablesArrayOfTuples(t *testing.T) {
	tables, err := eventToTables(newEvent(
		abi.Array{Elem: abi.Tuple{Elems: []abi.Kind{abi.Bool{}, abi.String{}}}},
		abi.FixedArray{Size: 2, Elem: abi.Array{Elem: abi.Uint{Bits: 8}}},
	))
	require.NoError(t, err)
	// a fixed array of dynamic arrays gets one table per element
	assert.Equal(t, []table{columns(), columns(I, B), columns(B), columns(B)}, tables)
}

func TestEventToTablesLeafTypes(t *testing.T) {
	tables, err := eventToTables(newEvent(
		abi.Int{Bits: 8}, abi.Uint{Bits: 256}, abi.Address{}, abi.Bool{},
		abi.FixedBytes{Len: 1}, abi.Function{}, abi.Bytes{}, abi.String{},
	))
	require.NoError(t, err)
	assert.Equal(t, []table{columns(B, B, B, I, B, B, B, B)}, tables)
}

func TestEventToTablesNested(t *testing.T) {
	for _, k := range []abi.Kind{
		abi.Array{Elem: abi.Array{Elem: abi.Bool{}}},
		abi.Array{Elem: abi.Tuple{Elems: []abi.Kind{abi.Bool{}, abi.Array{Elem: abi.Bytes{}}}}},
		abi.Array{Elem: abi.FixedArray{Size: 1, Elem: abi.Array{Elem: abi.Bool{}}}},
	} {
		_, err := eventToTables(newEvent(abi.Bool{}, k))
		assert.ErrorIs(t, err, ErrNestedDynamicArrays, k.String())
		assert.ErrorIs(t, err, ErrSchema, k.String())
	}

	_, err := eventToTables(newEvent(abi.Array{Elem: abi.FixedArray{Size: 2, Elem: abi.Bool{}}}))
	assert.NoError(t, err)
}

func TestEventToTablesUnsupported(t *testing.T) {
	for _, k := range []abi.Kind{abi.Int{Bits: 7}, abi.Uint{Bits: 264}, abi.FixedBytes{Len: 33}, abi.FixedArray{Size: 0, Elem: abi.Bool{}}} {
		_, err := eventToTables(newEvent(k))
		assert.True(t, errors.Is(err, ErrUnsupportedKind), k.String())
		assert.True(t, errors.Is(err, ErrSchema), k.String())
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Transfer", "Transfer"},
		{"Sel-ect!", "Select_"},
		{"select", "select_"},
		{"ORDER", "ORDER_"},
		{"", "_"},
		{"!!", "_"},
		{"1st", "_1st"},
		{"_value", "__value"},
		{"field 0", "field0"},
		{"déjà vu", "djvu"},
		{"a_b_1", "a_b_1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.name), tt.name)
	}
	assert.Len(t, sqliteKeywords, 147)
}

func TestCompileEvent(t *testing.T) {
	ev := &abi.Event{Name: "Test", Inputs: []abi.EventField{
		{Name: "from", Kind: abi.Address{}},
		{Name: "ok", Kind: abi.Bool{}},
	}}
	pe, err := compileEvent("Test", ev)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE IF NOT EXISTS Test_0 (block_number INTEGER NOT NULL, log_index INTEGER NOT NULL, " +
			"transaction_index INTEGER NOT NULL, address BLOB NOT NULL, from_ BLOB, ok INTEGER, " +
			"PRIMARY KEY(block_number ASC, log_index ASC)) STRICT;",
	}, pe.creates)
	assert.Equal(t, []insertStatement{{"INSERT INTO Test_0 VALUES(?1,?2,?3,?4,?5,?6);", 2}}, pe.inserts)
	assert.Equal(t, []string{"DELETE FROM Test_0 WHERE block_number >= ?1;"}, pe.removes)
}

func TestCompileEventColumnNames(t *testing.T) {
	// table 0 has more columns than there are fields, so it uses positional names
	ev := newEvent(abi.Tuple{Elems: []abi.Kind{abi.Bool{}, abi.Bytes{}, abi.Bool{}}}, abi.Array{Elem: abi.String{}})
	pe, err := compileEvent("E", ev)
	require.NoError(t, err)
	require.Len(t, pe.creates, 2)
	assert.Contains(t, pe.creates[0], "address BLOB NOT NULL, c0 INTEGER, c1 BLOB, c2 INTEGER, PRIMARY KEY(block_number ASC, log_index ASC))")
	assert.Equal(t, "CREATE TABLE IF NOT EXISTS E_1 (block_number INTEGER NOT NULL, log_index INTEGER NOT NULL, "+
		"transaction_index INTEGER NOT NULL, address BLOB NOT NULL, array_index INTEGER NOT NULL, c0 BLOB, "+
		"PRIMARY KEY(block_number ASC, log_index ASC, array_index ASC)) STRICT;", pe.creates[1])
	assert.Equal(t, "INSERT INTO E_1 VALUES(?1,?2,?3,?4,?5,?6);", pe.inserts[1].sql)
	assert.Equal(t, 1, pe.inserts[1].fields)
	assert.Equal(t, "INSERT INTO E_0 VALUES(?1,?2,?3,?4,?5,?6,?7);", pe.inserts[0].sql)
}

func TestCompileEventDuplicateField(t *testing.T) {
	ev := &abi.Event{Name: "E", Inputs: []abi.EventField{
		{Name: "a-b", Kind: abi.Bool{}},
		{Name: "ab", Kind: abi.Bool{}},
	}}
	_, err := compileEvent("E", ev)
	assert.ErrorIs(t, err, ErrDuplicateField)
	assert.ErrorIs(t, err, ErrSchema)
}
