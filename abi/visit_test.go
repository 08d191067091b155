// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	step Step
	len  int
	kind string
}

func kindSteps(k Kind) (steps []step) {
	VisitKind(k, func(v Visit[Kind]) {
		s := step{step: v.Step, len: v.Len}
		if v.Step == Leaf {
			s.kind = v.Node.String()
		}
		steps = append(steps, s)
	})
	return
}

func valueSteps(val Value) (steps []step) {
	VisitValue(val, func(v Visit[Value]) {
		s := step{step: v.Step, len: v.Len}
		if v.Step == Leaf {
			s.kind = v.Node.Kind().String()
		}
		steps = append(steps, s)
	})
	return
}

func TestVisitKind(t *testing.T) {
	k := Tuple{[]Kind{
		Bool{},
		Array{Tuple{[]Kind{Bool{}, String{}}}},
		FixedArray{2, Bytes{}},
	}}

	assert.Equal(t, []step{
		{Leaf, 0, "bool"},
		{ArrayStart, 1, ""},
		{Leaf, 0, "bool"},
		{Leaf, 0, "string"},
		{ArrayEnd, 0, ""},
		{Leaf, 0, "bytes"},
		{Leaf, 0, "bytes"},
	}, kindSteps(k))
}

func TestVisitValueFollowsKind(t *testing.T) {
	elem := Tuple{[]Kind{Bool{}, String{}}}
	arr, err := NewArray(elem,
		TupleValue{BoolValue(false), StringValue("hello")},
		TupleValue{BoolValue(true), StringValue("world")},
	)
	require.NoError(t, err)
	fixed, err := NewFixedArray(Bytes{}, BytesValue{1}, BytesValue{2})
	require.NoError(t, err)

	v := TupleValue{BoolValue(true), arr, fixed}
	assert.Equal(t, "(bool,(bool,string)[],bytes[2])", v.Kind().String())

	assert.Equal(t, []step{
		{Leaf, 0, "bool"},
		{ArrayStart, 2, ""},
		{Leaf, 0, "bool"},
		{Leaf, 0, "string"},
		{Leaf, 0, "bool"},
		{Leaf, 0, "string"},
		{ArrayEnd, 0, ""},
		{Leaf, 0, "bytes"},
		{Leaf, 0, "bytes"},
	}, valueSteps(v))

	// every array element walks exactly like the kind walk of the element kind
	elemSteps := kindSteps(elem)
	vs := valueSteps(v)
	assert.Equal(t, elemSteps, vs[2:4])
	assert.Equal(t, elemSteps, vs[4:6])
}

func TestVisitEmptyArray(t *testing.T) {
	arr, err := NewArray(Uint{256})
	require.NoError(t, err)
	assert.Equal(t, []step{{ArrayStart, 0, ""}, {ArrayEnd, 0, ""}}, valueSteps(arr))
	assert.Equal(t, []step{{ArrayStart, 1, ""}, {Leaf, 0, "uint256"}, {ArrayEnd, 0, ""}}, kindSteps(arr.Kind()))
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Int{8}, "int8"},
		{Uint{256}, "uint256"},
		{Address{}, "address"},
		{Bool{}, "bool"},
		{FixedBytes{32}, "bytes32"},
		{Function{}, "function"},
		{Bytes{}, "bytes"},
		{String{}, "string"},
		{Tuple{}, "()"},
		{Tuple{[]Kind{Bool{}, Tuple{[]Kind{String{}}}}}, "(bool,(string))"},
		{FixedArray{2, FixedArray{3, Uint{8}}}, "uint8[3][2]"},
		{Array{FixedArray{2, Address{}}}, "address[2][]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestKindsEqual(t *testing.T) {
	assert.True(t, KindsEqual(Array{Tuple{[]Kind{Bool{}}}}, Array{Tuple{[]Kind{Bool{}}}}))
	assert.False(t, KindsEqual(Array{Bool{}}, FixedArray{1, Bool{}}))
	assert.False(t, KindsEqual(Int{8}, Uint{8}))
	assert.False(t, KindsEqual(Tuple{[]Kind{Bool{}}}, nil))
	assert.True(t, KindsEqual(nil, nil))
}

func TestValidateKind(t *testing.T) {
	assert.NoError(t, ValidateKind(Tuple{[]Kind{Int{256}, Uint{8}, FixedBytes{1}, Array{FixedArray{1, String{}}}}}))
	assert.Error(t, ValidateKind(Int{7}))
	assert.Error(t, ValidateKind(Uint{264}))
	assert.Error(t, ValidateKind(FixedBytes{0}))
	assert.Error(t, ValidateKind(FixedBytes{33}))
	assert.Error(t, ValidateKind(FixedArray{0, Bool{}}))
	assert.Error(t, ValidateKind(Array{Tuple{[]Kind{nil}}}))
}

func TestIntRanges(t *testing.T) {
	assert.True(t, IntFits(8, big.NewInt(127)))
	assert.False(t, IntFits(8, big.NewInt(128)))
	assert.True(t, IntFits(8, big.NewInt(-128)))
	assert.False(t, IntFits(8, big.NewInt(-129)))
	assert.True(t, UintFits(8, big.NewInt(255)))
	assert.False(t, UintFits(8, big.NewInt(256)))
	assert.False(t, UintFits(8, big.NewInt(-1)))

	_, err := NewInt(16, big.NewInt(1<<15))
	assert.Error(t, err)
	_, err = NewUint(12, big.NewInt(1))
	assert.Error(t, err)
	v, err := NewUint(256, big.NewInt(7))
	require.NoError(t, err)
	assert.Equal(t, Uint{256}, v.Kind())
}

func TestNewArrayChecksElements(t *testing.T) {
	_, err := NewArray(Bool{}, BoolValue(true), StringValue("no"))
	assert.Error(t, err)
	_, err = NewFixedArray(Bool{})
	assert.Error(t, err)
	_, err = NewFixedBytes(make([]byte, 33))
	assert.Error(t, err)
}

func TestCheckValue(t *testing.T) {
	tuple := Tuple{[]Kind{Bool{}, String{}}}
	ok := []struct {
		kind  Kind
		value Value
	}{
		{Bool{}, BoolValue(true)},
		{Array{Bool{}}, ArrayValue{Bool{}, nil}},
		{FixedArray{2, Bool{}}, FixedArrayValue{Bool{}, []Value{BoolValue(true), BoolValue(false)}}},
		{Array{tuple}, ArrayValue{tuple, []Value{TupleValue{BoolValue(true), StringValue("")}}}},
	}
	for _, tt := range ok {
		assert.NoError(t, CheckValue(tt.kind, tt.value), tt.kind.String())
	}

	bad := []struct {
		kind  Kind
		value Value
	}{
		{Bool{}, nil},
		{Bool{}, StringValue("")},
		{Bool{}, TupleValue{BoolValue(true)}},
		{Array{Bool{}}, ArrayValue{Bool{}, []Value{nil}}},
		{Array{Bool{}}, ArrayValue{Bool{}, []Value{TupleValue{BoolValue(true)}}}},
		{Array{Bool{}}, FixedArrayValue{Bool{}, []Value{BoolValue(true)}}},
		{FixedArray{2, Bool{}}, FixedArrayValue{Bool{}, []Value{BoolValue(true), StringValue("x")}}},
		{FixedArray{2, Bool{}}, FixedArrayValue{Bool{}, []Value{BoolValue(true)}}},
		{FixedArray{2, Bytes{}}, FixedArrayValue{Bytes{}, []Value{BytesValue{}, IntValue{8, big.NewInt(1)}}}},
		{tuple, TupleValue{BoolValue(true)}},
		{tuple, TupleValue{BoolValue(true), nil}},
		{Array{tuple}, ArrayValue{tuple, []Value{TupleValue{BoolValue(true), BytesValue{}}}}},
	}
	for i, tt := range bad {
		assert.Error(t, CheckValue(tt.kind, tt.value), "case %d", i)
	}

	_, err := NewArray(Bool{}, nil)
	assert.Error(t, err)
}
