// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import "fmt"

// Step is the kind of event emitted while walking a kind or value tree.
type Step int

const (
	// Leaf is a scalar kind or value.
	Leaf Step = iota
	// ArrayStart opens a dynamic array.
	ArrayStart
	// ArrayEnd closes the innermost open dynamic array.
	ArrayEnd
)

// Visit is a single event of a depth first walk.
type Visit[T any] struct {
	Step Step
	// Len is the number of elements walked inside the array on ArrayStart:
	// the element count for values and 1 for kinds.
	Len int
	// Node is set on Leaf.
	Node T
}

type shape int

const (
	shapeLeaf shape = iota
	// tuples and fixed arrays, flattened in place
	shapeGroup
	// dynamic arrays
	shapeArray
)

// walk is shared by kinds and values, so both trees are always walked in the same order.
func walk[T any](node T, split func(T) (shape, []T), visit func(Visit[T])) {
	s, children := split(node)
	switch s {
	case shapeLeaf:
		visit(Visit[T]{Step: Leaf, Node: node})
	case shapeGroup:
		for _, c := range children {
			walk(c, split, visit)
		}
	case shapeArray:
		visit(Visit[T]{Step: ArrayStart, Len: len(children)})
		for _, c := range children {
			walk(c, split, visit)
		}
		visit(Visit[T]{Step: ArrayEnd})
	}
}

// VisitKind walks k depth first. Fixed arrays repeat their element kind Size times,
// dynamic arrays visit their element kind once between ArrayStart and ArrayEnd.
func VisitKind(k Kind, visit func(Visit[Kind])) {
	walk(k, splitKind, visit)
}

// VisitValue walks v depth first, in the same order as VisitKind walks v.Kind(), except
// that dynamic arrays visit every element.
func VisitValue(v Value, visit func(Visit[Value])) {
	walk(v, splitValue, visit)
}

func splitKind(k Kind) (shape, []Kind) {
	switch k := k.(type) {
	case Int, Uint, Address, Bool, FixedBytes, Function, Bytes, String:
		return shapeLeaf, nil
	case Tuple:
		return shapeGroup, k.Elems
	case FixedArray:
		elems := make([]Kind, k.Size)
		for i := range elems {
			elems[i] = k.Elem
		}
		return shapeGroup, elems
	case Array:
		return shapeArray, []Kind{k.Elem}
	default:
		panic(fmt.Sprintf("abi: unknown kind %T", k))
	}
}

func splitValue(v Value) (shape, []Value) {
	switch v := v.(type) {
	case IntValue, UintValue, AddressValue, BoolValue, FixedBytesValue, FunctionValue, BytesValue, StringValue:
		return shapeLeaf, nil
	case TupleValue:
		return shapeGroup, v
	case FixedArrayValue:
		return shapeGroup, v.Values
	case ArrayValue:
		return shapeArray, v.Values
	default:
		panic(fmt.Sprintf("abi: unknown value %T", v))
	}
}
