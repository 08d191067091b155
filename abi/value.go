// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Value is a runtime ABI value. Kind returns its declared type.
type Value interface {
	Kind() Kind
	value()
}

// IntValue is a signed integer of Bits width.
type IntValue struct {
	Bits int
	V    *big.Int
}

// UintValue is an unsigned integer of Bits width.
type UintValue struct {
	Bits int
	V    *big.Int
}

// AddressValue is an account address.
type AddressValue common.Address

// BoolValue is a boolean.
type BoolValue bool

// FixedBytesValue is a fixed length byte string; its length is part of its kind.
type FixedBytesValue []byte

// FunctionValue is an external function reference.
type FunctionValue struct {
	Address  common.Address
	Selector [4]byte
}

// BytesValue is a dynamic byte string.
type BytesValue []byte

// StringValue is a dynamic string.
type StringValue string

// TupleValue is an ordered list of values.
type TupleValue []Value

// FixedArrayValue holds exactly len(Values) elements of kind Elem.
type FixedArrayValue struct {
	Elem   Kind
	Values []Value
}

// ArrayValue is a dynamic array. Elem is kept so that empty arrays have a kind.
type ArrayValue struct {
	Elem   Kind
	Values []Value
}

func (IntValue) value()        {}
func (UintValue) value()       {}
func (AddressValue) value()    {}
func (BoolValue) value()       {}
func (FixedBytesValue) value() {}
func (FunctionValue) value()   {}
func (BytesValue) value()      {}
func (StringValue) value()     {}
func (TupleValue) value()      {}
func (FixedArrayValue) value() {}
func (ArrayValue) value()      {}

func (v IntValue) Kind() Kind        { return Int{v.Bits} }
func (v UintValue) Kind() Kind       { return Uint{v.Bits} }
func (AddressValue) Kind() Kind      { return Address{} }
func (BoolValue) Kind() Kind         { return Bool{} }
func (v FixedBytesValue) Kind() Kind { return FixedBytes{len(v)} }
func (FunctionValue) Kind() Kind     { return Function{} }
func (BytesValue) Kind() Kind        { return Bytes{} }
func (StringValue) Kind() Kind       { return String{} }
func (v FixedArrayValue) Kind() Kind { return FixedArray{len(v.Values), v.Elem} }
func (v ArrayValue) Kind() Kind      { return Array{v.Elem} }

func (v TupleValue) Kind() Kind {
	elems := make([]Kind, 0, len(v))
	for _, e := range v {
		elems = append(elems, e.Kind())
	}
	return Tuple{elems}
}

// NewInt creates a signed integer, failing if x does not fit in bits.
func NewInt(bits int, x *big.Int) (IntValue, error) {
	if err := validateBits(bits); err != nil {
		return IntValue{}, err
	}
	if !IntFits(bits, x) {
		return IntValue{}, errors.Errorf("%v overflows int%d", x, bits)
	}
	return IntValue{bits, new(big.Int).Set(x)}, nil
}

// NewUint creates an unsigned integer, failing if x does not fit in bits.
func NewUint(bits int, x *big.Int) (UintValue, error) {
	if err := validateBits(bits); err != nil {
		return UintValue{}, err
	}
	if !UintFits(bits, x) {
		return UintValue{}, errors.Errorf("%v overflows uint%d", x, bits)
	}
	return UintValue{bits, new(big.Int).Set(x)}, nil
}

// NewFixedBytes copies b into a fixed length byte string.
func NewFixedBytes(b []byte) (FixedBytesValue, error) {
	if len(b) < 1 || len(b) > 32 {
		return nil, errors.Errorf("invalid fixed bytes length %d", len(b))
	}
	return FixedBytesValue(common.CopyBytes(b)), nil
}

// NewArray creates a dynamic array checking every element against elem.
func NewArray(elem Kind, values ...Value) (ArrayValue, error) {
	if err := checkElems(elem, values); err != nil {
		return ArrayValue{}, err
	}
	return ArrayValue{elem, values}, nil
}

// NewFixedArray creates a fixed array checking every element against elem.
func NewFixedArray(elem Kind, values ...Value) (FixedArrayValue, error) {
	if len(values) == 0 {
		return FixedArrayValue{}, errors.New("empty fixed array")
	}
	if err := checkElems(elem, values); err != nil {
		return FixedArrayValue{}, err
	}
	return FixedArrayValue{elem, values}, nil
}

func checkElems(elem Kind, values []Value) error {
	for i, v := range values {
		if err := CheckValue(elem, v); err != nil {
			return errors.WithMessagef(err, "element %d", i)
		}
	}
	return nil
}

// CheckValue reports whether v is a value of kind k, looking into every tuple member and
// array element. Kind alone trusts the Elem of arrays.
func CheckValue(k Kind, v Value) error {
	if v == nil {
		return errors.Errorf("missing %v value", k)
	}
	switch k := k.(type) {
	case Tuple:
		t, ok := v.(TupleValue)
		if !ok || len(t) != len(k.Elems) {
			return mismatch(k, v)
		}
		for i, e := range k.Elems {
			if err := CheckValue(e, t[i]); err != nil {
				return errors.WithMessagef(err, "tuple member %d", i)
			}
		}
		return nil
	case FixedArray:
		a, ok := v.(FixedArrayValue)
		if !ok || len(a.Values) != k.Size || !KindsEqual(a.Elem, k.Elem) {
			return mismatch(k, v)
		}
		return checkElems(k.Elem, a.Values)
	case Array:
		a, ok := v.(ArrayValue)
		if !ok || !KindsEqual(a.Elem, k.Elem) {
			return mismatch(k, v)
		}
		return checkElems(k.Elem, a.Values)
	case Int, Uint, Address, Bool, FixedBytes, Function, Bytes, String:
		switch v.(type) {
		case TupleValue, FixedArrayValue, ArrayValue:
			return mismatch(k, v)
		}
		if !KindsEqual(k, v.Kind()) {
			return mismatch(k, v)
		}
		return nil
	case nil:
		return errors.New("missing kind")
	default:
		panic(errors.Errorf("unknown kind %T", k))
	}
}

func mismatch(k Kind, v Value) error {
	switch v := v.(type) {
	case TupleValue:
		return errors.Errorf("got a tuple of %d values, want %v", len(v), k)
	case FixedArrayValue:
		return errors.Errorf("got an array of %d %v, want %v", len(v.Values), v.Elem, k)
	case ArrayValue:
		return errors.Errorf("got an array of %v, want %v", v.Elem, k)
	default:
		return errors.Errorf("got %v, want %v", v.Kind(), k)
	}
}
