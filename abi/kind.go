// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the declared type of an ABI value.
//
// The set of kinds is closed: scalar kinds Int, Uint, Address, Bool, FixedBytes,
// Function, Bytes and String, and the composite kinds Tuple, FixedArray and Array.
type Kind interface {
	// String returns the canonical solidity type, e.g. "(bool,string)[]".
	String() string
	kind()
}

// Int is a signed integer of Bits width.
type Int struct{ Bits int }

// Uint is an unsigned integer of Bits width.
type Uint struct{ Bits int }

// Address is a 20 bytes account address.
type Address struct{}

// Bool is a boolean.
type Bool struct{}

// FixedBytes is a byte string of Len bytes.
type FixedBytes struct{ Len int }

// Function is an external function reference, an address followed by a selector.
type Function struct{}

// Bytes is a dynamic byte string.
type Bytes struct{}

// String is a dynamic UTF-8 string.
type String struct{}

// Tuple is an ordered list of kinds.
type Tuple struct{ Elems []Kind }

// FixedArray is an array of Size elements.
type FixedArray struct {
	Size int
	Elem Kind
}

// Array is a dynamic array.
type Array struct{ Elem Kind }

func (Int) kind()        {}
func (Uint) kind()       {}
func (Address) kind()    {}
func (Bool) kind()       {}
func (FixedBytes) kind() {}
func (Function) kind()   {}
func (Bytes) kind()      {}
func (String) kind()     {}
func (Tuple) kind()      {}
func (FixedArray) kind() {}
func (Array) kind()      {}

func (k Int) String() string        { return "int" + strconv.Itoa(k.Bits) }
func (k Uint) String() string       { return "uint" + strconv.Itoa(k.Bits) }
func (Address) String() string      { return "address" }
func (Bool) String() string         { return "bool" }
func (k FixedBytes) String() string { return "bytes" + strconv.Itoa(k.Len) }
func (Function) String() string     { return "function" }
func (Bytes) String() string        { return "bytes" }
func (String) String() string       { return "string" }

func (k Tuple) String() string {
	elems := make([]string, 0, len(k.Elems))
	for _, e := range k.Elems {
		elems = append(elems, e.String())
	}
	return "(" + strings.Join(elems, ",") + ")"
}

func (k FixedArray) String() string {
	return k.Elem.String() + "[" + strconv.Itoa(k.Size) + "]"
}

func (k Array) String() string {
	return k.Elem.String() + "[]"
}

// KindsEqual reports whether a and b denote the same type.
func KindsEqual(a, b Kind) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}

// ValidateKind checks widths and sizes of k and all nested kinds.
func ValidateKind(k Kind) error {
	switch k := k.(type) {
	case Int:
		return validateBits(k.Bits)
	case Uint:
		return validateBits(k.Bits)
	case FixedBytes:
		if k.Len < 1 || k.Len > 32 {
			return errors.Errorf("invalid fixed bytes length %d", k.Len)
		}
		return nil
	case Address, Bool, Function, Bytes, String:
		return nil
	case Tuple:
		for i, e := range k.Elems {
			if err := ValidateKind(e); err != nil {
				return errors.WithMessagef(err, "tuple element %d", i)
			}
		}
		return nil
	case FixedArray:
		if k.Size < 1 {
			return errors.Errorf("invalid fixed array size %d", k.Size)
		}
		return ValidateKind(k.Elem)
	case Array:
		return ValidateKind(k.Elem)
	case nil:
		return errors.New("missing kind")
	default:
		panic(errors.Errorf("unknown kind %T", k))
	}
}

func validateBits(bits int) error {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return errors.Errorf("invalid integer bit width %d", bits)
	}
	return nil
}
