// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	bigIntType  = reflect.TypeOf((*big.Int)(nil))
	addressType = reflect.TypeOf(common.Address{})
)

// ValueOf converts a Go value, as produced by go-ethereum's abi unpacking, into a Value of kind k.
func ValueOf(k Kind, v any) (Value, error) {
	return valueOf(k, reflect.ValueOf(v))
}

func valueOf(k Kind, rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return nil, errors.Errorf("nil value for %v", k)
	}
	switch k := k.(type) {
	case Int:
		x, err := bigOf(rv)
		if err != nil {
			return nil, err
		}
		return NewInt(k.Bits, x)
	case Uint:
		x, err := bigOf(rv)
		if err != nil {
			return nil, err
		}
		return NewUint(k.Bits, x)
	case Address:
		if rv.Type() != addressType {
			return nil, errors.Errorf("cannot use %v as address", rv.Type())
		}
		return AddressValue(rv.Interface().(common.Address)), nil
	case Bool:
		if rv.Kind() != reflect.Bool {
			return nil, errors.Errorf("cannot use %v as bool", rv.Type())
		}
		return BoolValue(rv.Bool()), nil
	case FixedBytes:
		b, err := arrayBytes(rv, k.Len)
		if err != nil {
			return nil, err
		}
		return FixedBytesValue(b), nil
	case Function:
		b, err := arrayBytes(rv, common.AddressLength+4)
		if err != nil {
			return nil, err
		}
		var f FunctionValue
		copy(f.Address[:], b)
		copy(f.Selector[:], b[common.AddressLength:])
		return f, nil
	case Bytes:
		if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() != reflect.Uint8 {
			return nil, errors.Errorf("cannot use %v as bytes", rv.Type())
		}
		return BytesValue(common.CopyBytes(rv.Bytes())), nil
	case String:
		if rv.Kind() != reflect.String {
			return nil, errors.Errorf("cannot use %v as string", rv.Type())
		}
		return StringValue(rv.String()), nil
	case Tuple:
		if rv.Kind() == reflect.Pointer {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct || rv.NumField() != len(k.Elems) {
			return nil, errors.Errorf("cannot use %v as %v", rv.Type(), k)
		}
		fields := make(TupleValue, 0, len(k.Elems))
		for i, e := range k.Elems {
			f, err := valueOf(e, rv.Field(i))
			if err != nil {
				return nil, errors.WithMessagef(err, "tuple field %d", i)
			}
			fields = append(fields, f)
		}
		return fields, nil
	case FixedArray:
		if rv.Kind() != reflect.Array || rv.Len() != k.Size {
			return nil, errors.Errorf("cannot use %v as %v", rv.Type(), k)
		}
		values, err := elementsOf(k.Elem, rv)
		if err != nil {
			return nil, err
		}
		return FixedArrayValue{k.Elem, values}, nil
	case Array:
		if rv.Kind() != reflect.Slice {
			return nil, errors.Errorf("cannot use %v as %v", rv.Type(), k)
		}
		values, err := elementsOf(k.Elem, rv)
		if err != nil {
			return nil, err
		}
		return ArrayValue{k.Elem, values}, nil
	default:
		panic(errors.Errorf("unknown kind %T", k))
	}
}

func bigOf(rv reflect.Value) (*big.Int, error) {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(rv.Uint()), nil
	}
	if rv.Type() == bigIntType && !rv.IsNil() {
		return rv.Interface().(*big.Int), nil
	}
	return nil, errors.Errorf("cannot use %v as integer", rv.Type())
}

func arrayBytes(rv reflect.Value, n int) ([]byte, error) {
	if rv.Kind() != reflect.Array || rv.Type().Elem().Kind() != reflect.Uint8 || rv.Len() != n {
		return nil, errors.Errorf("cannot use %v as [%d]byte", rv.Type(), n)
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rv.Index(i).Uint())
	}
	return b, nil
}

func elementsOf(elem Kind, rv reflect.Value) ([]Value, error) {
	values := make([]Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := valueOf(elem, rv.Index(i))
		if err != nil {
			return nil, errors.WithMessagef(err, "element %d", i)
		}
		values = append(values, v)
	}
	return values, nil
}
