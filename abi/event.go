// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"encoding/json"
	"strconv"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// EventField is a single input of an event.
type EventField struct {
	Name    string
	Kind    Kind
	Indexed bool
}

// Event describes the declared shape of an event.
type Event struct {
	Name      string
	Inputs    []EventField
	Anonymous bool
}

// NewEvent converts a go-ethereum event.
func NewEvent(event *ethabi.Event) (*Event, error) {
	name := event.RawName
	if name == "" {
		name = event.Name
	}
	ev := &Event{
		Name:      name,
		Anonymous: event.Anonymous,
		Inputs:    make([]EventField, 0, len(event.Inputs)),
	}
	for i, arg := range event.Inputs {
		kind, err := kindOf(&arg.Type)
		if err != nil {
			return nil, errors.WithMessagef(err, "event %s input %d", name, i)
		}
		ev.Inputs = append(ev.Inputs, EventField{arg.Name, kind, arg.Indexed})
	}
	return ev, nil
}

func kindOf(t *ethabi.Type) (Kind, error) {
	switch t.T {
	case ethabi.IntTy:
		return Int{t.Size}, nil
	case ethabi.UintTy:
		return Uint{t.Size}, nil
	case ethabi.AddressTy:
		return Address{}, nil
	case ethabi.BoolTy:
		return Bool{}, nil
	case ethabi.FixedBytesTy:
		return FixedBytes{t.Size}, nil
	case ethabi.FunctionTy:
		return Function{}, nil
	case ethabi.BytesTy:
		return Bytes{}, nil
	case ethabi.StringTy:
		return String{}, nil
	case ethabi.TupleTy:
		elems := make([]Kind, 0, len(t.TupleElems))
		for _, e := range t.TupleElems {
			k, err := kindOf(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, k)
		}
		return Tuple{elems}, nil
	case ethabi.ArrayTy:
		elem, err := kindOf(t.Elem)
		if err != nil {
			return nil, err
		}
		return FixedArray{t.Size, elem}, nil
	case ethabi.SliceTy:
		elem, err := kindOf(t.Elem)
		if err != nil {
			return nil, err
		}
		return Array{elem}, nil
	default:
		return nil, errors.Errorf("unsupported abi type %v", t)
	}
}

// Signature returns the canonical event signature, e.g. "Transfer(address,address,uint256)".
func (e *Event) Signature() string {
	types := make([]string, 0, len(e.Inputs))
	for _, in := range e.Inputs {
		types = append(types, in.Kind.String())
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// Equal reports whether e and other describe the same event, including names.
func (e *Event) Equal(other *Event) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Name != other.Name || e.Anonymous != other.Anonymous || len(e.Inputs) != len(other.Inputs) {
		return false
	}
	for i, in := range e.Inputs {
		o := other.Inputs[i]
		if in.Name != o.Name || in.Indexed != o.Indexed || !KindsEqual(in.Kind, o.Kind) {
			return false
		}
	}
	return true
}

// Validate checks every input kind.
func (e *Event) Validate() error {
	for i, in := range e.Inputs {
		if err := ValidateKind(in.Kind); err != nil {
			return errors.WithMessagef(err, "input %d (%s)", i, in.Name)
		}
	}
	return nil
}

type jsonArgument struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Indexed    bool           `json:"indexed,omitempty"`
	Components []jsonArgument `json:"components,omitempty"`
}

type jsonEvent struct {
	Type      string         `json:"type"`
	Name      string         `json:"name"`
	Anonymous bool           `json:"anonymous"`
	Inputs    []jsonArgument `json:"inputs"`
}

// MarshalJSON encodes e as a JSON ABI event entry, see ParseEvent. Unnamed tuple
// components are named c0, c1, ... since go-ethereum refuses anonymous components.
func (e *Event) MarshalJSON() ([]byte, error) {
	je := jsonEvent{
		Type:      "event",
		Name:      e.Name,
		Anonymous: e.Anonymous,
		Inputs:    make([]jsonArgument, 0, len(e.Inputs)),
	}
	for _, in := range e.Inputs {
		typ, components := typeOf(in.Kind)
		je.Inputs = append(je.Inputs, jsonArgument{in.Name, typ, in.Indexed, components})
	}
	return json.Marshal(je)
}

func typeOf(k Kind) (string, []jsonArgument) {
	switch k := k.(type) {
	case Tuple:
		components := make([]jsonArgument, 0, len(k.Elems))
		for i, e := range k.Elems {
			typ, c := typeOf(e)
			components = append(components, jsonArgument{Name: "c" + strconv.Itoa(i), Type: typ, Components: c})
		}
		return "tuple", components
	case FixedArray:
		typ, c := typeOf(k.Elem)
		return typ + "[" + strconv.Itoa(k.Size) + "]", c
	case Array:
		typ, c := typeOf(k.Elem)
		return typ + "[]", c
	default:
		return k.String(), nil
	}
}

func (e *Event) arguments() (ethabi.Arguments, error) {
	args := make(ethabi.Arguments, 0, len(e.Inputs))
	for _, in := range e.Inputs {
		typ, components := typeOf(in.Kind)
		t, err := ethabi.NewType(typ, "", marshalings(components))
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", in.Name)
		}
		args = append(args, ethabi.Argument{Name: in.Name, Type: t, Indexed: in.Indexed})
	}
	return args, nil
}

func marshalings(args []jsonArgument) []ethabi.ArgumentMarshaling {
	if len(args) == 0 {
		return nil
	}
	out := make([]ethabi.ArgumentMarshaling, 0, len(args))
	for _, a := range args {
		out = append(out, ethabi.ArgumentMarshaling{
			Name:       a.Name,
			Type:       a.Type,
			Components: marshalings(a.Components),
		})
	}
	return out
}

// Decode decodes event data into values, one per input.
// Indexed inputs live in topics, which are not decoded, so events with indexed inputs are rejected.
func (e *Event) Decode(data []byte) ([]Value, error) {
	for _, in := range e.Inputs {
		if in.Indexed {
			return nil, errors.Errorf("event %s: indexed input %s is not in data", e.Name, in.Name)
		}
	}
	args, err := e.arguments()
	if err != nil {
		return nil, err
	}
	raw, err := args.Unpack(data)
	if err != nil {
		return nil, errors.Wrap(err, "unpack")
	}
	values := make([]Value, 0, len(raw))
	for i, r := range raw {
		v, err := ValueOf(e.Inputs[i].Kind, r)
		if err != nil {
			return nil, errors.WithMessagef(err, "input %d", i)
		}
		values = append(values, v)
	}
	return values, nil
}
