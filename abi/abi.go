// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"
	"encoding/json"
	"sort"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// ABI holds the events of a contract.
type ABI struct {
	nameToEvent map[string]*Event
}

// New creates an ABI instance from its JSON encoding. Entries other than events are ignored.
// Overloaded events are keyed the way go-ethereum resolves name conflicts (Transfer, Transfer0, ...),
// while Event.Name keeps the declared name.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		nameToEvent: make(map[string]*Event, len(parsed.Events)),
	}
	for name, ethEvent := range parsed.Events {
		event, err := NewEvent(&ethEvent)
		if err != nil {
			return nil, err
		}
		abi.nameToEvent[name] = event
	}
	return abi, nil
}

// ParseEvent decodes a single JSON ABI event entry as produced by Event.MarshalJSON.
// Input names are kept as written, go-ethereum would rename unnamed inputs to arg0, arg1, ...
func ParseEvent(data []byte) (*Event, error) {
	var je jsonEvent
	if err := json.Unmarshal(data, &je); err != nil {
		return nil, errors.Wrap(err, "unmarshal event")
	}
	if je.Type != "event" {
		return nil, errors.Errorf("expected an event, got %q", je.Type)
	}

	entries := make([]byte, 0, len(data)+2)
	entries = append(entries, '[')
	entries = append(entries, data...)
	entries = append(entries, ']')

	abi, err := New(entries)
	if err != nil {
		return nil, err
	}
	if len(abi.nameToEvent) != 1 {
		return nil, errors.Errorf("expected one event, got %d", len(abi.nameToEvent))
	}
	for _, event := range abi.nameToEvent {
		for i := range event.Inputs {
			event.Inputs[i].Name = je.Inputs[i].Name
		}
		return event, nil
	}
	panic("unreachable")
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// Events returns the sorted names of all events.
func (a *ABI) Events() []string {
	names := make([]string, 0, len(a.nameToEvent))
	for name := range a.nameToEvent {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
