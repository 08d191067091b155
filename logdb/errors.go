// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "github.com/pkg/errors"

// Errors returned by LogDB, possibly wrapped with the event and operation; test with errors.Is.
var (
	// ErrSchema matches every error rejecting an event descriptor.
	ErrSchema = errors.New("schema error")
	// ErrUnknownEvent is returned for events that were never prepared.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrValueMismatch is returned when log fields don't match the prepared descriptor.
	ErrValueMismatch = errors.New("value mismatch")
	// ErrRange is returned when a block, log or transaction index doesn't fit an sqlite integer.
	ErrRange = errors.New("out of range")
	// ErrConsistency is returned when a statement changed an unexpected number of rows,
	// meaning the registry and the database disagree.
	ErrConsistency = errors.New("consistency error")
	// ErrInvalidUncle is returned for uncles of block 0, which has no parent to rewind to.
	ErrInvalidUncle = errors.New("block 0 got uncled")

	ErrNestedDynamicArrays = &schemaError{"nested dynamic arrays"}
	ErrDuplicateField      = &schemaError{"duplicate field name"}
	ErrDescriptorMismatch  = &schemaError{"event already exists with different signature"}
	ErrUnsupportedKind     = &schemaError{"unsupported kind"}
)

type schemaError struct {
	msg string
}

func (e *schemaError) Error() string { return e.msg }

func (e *schemaError) Is(target error) bool { return target == ErrSchema }
