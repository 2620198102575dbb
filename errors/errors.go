// MIT License
//
// Copyright (c) 2024-2026 Quorumline
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package errors defines the error taxonomy of the serialization engine.
// Callers branch on these sentinels with errors.Is; everything else in a
// wrapped error chain is diagnostic detail.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSerializable is returned when a type cannot be serialized at all:
	// it is synthetic or anonymous, cannot be rendered to a wire name, or the
	// factory runs in custom-serializers-only mode and none is registered.
	ErrNotSerializable = errors.New("type is not serializable")

	// ErrClassNotFound is returned when a canonical wire name does not resolve
	// to any locally registered type. It is the trigger for carpentry and is
	// recoverable exactly once per resolution pass.
	ErrClassNotFound = errors.New("class not found")

	// ErrCarpentry indicates that synthesizing a runtime type from a remote
	// schema failed. It never crosses the serialization boundary raw; the
	// resolver converts it into ErrNotSerializable, keeping the original
	// message for diagnostics.
	ErrCarpentry = errors.New("carpentry failed")

	// ErrCyclicDependency is returned when the carpentry set contains a
	// dependency cycle and no synthesis order exists.
	ErrCyclicDependency = errors.New("cannot build dependencies")

	// ErrNotWhitelisted is a security-kind error returned when a type failed
	// the whitelist capability check. It is always surfaced verbatim.
	ErrNotWhitelisted = errors.New("type is not on the whitelist")

	// ErrDescriptorNotFound is returned when a schema was fully processed and
	// still did not describe the requested type descriptor.
	ErrDescriptorNotFound = errors.New("descriptor not found in schema")

	// ErrUnsupportedContainer is returned when a concrete map or collection
	// implementation cannot be carried over the wire.
	ErrUnsupportedContainer = errors.New("unsupported container implementation")

	// ErrInvalidTypeName is returned when a wire-level type name cannot be
	// parsed into a type identifier.
	ErrInvalidTypeName = errors.New("invalid type name")
)

// CarpentryError carries the identity of the type whose synthesis failed
// alongside the underlying cause. It unwraps to ErrCarpentry.
type CarpentryError struct {
	TypeName string
	err      error
}

// enforce compilation error
var _ error = (*CarpentryError)(nil)

// NewCarpentryError returns an instance of CarpentryError
func NewCarpentryError(typeName string, err error) *CarpentryError {
	return &CarpentryError{TypeName: typeName, err: err}
}

func (e *CarpentryError) Error() string {
	return fmt.Sprintf("carpentry failed for %s: %v", e.TypeName, e.err)
}

func (e *CarpentryError) Unwrap() error {
	return ErrCarpentry
}

// Cause returns the underlying synthesis failure.
func (e *CarpentryError) Cause() error {
	return e.err
}
