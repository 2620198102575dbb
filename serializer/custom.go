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

package serializer

import (
	"reflect"

	"github.com/quorumline/amqpserde/schema"
)

// CustomSerializer is a user-registered serializer that takes over wire
// representation for the types it claims. Registration order decides
// selection when several serializers claim the same type.
type CustomSerializer interface {
	Serializer

	// IsSerializerFor reports whether this serializer handles rtype.
	IsSerializerFor(rtype reflect.Type) bool

	// Dependents lists serializers that must be registered alongside this
	// one, typically for the wire proxy types it writes.
	Dependents() []CustomSerializer

	// RevealSubclasses reports whether concrete types handled through a
	// broader claim should still publish their own name and descriptor.
	RevealSubclasses() bool
}

// BaseCustomSerializer carries the no-op defaults so most custom serializers
// only implement the Serializer surface plus IsSerializerFor.
type BaseCustomSerializer struct{}

func (BaseCustomSerializer) Dependents() []CustomSerializer { return nil }
func (BaseCustomSerializer) RevealSubclasses() bool         { return false }

// typePair keys the custom-serializer selection cache.
type typePair struct {
	actual   reflect.Type
	declared reflect.Type
}

// customChoice memoizes a selection outcome, including "none found".
type customChoice struct {
	ser Serializer
}

// Register adds a custom serializer and, recursively, its dependents.
// A serializer whose descriptor is already registered is skipped together
// with its dependents; the skip is logged at warning level rather than
// silently dropped.
func (f *Factory) Register(cs CustomSerializer) {
	f.registerCustom(cs, true)
}

// RegisterExternal registers a serializer sourced from plugin code. The
// idempotency rule is the same as Register but dependents are not followed.
func (f *Factory) RegisterExternal(cs CustomSerializer) {
	f.registerCustom(cs, false)
}

func (f *Factory) registerCustom(cs CustomSerializer, withDependents bool) {
	desc := cs.TypeDescriptor()
	if _, ok := f.customByDescriptor.Get(desc); ok {
		f.logger.Warnf("custom serializer for %s already registered under %s, skipping", cs.Type(), desc)
		return
	}
	f.customByDescriptor.Set(desc, cs)
	f.customSerializers.Append(cs)
	f.byDescriptor.Set(desc, cs)
	if !withDependents {
		return
	}
	for _, dep := range cs.Dependents() {
		f.registerCustom(dep, true)
	}
}

// findCustomSerializer scans registered serializers in registration order
// and memoizes the outcome per (actual, declared) pair.
func (f *Factory) findCustomSerializer(actual, declared reflect.Type) Serializer {
	choice, _ := f.customCache.GetOrCompute(typePair{actual: actual, declared: declared}, func() (customChoice, error) {
		for _, cs := range f.customSerializers.Snapshot() {
			if !cs.IsSerializerFor(actual) {
				continue
			}
			if cs.Type() != actual && cs.RevealSubclasses() {
				return customChoice{ser: f.revealSubclass(cs, actual)}, nil
			}
			return customChoice{ser: cs}, nil
		}
		return customChoice{}, nil
	})
	return choice.ser
}

// revealSubclass wraps a broadly claimed serializer so the concrete type's
// own name and descriptor appear on the wire.
func (f *Factory) revealSubclass(inner CustomSerializer, actual reflect.Type) Serializer {
	ser := &subclassSerializer{
		inner:      inner,
		rtype:      actual,
		name:       f.wireNameFor(actual),
		descriptor: f.fingerprinter.Fingerprint(actual),
	}
	f.byDescriptor.Set(ser.descriptor, ser)
	return ser
}

// subclassSerializer delegates the wire work to the claiming serializer
// while publishing the concrete type's identity.
type subclassSerializer struct {
	inner      CustomSerializer
	rtype      reflect.Type
	name       string
	descriptor schema.Descriptor
}

var _ Serializer = (*subclassSerializer)(nil)

func (s *subclassSerializer) Type() reflect.Type                { return s.rtype }
func (s *subclassSerializer) TypeDescriptor() schema.Descriptor { return s.descriptor }

func (s *subclassSerializer) WriteObject(v any) (any, error) { return s.inner.WriteObject(v) }
func (s *subclassSerializer) ReadObject(w any) (any, error)  { return s.inner.ReadObject(w) }

func (s *subclassSerializer) WriteSchema(sch *schema.Schema) {
	if !sch.Append(&schema.CompositeType{TypeName: s.name, Desc: s.descriptor}) {
		return
	}
	s.inner.WriteSchema(sch)
}
