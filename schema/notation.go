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

package schema

// TypeNotation is one wire-level schema entry. It is a closed sum: the only
// implementations are CompositeType and RestrictedType, and every dispatch on
// a notation is an exhaustive type switch over those two.
type TypeNotation interface {
	// Name returns the canonical wire name of the described type
	Name() string
	// Descriptor returns the sender-minted descriptor of the described type
	Descriptor() Descriptor

	sealed()
}

// Field is one named property of a composite type as declared on the wire.
type Field struct {
	Name      string
	Type      string
	Mandatory bool
}

// CompositeType describes a concrete class or an interface: its named fields
// and the interface names it provides or extends. Read-only once received.
type CompositeType struct {
	TypeName string
	Desc     Descriptor
	Fields   []Field
	Provides []string

	// Interface marks a notation declaring an interface rather than a
	// concrete class. Fields are then the properties every implementor
	// exposes, and Provides lists super-interfaces.
	Interface bool
}

var _ TypeNotation = (*CompositeType)(nil)

// Name returns the canonical wire name of the described type
func (c *CompositeType) Name() string { return c.TypeName }

// Descriptor returns the sender-minted descriptor of the described type
func (c *CompositeType) Descriptor() Descriptor { return c.Desc }

func (c *CompositeType) sealed() {}

// RestrictedSource tells what container family a RestrictedType restricts.
type RestrictedSource string

const (
	// SourceList marks a sequence restriction
	SourceList RestrictedSource = "list"
	// SourceMap marks a key-value restriction
	SourceMap RestrictedSource = "map"
	// SourceEnum marks an enumeration restriction
	SourceEnum RestrictedSource = "enum"
)

// RestrictedType describes a collection, map or enum shape: a restriction of
// a source container to concrete element types, or of a string to a fixed
// choice set. Read-only once received.
type RestrictedType struct {
	TypeName string
	Desc     Descriptor
	Source   RestrictedSource
	Elements []string
	Choices  []string
}

var _ TypeNotation = (*RestrictedType)(nil)

// Name returns the canonical wire name of the described type
func (r *RestrictedType) Name() string { return r.TypeName }

// Descriptor returns the sender-minted descriptor of the described type
func (r *RestrictedType) Descriptor() Descriptor { return r.Desc }

func (r *RestrictedType) sealed() {}

// Schema is the ordered set of type notations carried by one envelope,
// indexed for lookup both by descriptor and by canonical name. Appends
// deduplicate on descriptor so a schema can double as a builder on the
// encode path.
type Schema struct {
	types        []TypeNotation
	byDescriptor map[Descriptor]TypeNotation
	byName       map[string]TypeNotation
}

// NewSchema creates a schema from the given notations, preserving order.
func NewSchema(types ...TypeNotation) *Schema {
	s := &Schema{
		byDescriptor: make(map[Descriptor]TypeNotation, len(types)),
		byName:       make(map[string]TypeNotation, len(types)),
	}
	for _, t := range types {
		s.Append(t)
	}
	return s
}

// Append adds a notation unless one with the same descriptor is present,
// reporting whether it was added.
func (s *Schema) Append(t TypeNotation) bool {
	if _, ok := s.byDescriptor[t.Descriptor()]; ok {
		return false
	}
	s.types = append(s.types, t)
	s.byDescriptor[t.Descriptor()] = t
	s.byName[t.Name()] = t
	return true
}

// Types returns the notations in insertion order.
func (s *Schema) Types() []TypeNotation { return s.types }

// ByDescriptor looks a notation up by its wire descriptor.
func (s *Schema) ByDescriptor(d Descriptor) (TypeNotation, bool) {
	t, ok := s.byDescriptor[d]
	return t, ok
}

// ByName looks a notation up by its canonical wire name.
func (s *Schema) ByName(n string) (TypeNotation, bool) {
	t, ok := s.byName[n]
	return t, ok
}

// Len returns the number of notations held.
func (s *Schema) Len() int { return len(s.types) }
