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
	"fmt"
	"reflect"

	"github.com/quorumline/amqpserde/schema"
)

// primitiveSerializer carries wire primitives: fixed-width numbers, booleans,
// strings and binary. The wire descriptor of a primitive is its wire name.
type primitiveSerializer struct {
	rtype reflect.Type
	name  string
}

var _ Serializer = (*primitiveSerializer)(nil)

func newPrimitiveSerializer(rtype reflect.Type, name string) *primitiveSerializer {
	return &primitiveSerializer{rtype: rtype, name: name}
}

func (s *primitiveSerializer) Type() reflect.Type { return s.rtype }

func (s *primitiveSerializer) TypeDescriptor() schema.Descriptor {
	return schema.Descriptor(s.name)
}

func (s *primitiveSerializer) WriteObject(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != s.rtype && !rv.Type().ConvertibleTo(s.rtype) {
		return nil, fmt.Errorf("expected %s, got %T", s.rtype, v)
	}
	return rv.Convert(s.rtype).Interface(), nil
}

func (s *primitiveSerializer) ReadObject(wire any) (any, error) {
	rv, err := coerce(wire, s.rtype)
	if err != nil {
		return nil, err
	}
	return rv.Interface(), nil
}

// WriteSchema contributes nothing: primitives are self-describing in the
// binary codec and never appear in the schema.
func (s *primitiveSerializer) WriteSchema(*schema.Schema) {}

// anySerializer passes wire trees through untouched. It backs interface-typed
// properties of carpented types, where the receiver has no structural
// information beyond what the wire node itself carries.
type anySerializer struct{}

var _ Serializer = anySerializer{}

var anyType = reflect.TypeOf((*any)(nil)).Elem()

func (anySerializer) Type() reflect.Type                 { return anyType }
func (anySerializer) TypeDescriptor() schema.Descriptor  { return "*" }
func (anySerializer) WriteObject(v any) (any, error)     { return v, nil }
func (anySerializer) ReadObject(wire any) (any, error)   { return wire, nil }
func (anySerializer) WriteSchema(*schema.Schema)         {}
