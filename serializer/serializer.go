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

// Package serializer is the heart of the engine: the serializer factory and
// registry, the remote type resolver that falls back to carpentry, and the
// evolution machinery that bridges schema drift between peers.
//
// Serializers convert between runtime values and wire trees: scalars, []any
// sequences and map-shaped nodes. The envelope layer marshals wire trees with
// the underlying binary codec.
package serializer

import (
	"fmt"
	"reflect"

	"github.com/quorumline/amqpserde/schema"
)

// Serializer converts values of one type to and from their wire form. A
// serializer is immutable and safe for concurrent use once published by the
// factory.
type Serializer interface {
	// Type returns the runtime type this serializer handles
	Type() reflect.Type
	// TypeDescriptor returns the wire descriptor this serializer publishes
	TypeDescriptor() schema.Descriptor
	// WriteObject converts a value into its wire tree
	WriteObject(v any) (any, error)
	// ReadObject reconstructs a value from its wire tree
	ReadObject(wire any) (any, error)
	// WriteSchema appends this serializer's notations, and those of every
	// serializer it delegates to, to the given schema
	WriteSchema(sch *schema.Schema)
}

// wireMap normalizes a wire node into a string-keyed map. The binary codec
// decodes maps with interface keys, so both shapes must be accepted.
func wireMap(wire any) (map[string]any, error) {
	switch m := wire.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("wire map key %v (%T) is not a string", k, k)
			}
			out[ks] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a wire map, got %T", wire)
	}
}

// wireList normalizes a wire node into a sequence.
func wireList(wire any) ([]any, error) {
	seq, ok := wire.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a wire sequence, got %T", wire)
	}
	return seq, nil
}

// coerce converts a decoded wire scalar into target. The binary codec
// decodes integers as uint64 or int64 and floats as float64 regardless of
// the encoded width, so the declared type drives the conversion back.
func coerce(wire any, target reflect.Type) (reflect.Value, error) {
	if wire == nil {
		return reflect.Zero(target), nil
	}
	v := reflect.ValueOf(wire)
	if v.Type() == target {
		return v, nil
	}
	if v.Type().ConvertibleTo(target) {
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			switch target.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
				reflect.Float32, reflect.Float64:
				return v.Convert(target), nil
			}
		case reflect.String:
			if target.Kind() == reflect.String {
				return v.Convert(target), nil
			}
		case reflect.Bool:
			if target.Kind() == reflect.Bool {
				return v.Convert(target), nil
			}
		case reflect.Slice:
			if target.Kind() == reflect.Slice && v.Type().Elem() == target.Elem() {
				return v.Convert(target), nil
			}
		}
	}
	return reflect.Value{}, fmt.Errorf("cannot convert wire value %v (%T) to %s", wire, wire, target)
}
