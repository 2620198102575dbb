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
	"sync"

	"github.com/quorumline/amqpserde/schema"
)

// property binds one exported struct field to its wire name and the
// serializer for its value type.
type property struct {
	wireName  string
	index     int
	valueType reflect.Type
	optional  bool
	ser       Serializer
}

// objectSerializer is the generic structural serializer: it writes one wire
// map entry per exported field and reads fields back by wire name. Property
// serializers are resolved lazily on first use, which keeps recursive types
// from re-entering the factory cache during construction.
type objectSerializer struct {
	factory    *Factory
	rtype      reflect.Type
	name       string
	descriptor schema.Descriptor

	once    sync.Once
	props   []property
	initErr error
}

var _ Serializer = (*objectSerializer)(nil)

func newObjectSerializer(f *Factory, rtype reflect.Type, name string) *objectSerializer {
	return &objectSerializer{
		factory:    f,
		rtype:      rtype,
		name:       name,
		descriptor: f.fingerprinter.Fingerprint(rtype),
	}
}

func (s *objectSerializer) Type() reflect.Type                { return s.rtype }
func (s *objectSerializer) TypeDescriptor() schema.Descriptor { return s.descriptor }

// ensure resolves the property serializers exactly once.
func (s *objectSerializer) ensure() error {
	s.once.Do(func() {
		for i := 0; i < s.rtype.NumField(); i++ {
			field := s.rtype.Field(i)
			if !field.IsExported() {
				continue
			}

			valueType := field.Type
			optional := false
			if valueType.Kind() == reflect.Pointer {
				valueType = valueType.Elem()
				optional = true
			}

			var ser Serializer
			if valueType.Kind() == reflect.Interface {
				ser = anySerializer{}
			} else {
				var err error
				ser, err = s.factory.Get(valueType, valueType)
				if err != nil {
					s.initErr = fmt.Errorf("property %q of %s: %w", schema.WireName(field), s.name, err)
					return
				}
			}
			s.props = append(s.props, property{
				wireName:  schema.WireName(field),
				index:     i,
				valueType: valueType,
				optional:  optional,
				ser:       ser,
			})
		}
	})
	return s.initErr
}

func (s *objectSerializer) WriteObject(v any) (any, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Type() != s.rtype {
		return nil, fmt.Errorf("expected %s, got %T", s.rtype, v)
	}

	out := make(map[string]any, len(s.props))
	for _, p := range s.props {
		fv := rv.Field(p.index)
		if p.optional {
			if fv.IsNil() {
				out[p.wireName] = nil
				continue
			}
			fv = fv.Elem()
		}
		wire, err := p.ser.WriteObject(fv.Interface())
		if err != nil {
			return nil, fmt.Errorf("property %q of %s: %w", p.wireName, s.name, err)
		}
		out[p.wireName] = wire
	}
	return out, nil
}

func (s *objectSerializer) ReadObject(wire any) (any, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	m, err := wireMap(wire)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}

	out := reflect.New(s.rtype).Elem()
	for _, p := range s.props {
		raw, ok := m[p.wireName]
		if !ok || raw == nil {
			// absent or null: the field keeps its zero value
			continue
		}
		val, err := p.ser.ReadObject(raw)
		if err != nil {
			return nil, fmt.Errorf("property %q of %s: %w", p.wireName, s.name, err)
		}
		if err := setField(out.Field(p.index), val, p.optional); err != nil {
			return nil, fmt.Errorf("property %q of %s: %w", p.wireName, s.name, err)
		}
	}
	return out.Interface(), nil
}

func (s *objectSerializer) WriteSchema(sch *schema.Schema) {
	if s.ensure() != nil {
		return
	}
	if !sch.Append(s.notation()) {
		return
	}
	for _, p := range s.props {
		p.ser.WriteSchema(sch)
	}
}

// notation renders this serializer's composite wire entry.
func (s *objectSerializer) notation() *schema.CompositeType {
	fields := make([]schema.Field, 0, len(s.props))
	for _, p := range s.props {
		fields = append(fields, schema.Field{
			Name:      p.wireName,
			Type:      s.factory.wireNameFor(p.valueType),
			Mandatory: !p.optional,
		})
	}
	return &schema.CompositeType{TypeName: s.name, Desc: s.descriptor, Fields: fields}
}

// setField assigns a decoded value into a struct field, converting between
// compatible kinds and boxing optionals behind a pointer.
func setField(field reflect.Value, val any, optional bool) error {
	target := field.Type()
	if optional {
		target = target.Elem()
	}

	rv := reflect.ValueOf(val)
	if rv.Type() != target {
		if rv.Type().AssignableTo(target) {
			// interface or alias assignment
		} else {
			converted, err := coerce(val, target)
			if err != nil {
				return err
			}
			rv = converted
		}
	}

	if optional {
		boxed := reflect.New(target)
		boxed.Elem().Set(rv)
		field.Set(boxed)
		return nil
	}
	field.Set(rv)
	return nil
}
