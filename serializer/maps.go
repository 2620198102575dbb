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

	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/schema"
)

// mapSerializer handles maps with string keys. Wire form is a plain
// map keyed by the string representation of the key.
type mapSerializer struct {
	factory    *Factory
	rtype      reflect.Type
	name       string
	descriptor schema.Descriptor

	once    sync.Once
	value   Serializer
	initErr error
}

var _ Serializer = (*mapSerializer)(nil)

func newMapSerializer(f *Factory, rtype reflect.Type) (*mapSerializer, error) {
	if rtype.Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: map key type %s", errors.ErrUnsupportedContainer, rtype.Key())
	}
	return &mapSerializer{
		factory:    f,
		rtype:      rtype,
		name:       f.wireNameFor(rtype),
		descriptor: f.fingerprinter.Fingerprint(rtype),
	}, nil
}

func (s *mapSerializer) Type() reflect.Type                { return s.rtype }
func (s *mapSerializer) TypeDescriptor() schema.Descriptor { return s.descriptor }

func (s *mapSerializer) ensure() error {
	s.once.Do(func() {
		value := s.rtype.Elem()
		if value.Kind() == reflect.Interface {
			s.value = anySerializer{}
			return
		}
		s.value, s.initErr = s.factory.Get(value, value)
	})
	return s.initErr
}

func (s *mapSerializer) WriteObject(v any) (any, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != s.rtype && !rv.Type().AssignableTo(s.rtype) {
		return nil, fmt.Errorf("expected %s, got %T", s.rtype, v)
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		val := iter.Value()
		if isNilable(val.Kind()) && val.IsNil() {
			out[key] = nil
			continue
		}
		wire, err := s.value.WriteObject(val.Interface())
		if err != nil {
			return nil, fmt.Errorf("entry %q of %s: %w", key, s.name, err)
		}
		out[key] = wire
	}
	return out, nil
}

func (s *mapSerializer) ReadObject(wire any) (any, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	m, err := wireMap(wire)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}
	out := reflect.MakeMapWithSize(s.rtype, len(m))
	valueType := s.rtype.Elem()
	for key, raw := range m {
		kv := reflect.ValueOf(key)
		if kv.Type() != s.rtype.Key() {
			kv = kv.Convert(s.rtype.Key())
		}
		if raw == nil {
			out.SetMapIndex(kv, reflect.Zero(valueType))
			continue
		}
		val, err := s.value.ReadObject(raw)
		if err != nil {
			return nil, fmt.Errorf("entry %q of %s: %w", key, s.name, err)
		}
		vv := reflect.ValueOf(val)
		if vv.Type() != valueType && !vv.Type().AssignableTo(valueType) {
			converted, err := coerce(val, valueType)
			if err != nil {
				return nil, fmt.Errorf("entry %q of %s: %w", key, s.name, err)
			}
			vv = converted
		}
		out.SetMapIndex(kv, vv)
	}
	return out.Interface(), nil
}

func (s *mapSerializer) WriteSchema(sch *schema.Schema) {
	if s.ensure() != nil {
		return
	}
	if !sch.Append(s.notation()) {
		return
	}
	s.value.WriteSchema(sch)
}

func (s *mapSerializer) notation() *schema.RestrictedType {
	return &schema.RestrictedType{
		TypeName: s.name,
		Desc:     s.descriptor,
		Source:   schema.SourceMap,
		Elements: []string{"string", s.factory.wireNameFor(s.rtype.Elem())},
	}
}
