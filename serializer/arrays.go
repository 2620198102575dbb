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

// arraySerializer handles fixed-length arrays. The wire form is the same
// sequence a slice produces; length is enforced on read. Primitive-component
// arrays and reference-component arrays carry distinct wire names so that
// int[p] and Integer[] never collide.
type arraySerializer struct {
	factory    *Factory
	rtype      reflect.Type
	name       string
	descriptor schema.Descriptor

	once    sync.Once
	elem    Serializer
	initErr error
}

var _ Serializer = (*arraySerializer)(nil)

func newArraySerializer(f *Factory, rtype reflect.Type) *arraySerializer {
	return &arraySerializer{
		factory:    f,
		rtype:      rtype,
		name:       f.wireNameFor(rtype),
		descriptor: f.fingerprinter.Fingerprint(rtype),
	}
}

func (s *arraySerializer) Type() reflect.Type                { return s.rtype }
func (s *arraySerializer) TypeDescriptor() schema.Descriptor { return s.descriptor }

func (s *arraySerializer) ensure() error {
	s.once.Do(func() {
		elem := s.rtype.Elem()
		if elem.Kind() == reflect.Interface {
			s.elem = anySerializer{}
			return
		}
		s.elem, s.initErr = s.factory.Get(elem, elem)
	})
	return s.initErr
}

func (s *arraySerializer) WriteObject(v any) (any, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != s.rtype {
		return nil, fmt.Errorf("expected %s, got %T", s.rtype, v)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		ev := rv.Index(i)
		if isNilable(ev.Kind()) && ev.IsNil() {
			out[i] = nil
			continue
		}
		wire, err := s.elem.WriteObject(ev.Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d of %s: %w", i, s.name, err)
		}
		out[i] = wire
	}
	return out, nil
}

func (s *arraySerializer) ReadObject(wire any) (any, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	seq, err := wireList(wire)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}
	if len(seq) != s.rtype.Len() {
		return nil, fmt.Errorf("reading %s: expected %d elements, got %d", s.name, s.rtype.Len(), len(seq))
	}
	out := reflect.New(s.rtype).Elem()
	for i, raw := range seq {
		if raw == nil {
			continue
		}
		val, err := s.elem.ReadObject(raw)
		if err != nil {
			return nil, fmt.Errorf("element %d of %s: %w", i, s.name, err)
		}
		if err := setField(out.Index(i), val, false); err != nil {
			return nil, fmt.Errorf("element %d of %s: %w", i, s.name, err)
		}
	}
	return out.Interface(), nil
}

func (s *arraySerializer) WriteSchema(sch *schema.Schema) {
	if s.ensure() != nil {
		return
	}
	if !sch.Append(s.notation()) {
		return
	}
	s.elem.WriteSchema(sch)
}

func (s *arraySerializer) notation() *schema.RestrictedType {
	return &schema.RestrictedType{
		TypeName: s.name,
		Desc:     s.descriptor,
		Source:   schema.SourceList,
		Elements: []string{s.factory.wireNameFor(s.rtype.Elem())},
	}
}
