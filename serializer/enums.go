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

	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/schema"
)

// enumSerializer writes registered enum constants as [name, ordinal] pairs
// and restores them by name, so reordering constants on one side does not
// change what the other side reads.
type enumSerializer struct {
	rtype      reflect.Type
	name       string
	descriptor schema.Descriptor
	members    []string
	ordinals   map[string]int
}

var _ Serializer = (*enumSerializer)(nil)

func newEnumSerializer(f *Factory, rtype reflect.Type, name string, members []string) (*enumSerializer, error) {
	if !enumKind(rtype) {
		return nil, fmt.Errorf("%w: enum %s has non-integral kind %s", errors.ErrNotSerializable, name, rtype.Kind())
	}
	ordinals := make(map[string]int, len(members))
	for i, m := range members {
		ordinals[m] = i
	}
	return &enumSerializer{
		rtype:      rtype,
		name:       name,
		descriptor: f.fingerprinter.Fingerprint(rtype),
		members:    members,
		ordinals:   ordinals,
	}, nil
}

// enumKind admits locally registered integral enums and the single
// ordinal-field types carpentry synthesizes for remote enums.
func enumKind(rtype reflect.Type) bool {
	switch rtype.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	case reflect.Struct:
		return rtype.NumField() == 1 && rtype.Field(0).Type.Kind() == reflect.Int64
	default:
		return false
	}
}

// ordinalOf extracts the ordinal from an enum value of any admitted kind.
func ordinalOf(rv reflect.Value) int {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint())
	case reflect.Struct:
		return int(rv.Field(0).Int())
	default:
		return int(rv.Int())
	}
}

func (s *enumSerializer) Type() reflect.Type                { return s.rtype }
func (s *enumSerializer) TypeDescriptor() schema.Descriptor { return s.descriptor }

func (s *enumSerializer) WriteObject(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Type() != s.rtype {
		return nil, fmt.Errorf("expected %s, got %T", s.rtype, v)
	}
	ordinal := ordinalOf(rv)
	if ordinal < 0 || ordinal >= len(s.members) {
		return nil, fmt.Errorf("value %d is not a constant of %s", ordinal, s.name)
	}
	return []any{s.members[ordinal], ordinal}, nil
}

func (s *enumSerializer) ReadObject(wire any) (any, error) {
	seq, err := wireList(wire)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}
	if len(seq) != 2 {
		return nil, fmt.Errorf("reading %s: expected [name, ordinal], got %d elements", s.name, len(seq))
	}
	member, ok := seq[0].(string)
	if !ok {
		return nil, fmt.Errorf("reading %s: constant name is %T, not string", s.name, seq[0])
	}
	ordinal, ok := s.ordinals[member]
	if !ok {
		return nil, fmt.Errorf("%q is not a constant of %s", member, s.name)
	}
	out := reflect.New(s.rtype).Elem()
	switch out.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetUint(uint64(ordinal))
	case reflect.Struct:
		out.Field(0).SetInt(int64(ordinal))
	default:
		out.SetInt(int64(ordinal))
	}
	return out.Interface(), nil
}

func (s *enumSerializer) WriteSchema(sch *schema.Schema) {
	sch.Append(&schema.RestrictedType{
		TypeName: s.name,
		Desc:     s.descriptor,
		Source:   schema.SourceEnum,
		Choices:  append([]string(nil), s.members...),
	})
}
