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

// singletonSerializer handles types registered as process-wide singletons.
// Only the type name crosses the wire; the reader hands back the locally
// registered instance, so identity is preserved on each side.
type singletonSerializer struct {
	rtype      reflect.Type
	name       string
	descriptor schema.Descriptor
	instance   any
}

var _ Serializer = (*singletonSerializer)(nil)

func newSingletonSerializer(f *Factory, rtype reflect.Type, name string, instance any) *singletonSerializer {
	return &singletonSerializer{
		rtype:      rtype,
		name:       name,
		descriptor: f.fingerprinter.Fingerprint(rtype),
		instance:   instance,
	}
}

func (s *singletonSerializer) Type() reflect.Type                { return s.rtype }
func (s *singletonSerializer) TypeDescriptor() schema.Descriptor { return s.descriptor }

func (s *singletonSerializer) WriteObject(any) (any, error) {
	return s.name, nil
}

func (s *singletonSerializer) ReadObject(wire any) (any, error) {
	name, ok := wire.(string)
	if !ok {
		return nil, fmt.Errorf("reading %s: wire value is %T, not string", s.name, wire)
	}
	if name != s.name {
		return nil, fmt.Errorf("reading %s: wire names %q", s.name, name)
	}
	return s.instance, nil
}

func (s *singletonSerializer) WriteSchema(sch *schema.Schema) {
	sch.Append(&schema.CompositeType{TypeName: s.name, Desc: s.descriptor})
}
