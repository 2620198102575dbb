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

// EvolutionPolicy supplies values for local properties absent from a remote
// shape. The zero-value policy is the default; deployments with richer
// evolution rules plug in their own.
type EvolutionPolicy interface {
	// Default returns the value for a local property the remote shape never
	// carried. Returning ok=false leaves the property at its zero value.
	Default(typeName, property string) (any, bool)
}

// ZeroDefaults is the default policy: added properties take their zero value.
type ZeroDefaults struct{}

var _ EvolutionPolicy = ZeroDefaults{}

func (ZeroDefaults) Default(string, string) (any, bool) { return nil, false }

// maybeEvolve wraps a freshly built serializer when the remote notation's
// shape differs from the local one. An unchanged shape returns the input
// serializer itself, so callers can detect the no-op by identity.
func (f *Factory) maybeEvolve(remote schema.TypeNotation, local Serializer) (Serializer, error) {
	composite, ok := remote.(*schema.CompositeType)
	if !ok {
		return local, nil
	}
	obj, ok := local.(*objectSerializer)
	if !ok {
		return local, nil
	}
	if err := obj.ensure(); err != nil {
		return nil, err
	}

	remoteFields := make(map[string]schema.Field, len(composite.Fields))
	for _, field := range composite.Fields {
		remoteFields[field.Name] = field
	}

	// a property the remote never carried, or carried under a different wire
	// type, cannot be read from this shape; the policy supplies its value
	var added []property
	same := len(remoteFields) == len(obj.props)
	for _, p := range obj.props {
		field, ok := remoteFields[p.wireName]
		if !ok || field.Type != f.wireNameFor(p.valueType) {
			added = append(added, p)
			same = false
		}
	}
	if same {
		return local, nil
	}

	f.logger.Debugf("shape drift for %s: remote %s, local %s", obj.name, remote.Descriptor(), obj.descriptor)
	return &evolutionSerializer{
		inner:      obj,
		descriptor: remote.Descriptor(),
		added:      added,
		policy:     f.evolution,
	}, nil
}

// evolutionSerializer reads wire maps produced under an older or newer shape
// of the same type. Removed properties are dropped on the floor; added and
// retyped ones come from the policy. The descriptor it answers to is the
// remote one, so the decode cache finds it under the wire's own key.
type evolutionSerializer struct {
	inner      *objectSerializer
	descriptor schema.Descriptor
	added      []property
	policy     EvolutionPolicy
}

var _ Serializer = (*evolutionSerializer)(nil)

func (s *evolutionSerializer) Type() reflect.Type                { return s.inner.rtype }
func (s *evolutionSerializer) TypeDescriptor() schema.Descriptor { return s.descriptor }

func (s *evolutionSerializer) WriteObject(v any) (any, error) {
	return s.inner.WriteObject(v)
}

func (s *evolutionSerializer) ReadObject(wire any) (any, error) {
	decoded, err := wireMap(wire)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.inner.name, err)
	}
	m := make(map[string]any, len(decoded)+len(s.added))
	for k, v := range decoded {
		m[k] = v
	}
	for _, p := range s.added {
		// any remote value under this name was declared with a drifted type
		// and cannot be read as-is; the policy value stands in
		delete(m, p.wireName)
		if val, ok := s.policy.Default(s.inner.name, p.wireName); ok {
			m[p.wireName] = val
		}
	}
	return s.inner.ReadObject(m)
}

func (s *evolutionSerializer) WriteSchema(sch *schema.Schema) {
	s.inner.WriteSchema(sch)
}
