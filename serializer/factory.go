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
	"strings"

	"go.uber.org/atomic"

	"github.com/quorumline/amqpserde/carpentry"
	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/hash"
	"github.com/quorumline/amqpserde/internal/compression"
	"github.com/quorumline/amqpserde/internal/registry"
	"github.com/quorumline/amqpserde/internal/xsync"
	"github.com/quorumline/amqpserde/log"
	"github.com/quorumline/amqpserde/schema"
)

// Factory resolves or builds a serializer for any (actual, declared) type
// pair on the encode path and for any (descriptor, schema) pair on the
// decode path. It is safe for concurrent use: all caches have atomic
// get-or-create semantics, grow unbounded and live for the process.
type Factory struct {
	registry      registry.LocalTypes
	hasher        hash.Hasher
	fingerprinter *schema.Fingerprinter
	resolver      *Resolver
	whitelist     Whitelist
	evolution     EvolutionPolicy
	encoding      compression.Codec
	logger        log.Logger
	customOnly    bool

	byType             *xsync.Map[reflect.Type, Serializer]
	byDescriptor       *xsync.Map[schema.Descriptor, Serializer]
	customSerializers  *xsync.List[CustomSerializer]
	customByDescriptor *xsync.Map[schema.Descriptor, CustomSerializer]
	customCache        *xsync.Map[typePair, customChoice]

	builds *atomic.Int64
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithWhitelist replaces the allow-all default policy gate.
func WithWhitelist(w Whitelist) FactoryOption {
	return func(f *Factory) { f.whitelist = w }
}

// WithLogger sets the factory's logger.
func WithLogger(logger log.Logger) FactoryOption {
	return func(f *Factory) { f.logger = logger }
}

// WithHasher replaces the fingerprint hash function.
func WithHasher(h hash.Hasher) FactoryOption {
	return func(f *Factory) { f.hasher = h }
}

// WithRegistry replaces the local type registry.
func WithRegistry(reg registry.LocalTypes) FactoryOption {
	return func(f *Factory) { f.registry = reg }
}

// WithCustomOnly makes the factory reject any class lacking a registered
// custom serializer instead of falling back to the structural one.
func WithCustomOnly() FactoryOption {
	return func(f *Factory) { f.customOnly = true }
}

// WithEvolutionPolicy replaces the zero-defaults evolution policy.
func WithEvolutionPolicy(p EvolutionPolicy) FactoryOption {
	return func(f *Factory) { f.evolution = p }
}

// WithEncoding compresses envelope payloads with the given codec. Receivers
// pick the codec from the envelope, so only senders need this option.
func WithEncoding(codec compression.Codec) FactoryOption {
	return func(f *Factory) { f.encoding = codec }
}

// NewFactory creates a Factory. Defaults: a fresh type registry, xxhash
// fingerprints, allow-all whitelist, zero-value evolution defaults and a
// discarding logger.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		registry:           registry.New(),
		whitelist:          AllowAll(),
		evolution:          ZeroDefaults{},
		logger:             log.DiscardLogger,
		hasher:             hash.DefaultHasher(),
		byType:             xsync.NewMap[reflect.Type, Serializer](),
		byDescriptor:       xsync.NewMap[schema.Descriptor, Serializer](),
		customSerializers:  xsync.NewList[CustomSerializer](),
		customByDescriptor: xsync.NewMap[schema.Descriptor, CustomSerializer](),
		customCache:        xsync.NewMap[typePair, customChoice](),
		builds:             atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.fingerprinter = schema.NewFingerprinter(f.hasher, f.registry)
	f.resolver = NewResolver(f.registry, carpentry.New(carpentry.WithLogger(f.logger)), f.fingerprinter, f.logger)
	return f
}

// Registry exposes the local type registry so callers can register their
// types, enums and singletons before serializing.
func (f *Factory) Registry() registry.LocalTypes { return f.registry }

// Builds returns how many serializers this factory has constructed.
func (f *Factory) Builds() int64 { return f.builds.Load() }

// Get returns the serializer for an (actual, declared) type pair, building
// and caching it on first request. Concurrent first requests for the same
// type collapse to one build and every caller gets the same instance.
func (f *Factory) Get(actual, declared reflect.Type) (Serializer, error) {
	effective := actual
	if effective == nil {
		effective = declared
	}
	if effective == nil {
		return nil, fmt.Errorf("%w: no type information", errors.ErrNotSerializable)
	}
	for effective.Kind() == reflect.Pointer {
		effective = effective.Elem()
	}

	switch {
	case effective.Kind() == reflect.Interface:
		return anySerializer{}, nil

	case effective.Kind() == reflect.Slice && !isBinary(effective) && !f.registry.IsEnum(effective):
		return f.getOrBuild(effective, func() (Serializer, error) {
			return newListSerializer(f, effective), nil
		})

	case effective.Kind() == reflect.Map:
		return f.getOrBuild(effective, func() (Serializer, error) {
			return newMapSerializer(f, effective)
		})

	case f.registry.IsEnum(effective):
		return f.getOrBuild(effective, func() (Serializer, error) {
			if err := f.whitelist.RequireWhitelisted(effective); err != nil {
				return nil, err
			}
			name := f.wireNameFor(effective)
			members, _ := f.registry.EnumNames(effective)
			return newEnumSerializer(f, effective, name, members)
		})

	default:
		return f.classSerializer(effective, declared)
	}
}

// classSerializer covers the non-container branch of the dispatch order:
// primitives, custom serializers, fixed arrays, singletons, then the
// generic structural serializer.
func (f *Factory) classSerializer(effective, declared reflect.Type) (Serializer, error) {
	registered := false
	if _, ok := f.registry.NameFor(effective); ok {
		registered = true
	}
	if !registered && effective.Name() == "" && effective.Kind() == reflect.Struct {
		// an unregistered anonymous struct has no name a peer could
		// resolve, so it can never be reconstructed remotely
		return nil, fmt.Errorf("%w: anonymous type %s", errors.ErrNotSerializable, effective)
	}

	if !registered && !f.registry.IsEnum(effective) {
		if name, ok := schema.PrimitiveNameFor(effective); ok && effective.Kind() != reflect.Struct {
			return f.getOrBuild(effective, func() (Serializer, error) {
				return newPrimitiveSerializer(effective, name), nil
			})
		}
	}

	if declared == nil {
		declared = effective
	}
	if custom := f.findCustomSerializer(effective, declared); custom != nil {
		return custom, nil
	}
	if f.customOnly {
		return nil, fmt.Errorf("%w: no custom serializer registered for %s", errors.ErrNotSerializable, effective)
	}

	switch {
	case effective.Kind() == reflect.Array:
		return f.getOrBuild(effective, func() (Serializer, error) {
			return newArraySerializer(f, effective), nil
		})

	case f.registry.IsSingleton(effective):
		return f.getOrBuild(effective, func() (Serializer, error) {
			if err := f.whitelist.RequireWhitelisted(effective); err != nil {
				return nil, err
			}
			instance, _ := f.registry.Singleton(effective)
			return newSingletonSerializer(f, effective, f.wireNameFor(effective), instance), nil
		})

	case effective.Kind() == reflect.Struct:
		return f.getOrBuild(effective, func() (Serializer, error) {
			if err := f.whitelist.RequireWhitelisted(effective); err != nil {
				return nil, err
			}
			return newObjectSerializer(f, effective, f.wireNameFor(effective)), nil
		})

	default:
		return nil, fmt.Errorf("%w: no serializer for %s", errors.ErrNotSerializable, effective)
	}
}

// getOrBuild publishes a serializer into the type cache exactly once per
// key and indexes it by its wire descriptor for the decode path.
func (f *Factory) getOrBuild(key reflect.Type, build func() (Serializer, error)) (Serializer, error) {
	return f.byType.GetOrCompute(key, func() (Serializer, error) {
		ser, err := build()
		if err != nil {
			return nil, err
		}
		f.builds.Inc()
		f.byDescriptor.Set(ser.TypeDescriptor(), ser)
		return ser, nil
	})
}

// GetByDescriptor returns the serializer for a wire descriptor, resolving
// the supplied schema's notations as needed. A descriptor the schema does
// not actually describe is a hard failure.
func (f *Factory) GetByDescriptor(desc schema.Descriptor, sch *schema.Schema) (Serializer, error) {
	if ser, ok := f.byDescriptor.Get(desc); ok {
		return ser, nil
	}

	// primitives and containers of primitives travel under their wire name
	// rather than a fingerprint, so they resolve without any schema entry
	if !strings.HasPrefix(string(desc), schema.FingerprintPrefix) {
		if id, err := schema.ParseIdentifier(string(desc)); err == nil {
			if rtype, err := f.resolver.localType(id); err == nil {
				return f.Get(rtype, rtype)
			}
		}
	}

	remotes, err := f.resolver.ResolveTypes(sch.Types())
	if err != nil {
		return nil, err
	}
	for _, rt := range remotes {
		_, err := f.byDescriptor.GetOrCompute(rt.Notation.Descriptor(), func() (Serializer, error) {
			ser, err := f.Get(rt.Type, rt.Type)
			if err != nil {
				return nil, err
			}
			if rt.LocalDescriptor != rt.Notation.Descriptor() {
				return f.maybeEvolve(rt.Notation, ser)
			}
			return ser, nil
		})
		if err != nil {
			return nil, err
		}
	}

	if ser, ok := f.byDescriptor.Get(desc); ok {
		return ser, nil
	}
	return nil, fmt.Errorf("%w: %s not described by supplied schema", errors.ErrDescriptorNotFound, desc)
}

// wireNameFor renders the canonical wire name of a runtime type: registered
// names first, then primitives, then the container grammar.
func (f *Factory) wireNameFor(rtype reflect.Type) string {
	if rtype == nil {
		return "*"
	}
	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	if rtype.Kind() == reflect.Interface {
		return "*"
	}
	if name, ok := f.registry.NameFor(rtype); ok {
		return name
	}
	if isBinary(rtype) {
		return "binary"
	}
	switch rtype.Kind() {
	case reflect.Slice:
		return "list<" + f.wireNameFor(rtype.Elem()) + ">"
	case reflect.Array:
		elem := f.wireNameFor(rtype.Elem())
		if schema.IsPrimitiveArrayComponent(elem) {
			return elem + "[p]"
		}
		return elem + "[]"
	case reflect.Map:
		return "map<" + f.wireNameFor(rtype.Key()) + "," + f.wireNameFor(rtype.Elem()) + ">"
	}
	if name, ok := schema.PrimitiveNameFor(rtype); ok {
		return name
	}
	return strings.TrimSpace(rtype.String())
}

func isBinary(rtype reflect.Type) bool {
	return rtype.Kind() == reflect.Slice && rtype.Elem().Kind() == reflect.Uint8
}
