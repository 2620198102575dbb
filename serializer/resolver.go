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
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/quorumline/amqpserde/carpentry"
	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/internal/registry"
	"github.com/quorumline/amqpserde/internal/xsync"
	"github.com/quorumline/amqpserde/log"
	"github.com/quorumline/amqpserde/schema"
)

// RemoteType pairs a resolved runtime type with the wire notation it came
// from and a locally computed descriptor. The local descriptor differing
// from the notation's own is the evolution trigger, not an error.
type RemoteType struct {
	Type            reflect.Type
	Notation        schema.TypeNotation
	LocalDescriptor schema.Descriptor
}

// Resolver maps wire-level type notations to usable runtime types: cache
// first, then local classes, then carpentry. Carpented types are registered
// under their wire name so later fingerprints fold the same name the sender
// used.
type Resolver struct {
	registry      registry.LocalTypes
	carpenter     *carpentry.Carpenter
	fingerprinter *schema.Fingerprinter
	logger        log.Logger
	cache         *xsync.Map[schema.Descriptor, RemoteType]
}

// NewResolver creates a Resolver around the given local type registry and
// carpenter.
func NewResolver(reg registry.LocalTypes, carp *carpentry.Carpenter, fp *schema.Fingerprinter, logger log.Logger) *Resolver {
	return &Resolver{
		registry:      reg,
		carpenter:     carp,
		fingerprinter: fp,
		logger:        logger,
		cache:         xsync.NewMap[schema.Descriptor, RemoteType](),
	}
}

// ResolveTypes resolves every notation to a RemoteType, order-preserving.
// Notations naming no locally known class are carpented as one batch, so
// interdependent remote types resolve against each other. A type still
// unresolvable after carpentry is a hard failure.
func (r *Resolver) ResolveTypes(notations []schema.TypeNotation) ([]RemoteType, error) {
	results := make([]RemoteType, len(notations))
	var pending []int

	for i, notation := range notations {
		if rt, ok := r.cache.Get(notation.Descriptor()); ok {
			results[i] = rt
			continue
		}
		id, err := schema.ParseIdentifier(notation.Name())
		if err != nil {
			return nil, err
		}
		rtype, err := r.localType(id)
		switch {
		case err == nil:
			results[i] = r.publish(notation, rtype)
		case stderrors.Is(err, errors.ErrClassNotFound):
			pending = append(pending, i)
		default:
			return nil, err
		}
	}
	if len(pending) == 0 {
		return results, nil
	}

	infos := make([]schema.RemoteTypeInformation, 0, len(pending))
	for _, i := range pending {
		info, err := schema.InformationFor(notations[i])
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	built, err := r.carpenter.CarpentBatch(infos, r.localType)
	if err != nil {
		// the synthesis failure stays on this side of the wire; callers
		// see only that the types could not be reconstructed
		r.logger.Debugf("carpentry failed: %v", err)
		return nil, fmt.Errorf("%w: remote types could not be reconstructed", errors.ErrNotSerializable)
	}
	for _, info := range infos {
		canonical := info.Identifier().Canonical()
		rtype, ok := built[canonical]
		if !ok {
			continue
		}
		if en, isEnum := info.(*schema.AnEnum); isEnum {
			r.registry.RegisterSynthesizedEnum(canonical, rtype, en.Members)
			continue
		}
		r.registry.RegisterSynthesized(canonical, rtype)
	}

	for _, i := range pending {
		id, err := schema.ParseIdentifier(notations[i].Name())
		if err != nil {
			return nil, err
		}
		rtype, err := r.localType(id)
		if err != nil {
			return nil, fmt.Errorf("type %s unresolvable after carpentry: %w", id, err)
		}
		results[i] = r.publish(notations[i], rtype)
	}
	return results, nil
}

// publish computes the local descriptor and caches the result under the
// notation's wire descriptor.
func (r *Resolver) publish(notation schema.TypeNotation, rtype reflect.Type) RemoteType {
	rt := RemoteType{
		Type:            rtype,
		Notation:        notation,
		LocalDescriptor: r.fingerprinter.Fingerprint(rtype),
	}
	r.cache.Set(notation.Descriptor(), rt)
	return rt
}

// localType resolves an identifier against primitives, the local registry
// and previously carpented types. Arrays resolve to slices of their
// component type.
func (r *Resolver) localType(id schema.TypeIdentifier) (reflect.Type, error) {
	switch id.Kind {
	case schema.KindPrimitiveArray:
		elem, ok := schema.PrimitiveType(id.Elem.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", errors.ErrInvalidTypeName, id)
		}
		return reflect.SliceOf(elem), nil

	case schema.KindArray:
		elem, err := r.localType(*id.Elem)
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil

	case schema.KindParameterised:
		switch id.Name {
		case "list":
			if len(id.Params) != 1 {
				return nil, fmt.Errorf("%w: %s", errors.ErrInvalidTypeName, id)
			}
			elem, err := r.localType(id.Params[0])
			if err != nil {
				return nil, err
			}
			return reflect.SliceOf(elem), nil
		case "map":
			if len(id.Params) != 2 {
				return nil, fmt.Errorf("%w: %s", errors.ErrInvalidTypeName, id)
			}
			key, err := r.localType(id.Params[0])
			if err != nil {
				return nil, err
			}
			val, err := r.localType(id.Params[1])
			if err != nil {
				return nil, err
			}
			return reflect.MapOf(key, val), nil
		default:
			if rtype, ok := r.registry.TypeOf(id.Canonical()); ok {
				return rtype, nil
			}
			return nil, fmt.Errorf("%w: %s", errors.ErrClassNotFound, id)
		}

	default:
		if id.Name == "*" {
			return anyType, nil
		}
		if rtype, ok := schema.PrimitiveType(id.Name); ok {
			return rtype, nil
		}
		if rtype, ok := r.registry.TypeOf(id.Name); ok {
			return rtype, nil
		}
		if rtype, ok := r.carpenter.Known(id.Canonical()); ok {
			return rtype, nil
		}
		return nil, fmt.Errorf("%w: %s", errors.ErrClassNotFound, id)
	}
}
