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

// Package registry holds the process-local view of serializable types: which
// canonical wire names resolve to which runtime types, which types are enums
// and what their constants are, and which types are singletons. A name that
// fails to resolve here is the trigger for remote type carpentry.
package registry

import (
	"reflect"
	"strings"

	"github.com/quorumline/amqpserde/internal/xsync"
)

// LocalTypes defines the local types registry interface
type LocalTypes interface {
	// Register records v under its default canonical name
	Register(v any)
	// RegisterNamed records v under an explicit canonical wire name
	RegisterNamed(name string, v any)
	// RegisterEnum records v's type as an enumeration with the given
	// constant names, indexed by ordinal
	RegisterEnum(v any, names ...string)
	// RegisterSingleton records v as the unique instance of its type
	RegisterSingleton(v any)
	// RegisterSynthesized records a carpented runtime type under the wire
	// name it was synthesized from
	RegisterSynthesized(name string, rtype reflect.Type)
	// RegisterSynthesizedEnum records a carpented enumeration type together
	// with its ordered constant names
	RegisterSynthesizedEnum(name string, rtype reflect.Type, constants []string)
	// TypeOf resolves a canonical name to a runtime type
	TypeOf(name string) (reflect.Type, bool)
	// NameFor returns the canonical name a type was registered under
	NameFor(rtype reflect.Type) (string, bool)
	// EnumNames returns the ordered constant names of an enum type
	EnumNames(rtype reflect.Type) ([]string, bool)
	// IsEnum reports whether rtype was registered as an enumeration
	IsEnum(rtype reflect.Type) bool
	// Singleton returns the unique registered instance of rtype
	Singleton(rtype reflect.Type) (any, bool)
	// IsSingleton reports whether rtype was registered as a singleton
	IsSingleton(rtype reflect.Type) bool
}

type localTypes struct {
	types      *xsync.Map[string, reflect.Type]
	names      *xsync.Map[reflect.Type, string]
	enums      *xsync.Map[reflect.Type, []string]
	singletons *xsync.Map[reflect.Type, any]
}

var _ LocalTypes = (*localTypes)(nil)

// New creates a new local types registry
func New() LocalTypes {
	return &localTypes{
		types:      xsync.NewMap[string, reflect.Type](),
		names:      xsync.NewMap[reflect.Type, string](),
		enums:      xsync.NewMap[reflect.Type, []string](),
		singletons: xsync.NewMap[reflect.Type, any](),
	}
}

// Register records v under its default canonical name
func (x *localTypes) Register(v any) {
	x.RegisterNamed(Name(v), v)
}

// RegisterNamed records v under an explicit canonical wire name
func (x *localTypes) RegisterNamed(name string, v any) {
	rtype := reflectType(v)
	name = strings.TrimSpace(name)
	x.types.Set(name, rtype)
	x.names.Set(rtype, name)
}

// RegisterEnum records v's type as an enumeration whose constants carry the
// given names, indexed by ordinal. The type itself is also registered.
func (x *localTypes) RegisterEnum(v any, names ...string) {
	rtype := reflectType(v)
	x.RegisterNamed(Name(v), v)
	x.enums.Set(rtype, names)
}

// RegisterSingleton records v as the unique instance of its type. The type
// itself is also registered.
func (x *localTypes) RegisterSingleton(v any) {
	rtype := reflectType(v)
	x.RegisterNamed(Name(v), v)
	x.singletons.Set(rtype, v)
}

// RegisterSynthesized records a carpented runtime type under the wire name it
// was synthesized from, so later schemas naming the same type reuse it.
func (x *localTypes) RegisterSynthesized(name string, rtype reflect.Type) {
	name = strings.TrimSpace(name)
	x.types.Set(name, rtype)
	// the empty interface backs every synthesized interface; indexing it in
	// the reverse map would hand one remote interface's name to every
	// interface value in the process
	if rtype.Kind() != reflect.Interface {
		x.names.Set(rtype, name)
	}
}

// RegisterSynthesizedEnum records a carpented enumeration type together with
// its ordered constant names.
func (x *localTypes) RegisterSynthesizedEnum(name string, rtype reflect.Type, constants []string) {
	x.RegisterSynthesized(name, rtype)
	x.enums.Set(rtype, constants)
}

// TypeOf resolves a canonical name to a runtime type
func (x *localTypes) TypeOf(name string) (reflect.Type, bool) {
	return x.types.Get(strings.TrimSpace(name))
}

// NameFor returns the canonical name a type was registered under
func (x *localTypes) NameFor(rtype reflect.Type) (string, bool) {
	return x.names.Get(rtype)
}

// EnumNames returns the ordered constant names of an enum type
func (x *localTypes) EnumNames(rtype reflect.Type) ([]string, bool) {
	return x.enums.Get(rtype)
}

// IsEnum reports whether rtype was registered as an enumeration
func (x *localTypes) IsEnum(rtype reflect.Type) bool {
	_, ok := x.enums.Get(rtype)
	return ok
}

// Singleton returns the unique registered instance of rtype
func (x *localTypes) Singleton(rtype reflect.Type) (any, bool) {
	return x.singletons.Get(rtype)
}

// IsSingleton reports whether rtype was registered as a singleton
func (x *localTypes) IsSingleton(rtype reflect.Type) bool {
	_, ok := x.singletons.Get(rtype)
	return ok
}

// reflectType returns the runtime type of object
func reflectType(v any) reflect.Type {
	switch _type := v.(type) {
	case reflect.Type:
		return _type
	default:
		rtype := reflect.TypeOf(v)
		if rtype.Kind() == reflect.Pointer {
			rtype = rtype.Elem()
		}
		return rtype
	}
}

// Name returns the default canonical name of a given object, its Go type
// string (package qualified).
func Name(v any) string {
	return strings.TrimSpace(reflectType(v).String())
}
