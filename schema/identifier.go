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

// Package schema models the wire-level description of types: canonical type
// identifiers, the notations a schema is made of, the structural view of a
// remote peer's type, and the fingerprinting that detects shape drift between
// peers.
package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/quorumline/amqpserde/errors"
)

// Descriptor is the wire identifier of one type shape. Locally computed
// descriptors are fingerprint-derived; descriptors read off the wire are
// opaque strings minted by the sender.
type Descriptor string

// IdentifierKind discriminates the shapes a canonical type name can take.
type IdentifierKind int

const (
	// KindPlain is a bare class or primitive name.
	KindPlain IdentifierKind = iota
	// KindParameterised is a generic name with type arguments, list<string>.
	KindParameterised
	// KindArray is a reference-component array, com.example.Foo[].
	KindArray
	// KindPrimitiveArray is a primitive-component array, int[p].
	KindPrimitiveArray
)

// TypeIdentifier is the parsed form of a canonical type name. Two identifiers
// are equal iff their canonical names match exactly, including generic
// argument order and array suffixing. It is immutable once built and its
// Canonical form is used as a map key everywhere.
type TypeIdentifier struct {
	Kind   IdentifierKind
	Name   string
	Params []TypeIdentifier
	Elem   *TypeIdentifier
}

// Identifier builds a plain identifier from a bare name.
func Identifier(name string) TypeIdentifier {
	return TypeIdentifier{Kind: KindPlain, Name: name}
}

// ParameterisedOf builds a generic identifier such as list<string>.
func ParameterisedOf(name string, params ...TypeIdentifier) TypeIdentifier {
	return TypeIdentifier{Kind: KindParameterised, Name: name, Params: params}
}

// ArrayOf builds a reference-component array identifier, elem[].
func ArrayOf(elem TypeIdentifier) TypeIdentifier {
	return TypeIdentifier{Kind: KindArray, Elem: &elem}
}

// Canonical renders the identifier back to its canonical name.
func (t TypeIdentifier) Canonical() string {
	switch t.Kind {
	case KindParameterised:
		parts := make([]string, 0, len(t.Params))
		for _, p := range t.Params {
			parts = append(parts, p.Canonical())
		}
		return t.Name + "<" + strings.Join(parts, ",") + ">"
	case KindArray:
		return t.Elem.Canonical() + "[]"
	case KindPrimitiveArray:
		return t.Elem.Canonical() + "[p]"
	default:
		return t.Name
	}
}

// String implements fmt.Stringer
func (t TypeIdentifier) String() string {
	return t.Canonical()
}

// primitiveTypes maps AMQP wire primitive names to their runtime types.
// Initialized once at startup, never mutated.
var primitiveTypes = map[string]reflect.Type{
	"boolean": reflect.TypeOf(false),
	"byte":    reflect.TypeOf(int8(0)),
	"short":   reflect.TypeOf(int16(0)),
	"int":     reflect.TypeOf(int32(0)),
	"long":    reflect.TypeOf(int64(0)),
	"char":    reflect.TypeOf(rune(0)),
	"float":   reflect.TypeOf(float32(0)),
	"double":  reflect.TypeOf(float64(0)),
	"ubyte":   reflect.TypeOf(uint8(0)),
	"ushort":  reflect.TypeOf(uint16(0)),
	"uint":    reflect.TypeOf(uint32(0)),
	"ulong":   reflect.TypeOf(uint64(0)),
	"string":  reflect.TypeOf(""),
	"binary":  reflect.TypeOf([]byte(nil)),
}

// primitiveArrayNames is the fixed set of component names allowed before the
// [p] suffix. Byte arrays are excluded: they map directly to binary.
var primitiveArrayNames = map[string]struct{}{
	"int":     {},
	"char":    {},
	"boolean": {},
	"float":   {},
	"double":  {},
	"short":   {},
	"long":    {},
}

// PrimitiveType resolves a wire primitive name to its runtime type.
func PrimitiveType(name string) (reflect.Type, bool) {
	rtype, ok := primitiveTypes[name]
	return rtype, ok
}

// PrimitiveNameFor returns the wire primitive name of a runtime type, going
// by kind. Byte slices map to binary. Named integer types (enums among
// them) share their kind's name, so callers must rule out enums first.
func PrimitiveNameFor(rtype reflect.Type) (string, bool) {
	if rtype == reflect.TypeOf([]byte(nil)) {
		return "binary", true
	}
	switch rtype.Kind() {
	case reflect.Bool:
		return "boolean", true
	case reflect.Int8:
		return "byte", true
	case reflect.Int16:
		return "short", true
	case reflect.Int32:
		return "int", true
	case reflect.Int64, reflect.Int:
		return "long", true
	case reflect.Uint8:
		return "ubyte", true
	case reflect.Uint16:
		return "ushort", true
	case reflect.Uint32:
		return "uint", true
	case reflect.Uint64, reflect.Uint:
		return "ulong", true
	case reflect.Float32:
		return "float", true
	case reflect.Float64:
		return "double", true
	case reflect.String:
		return "string", true
	default:
		return "", false
	}
}

// IsPrimitiveArrayComponent reports whether a wire primitive name may appear
// before the [p] suffix.
func IsPrimitiveArrayComponent(name string) bool {
	_, ok := primitiveArrayNames[name]
	return ok
}

// ParseIdentifier parses a canonical wire name into a TypeIdentifier. Names
// ending [] denote reference-component arrays, possibly nested or generic;
// names ending [p] denote one of the fixed primitive array types.
func ParseIdentifier(name string) (TypeIdentifier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return TypeIdentifier{}, fmt.Errorf("%w: empty name", errors.ErrInvalidTypeName)
	}

	if strings.HasSuffix(name, "[]") {
		elem, err := ParseIdentifier(name[:len(name)-2])
		if err != nil {
			return TypeIdentifier{}, err
		}
		return ArrayOf(elem), nil
	}

	if strings.HasSuffix(name, "[p]") {
		component := name[:len(name)-3]
		if _, ok := primitiveArrayNames[component]; !ok {
			return TypeIdentifier{}, fmt.Errorf("%w: %q is not a primitive array component", errors.ErrInvalidTypeName, component)
		}
		elem := Identifier(component)
		return TypeIdentifier{Kind: KindPrimitiveArray, Elem: &elem}, nil
	}

	if open := strings.IndexByte(name, '<'); open >= 0 {
		if !strings.HasSuffix(name, ">") || open == 0 {
			return TypeIdentifier{}, fmt.Errorf("%w: malformed parameterized name %q", errors.ErrInvalidTypeName, name)
		}
		base := name[:open]
		args, err := splitParams(name[open+1 : len(name)-1])
		if err != nil {
			return TypeIdentifier{}, fmt.Errorf("%w: malformed parameterized name %q", errors.ErrInvalidTypeName, name)
		}
		params := make([]TypeIdentifier, 0, len(args))
		for _, arg := range args {
			param, err := ParseIdentifier(arg)
			if err != nil {
				return TypeIdentifier{}, err
			}
			params = append(params, param)
		}
		return ParameterisedOf(base, params...), nil
	}

	if strings.ContainsAny(name, "<>[]") {
		return TypeIdentifier{}, fmt.Errorf("%w: %q", errors.ErrInvalidTypeName, name)
	}
	return Identifier(name), nil
}

// splitParams splits a generic argument list on top-level commas.
func splitParams(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty parameter list")
	}
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced angle brackets")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced angle brackets")
	}
	parts = append(parts, s[start:])
	return parts, nil
}
