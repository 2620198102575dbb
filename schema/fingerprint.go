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

package schema

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/quorumline/amqpserde/hash"
	"github.com/quorumline/amqpserde/internal/xsync"
)

// TypeNamer supplies the registered canonical names and enum constant sets
// the fingerprinter folds into a fingerprint. Without it two structurally
// identical types registered under different wire names would collide.
type TypeNamer interface {
	// NameFor returns the canonical wire name a type was registered under
	NameFor(rtype reflect.Type) (string, bool)
	// EnumNames returns the ordered constant names of an enum type
	EnumNames(rtype reflect.Type) ([]string, bool)
}

// Fingerprinter computes a stable structural hash of a runtime type: field
// wire names, recursively fingerprinted field types, enum constants. Two
// processes holding the same shape under the same canonical name compute the
// same fingerprint; any binary-incompatible shape change produces a new one.
// Pure with respect to its inputs, modulo the memoization cache.
type Fingerprinter struct {
	hasher hash.Hasher
	namer  TypeNamer
	cache  *xsync.Map[reflect.Type, Descriptor]
}

// FingerprintPrefix marks descriptors derived from a structural fingerprint,
// as opposed to descriptors that are plain wire names.
const FingerprintPrefix = "qs:"

// NewFingerprinter creates a Fingerprinter over the given hasher and namer.
func NewFingerprinter(hasher hash.Hasher, namer TypeNamer) *Fingerprinter {
	return &Fingerprinter{
		hasher: hasher,
		namer:  namer,
		cache:  xsync.NewMap[reflect.Type, Descriptor](),
	}
}

// Fingerprint returns the structural descriptor of rtype.
func (f *Fingerprinter) Fingerprint(rtype reflect.Type) Descriptor {
	if d, ok := f.cache.Get(rtype); ok {
		return d
	}
	buf := new(bytes.Buffer)
	f.writeType(buf, rtype, map[reflect.Type]bool{})
	d := Descriptor(fmt.Sprintf("%s%016x", FingerprintPrefix, f.hasher.HashCode(buf.Bytes())))
	f.cache.Set(rtype, d)
	return d
}

// writeType appends the structural description of rtype to buf. visiting
// guards recursive shapes: a back-reference token is written instead of
// recursing forever.
func (f *Fingerprinter) writeType(buf *bytes.Buffer, rtype reflect.Type, visiting map[reflect.Type]bool) {
	if visiting[rtype] {
		buf.WriteString("ref:" + f.nameOf(rtype))
		return
	}

	if names, ok := f.namer.EnumNames(rtype); ok {
		buf.WriteString("enum:" + f.nameOf(rtype) + "[" + strings.Join(names, ",") + "]")
		return
	}

	if rtype.Kind() == reflect.Pointer {
		buf.WriteString("nullable:")
		f.writeType(buf, rtype.Elem(), visiting)
		return
	}

	if name, ok := PrimitiveNameFor(rtype); ok {
		buf.WriteString(name)
		return
	}

	switch rtype.Kind() {
	case reflect.Slice:
		buf.WriteString("list<")
		f.writeType(buf, rtype.Elem(), visiting)
		buf.WriteString(">")
	case reflect.Array:
		f.writeType(buf, rtype.Elem(), visiting)
		if name, primitive := PrimitiveNameFor(rtype.Elem()); primitive && IsPrimitiveArrayComponent(name) {
			buf.WriteString("[p]")
		} else {
			buf.WriteString("[]")
		}
	case reflect.Map:
		buf.WriteString("map<")
		f.writeType(buf, rtype.Key(), visiting)
		buf.WriteString(",")
		f.writeType(buf, rtype.Elem(), visiting)
		buf.WriteString(">")
	case reflect.Interface:
		buf.WriteString("any")
	case reflect.Struct:
		visiting[rtype] = true
		buf.WriteString("class:" + f.nameOf(rtype) + "{")
		for i := 0; i < rtype.NumField(); i++ {
			field := rtype.Field(i)
			if !field.IsExported() {
				continue
			}
			buf.WriteString(WireName(field))
			buf.WriteString(":")
			f.writeType(buf, field.Type, visiting)
			buf.WriteString(",")
		}
		buf.WriteString("}")
		delete(visiting, rtype)
	default:
		buf.WriteString("opaque:" + rtype.String())
	}
}

// nameOf prefers the registered canonical name and falls back to the Go type
// string. Carpented types are registered under their wire name, which is what
// makes a carpented shape fingerprint-compatible with the original.
func (f *Fingerprinter) nameOf(rtype reflect.Type) string {
	if name, ok := f.namer.NameFor(rtype); ok {
		return name
	}
	return rtype.String()
}

// WireName returns the wire-level property name of a struct field: the amqp
// struct tag when present, the field name with its first rune lowered
// otherwise. Carpentry performs the inverse mapping.
func WireName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("amqp"); ok && tag != "" {
		return tag
	}
	runes := []rune(field.Name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
