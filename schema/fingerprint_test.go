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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumline/amqpserde/hash"
)

// stubNamer maps types to wire names and enum constant sets for tests.
type stubNamer struct {
	names map[reflect.Type]string
	enums map[reflect.Type][]string
}

func (s *stubNamer) NameFor(rtype reflect.Type) (string, bool) {
	n, ok := s.names[rtype]
	return n, ok
}

func (s *stubNamer) EnumNames(rtype reflect.Type) ([]string, bool) {
	n, ok := s.enums[rtype]
	return n, ok
}

func newStubNamer() *stubNamer {
	return &stubNamer{names: map[reflect.Type]string{}, enums: map[reflect.Type][]string{}}
}

type invoice struct {
	Ref    string
	Amount int64
}

type invoiceRetyped struct {
	Ref    string
	Amount float64
}

type invoiceGrown struct {
	Ref    string
	Amount int64
	Payee  string
}

type node struct {
	Value int32
	Next  *node
}

func TestFingerprint(t *testing.T) {
	t.Run("With_stability_across_calls", func(t *testing.T) {
		f := NewFingerprinter(hash.DefaultHasher(), newStubNamer())
		first := f.Fingerprint(reflect.TypeOf(invoice{}))
		second := f.Fingerprint(reflect.TypeOf(invoice{}))
		assert.Equal(t, first, second)
		assert.Contains(t, string(first), "qs:")
	})

	t.Run("With_property_retype_changing_fingerprint", func(t *testing.T) {
		namer := newStubNamer()
		// same wire name, different property type
		namer.names[reflect.TypeOf(invoice{})] = "com.example.Invoice"
		namer.names[reflect.TypeOf(invoiceRetyped{})] = "com.example.Invoice"
		f := NewFingerprinter(hash.DefaultHasher(), namer)

		assert.NotEqual(t,
			f.Fingerprint(reflect.TypeOf(invoice{})),
			f.Fingerprint(reflect.TypeOf(invoiceRetyped{})))
	})

	t.Run("With_added_property_changing_fingerprint", func(t *testing.T) {
		namer := newStubNamer()
		namer.names[reflect.TypeOf(invoice{})] = "com.example.Invoice"
		namer.names[reflect.TypeOf(invoiceGrown{})] = "com.example.Invoice"
		f := NewFingerprinter(hash.DefaultHasher(), namer)

		assert.NotEqual(t,
			f.Fingerprint(reflect.TypeOf(invoice{})),
			f.Fingerprint(reflect.TypeOf(invoiceGrown{})))
	})

	t.Run("With_registered_name_folded_in", func(t *testing.T) {
		plain := NewFingerprinter(hash.DefaultHasher(), newStubNamer())

		named := newStubNamer()
		named.names[reflect.TypeOf(invoice{})] = "com.example.Invoice"
		renamed := NewFingerprinter(hash.DefaultHasher(), named)

		assert.NotEqual(t,
			plain.Fingerprint(reflect.TypeOf(invoice{})),
			renamed.Fingerprint(reflect.TypeOf(invoice{})))
	})

	t.Run("With_recursive_type_terminating", func(t *testing.T) {
		f := NewFingerprinter(hash.DefaultHasher(), newStubNamer())
		first := f.Fingerprint(reflect.TypeOf(node{}))
		require.NotEmpty(t, first)
		assert.Equal(t, first, f.Fingerprint(reflect.TypeOf(node{})))
	})

	t.Run("With_enum_constants_in_shape", func(t *testing.T) {
		type suit int32
		three := newStubNamer()
		three.names[reflect.TypeOf(suit(0))] = "com.example.Suit"
		three.enums[reflect.TypeOf(suit(0))] = []string{"SPADES", "HEARTS", "CLUBS"}

		four := newStubNamer()
		four.names[reflect.TypeOf(suit(0))] = "com.example.Suit"
		four.enums[reflect.TypeOf(suit(0))] = []string{"SPADES", "HEARTS", "CLUBS", "DIAMONDS"}

		assert.NotEqual(t,
			NewFingerprinter(hash.DefaultHasher(), three).Fingerprint(reflect.TypeOf(suit(0))),
			NewFingerprinter(hash.DefaultHasher(), four).Fingerprint(reflect.TypeOf(suit(0))))
	})

	t.Run("With_containers_and_primitives", func(t *testing.T) {
		f := NewFingerprinter(hash.DefaultHasher(), newStubNamer())

		listFp := f.Fingerprint(reflect.TypeOf([]string{}))
		mapFp := f.Fingerprint(reflect.TypeOf(map[string]int64{}))
		binFp := f.Fingerprint(reflect.TypeOf([]byte{}))
		arrFp := f.Fingerprint(reflect.TypeOf([4]int32{}))

		fps := map[Descriptor]struct{}{listFp: {}, mapFp: {}, binFp: {}, arrFp: {}}
		assert.Len(t, fps, 4)
	})
}
