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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	composite := &CompositeType{
		TypeName: "com.example.Account",
		Desc:     "remote:1",
		Fields: []Field{
			{Name: "owner", Type: "string", Mandatory: true},
			{Name: "balance", Type: "long", Mandatory: true},
		},
	}
	restricted := &RestrictedType{
		TypeName: "list<string>",
		Desc:     "remote:2",
		Source:   SourceList,
		Elements: []string{"string"},
	}

	t.Run("With_lookup_by_descriptor_and_name", func(t *testing.T) {
		s := NewSchema(composite, restricted)
		require.Equal(t, 2, s.Len())

		got, ok := s.ByDescriptor("remote:1")
		require.True(t, ok)
		assert.Equal(t, composite, got)

		got, ok = s.ByName("list<string>")
		require.True(t, ok)
		assert.Equal(t, restricted, got)

		_, ok = s.ByDescriptor("remote:404")
		assert.False(t, ok)
	})

	t.Run("With_append_dedupe_on_descriptor", func(t *testing.T) {
		s := NewSchema(composite)
		s.Append(composite)
		s.Append(&CompositeType{TypeName: "com.example.Account", Desc: "remote:1"})
		assert.Equal(t, 1, s.Len())
	})

	t.Run("With_insertion_order_preserved", func(t *testing.T) {
		s := NewSchema(restricted, composite)
		types := s.Types()
		require.Len(t, types, 2)
		assert.Equal(t, restricted, types[0])
		assert.Equal(t, composite, types[1])
	})
}

func TestInformationFor(t *testing.T) {
	t.Run("With_composite", func(t *testing.T) {
		info, err := InformationFor(&CompositeType{
			TypeName: "com.example.Trade",
			Desc:     "remote:7",
			Fields: []Field{
				{Name: "qty", Type: "int", Mandatory: true},
				{Name: "legs", Type: "list<com.example.Leg>", Mandatory: false},
			},
			Provides: []string{"com.example.Asset"},
		})
		require.NoError(t, err)

		composable, ok := info.(*Composable)
		require.True(t, ok)
		assert.Equal(t, "com.example.Trade", composable.Identifier().Canonical())
		assert.Equal(t, Descriptor("remote:7"), composable.TypeDescriptor())
		require.Len(t, composable.Properties, 2)
		assert.Equal(t, "list<com.example.Leg>", composable.Properties[1].Type.Canonical())

		deps := composable.Dependencies()
		canonicals := make([]string, 0, len(deps))
		for _, d := range deps {
			canonicals = append(canonicals, d.Canonical())
		}
		assert.Equal(t, []string{"int", "list<com.example.Leg>", "com.example.Asset"}, canonicals)
	})

	t.Run("With_restricted_list", func(t *testing.T) {
		info, err := InformationFor(&RestrictedType{
			TypeName: "list<com.example.Leg>",
			Desc:     "remote:8",
			Source:   SourceList,
			Elements: []string{"com.example.Leg"},
		})
		require.NoError(t, err)

		parameterised, ok := info.(*Parameterised)
		require.True(t, ok)
		require.Len(t, parameterised.TypeParameters, 1)
		assert.Equal(t, "com.example.Leg", parameterised.TypeParameters[0].Canonical())
	})

	t.Run("With_restricted_array", func(t *testing.T) {
		info, err := InformationFor(&RestrictedType{
			TypeName: "com.example.Leg[]",
			Desc:     "remote:9",
			Source:   SourceList,
		})
		require.NoError(t, err)

		arr, ok := info.(*AnArray)
		require.True(t, ok)
		assert.Equal(t, "com.example.Leg", arr.Element.Canonical())
	})

	t.Run("With_restricted_enum", func(t *testing.T) {
		info, err := InformationFor(&RestrictedType{
			TypeName: "com.example.Suit",
			Desc:     "remote:10",
			Source:   SourceEnum,
			Choices:  []string{"SPADES", "HEARTS"},
		})
		require.NoError(t, err)

		enum, ok := info.(*AnEnum)
		require.True(t, ok)
		assert.Equal(t, []string{"SPADES", "HEARTS"}, enum.Members)
		assert.Empty(t, enum.Dependencies())
	})

	t.Run("With_bad_property_type", func(t *testing.T) {
		_, err := InformationFor(&CompositeType{
			TypeName: "com.example.Trade",
			Fields:   []Field{{Name: "x", Type: "list<"}},
		})
		require.Error(t, err)
	})
}
