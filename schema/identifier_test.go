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

	"github.com/quorumline/amqpserde/errors"
)

func TestParseIdentifier(t *testing.T) {
	t.Run("With_plain_name", func(t *testing.T) {
		id, err := ParseIdentifier("com.example.Foo")
		require.NoError(t, err)
		assert.Equal(t, KindPlain, id.Kind)
		assert.Equal(t, "com.example.Foo", id.Canonical())
	})

	t.Run("With_primitive_array", func(t *testing.T) {
		id, err := ParseIdentifier("int[p]")
		require.NoError(t, err)
		require.Equal(t, KindPrimitiveArray, id.Kind)
		assert.Equal(t, "int", id.Elem.Name)
		assert.Equal(t, "int[p]", id.Canonical())
	})

	t.Run("With_object_array", func(t *testing.T) {
		id, err := ParseIdentifier("com.example.Foo[]")
		require.NoError(t, err)
		require.Equal(t, KindArray, id.Kind)
		assert.Equal(t, "com.example.Foo", id.Elem.Canonical())
	})

	t.Run("With_nested_object_array", func(t *testing.T) {
		id, err := ParseIdentifier("com.example.Foo[][]")
		require.NoError(t, err)
		require.Equal(t, KindArray, id.Kind)
		require.Equal(t, KindArray, id.Elem.Kind)
		assert.Equal(t, "com.example.Foo", id.Elem.Elem.Canonical())
		assert.Equal(t, "com.example.Foo[][]", id.Canonical())
	})

	t.Run("With_parameterized_name", func(t *testing.T) {
		id, err := ParseIdentifier("map<string,list<com.example.Foo>>")
		require.NoError(t, err)
		require.Equal(t, KindParameterised, id.Kind)
		assert.Equal(t, "map", id.Name)
		require.Len(t, id.Params, 2)
		assert.Equal(t, "string", id.Params[0].Canonical())
		assert.Equal(t, "list<com.example.Foo>", id.Params[1].Canonical())
		assert.Equal(t, "map<string,list<com.example.Foo>>", id.Canonical())
	})

	t.Run("With_generic_component_array", func(t *testing.T) {
		id, err := ParseIdentifier("list<string>[]")
		require.NoError(t, err)
		require.Equal(t, KindArray, id.Kind)
		assert.Equal(t, KindParameterised, id.Elem.Kind)
	})

	t.Run("With_byte_array_rejected", func(t *testing.T) {
		// byte arrays map to binary and never use the [p] suffix
		_, err := ParseIdentifier("byte[p]")
		require.ErrorIs(t, err, errors.ErrInvalidTypeName)
	})

	t.Run("With_malformed_names", func(t *testing.T) {
		for _, name := range []string{"", "list<", "list<>", "<string>", "foo<bar", "we[ird"} {
			_, err := ParseIdentifier(name)
			assert.ErrorIs(t, err, errors.ErrInvalidTypeName, "name %q", name)
		}
	})
}

func TestPrimitiveTables(t *testing.T) {
	t.Run("With_name_to_type", func(t *testing.T) {
		rtype, ok := PrimitiveType("int")
		require.True(t, ok)
		assert.Equal(t, reflect.TypeOf(int32(0)), rtype)

		rtype, ok = PrimitiveType("binary")
		require.True(t, ok)
		assert.Equal(t, reflect.TypeOf([]byte(nil)), rtype)

		_, ok = PrimitiveType("com.example.Foo")
		assert.False(t, ok)
	})

	t.Run("With_type_to_name", func(t *testing.T) {
		name, ok := PrimitiveNameFor(reflect.TypeOf(int64(0)))
		require.True(t, ok)
		assert.Equal(t, "long", name)

		name, ok = PrimitiveNameFor(reflect.TypeOf([]byte(nil)))
		require.True(t, ok)
		assert.Equal(t, "binary", name)

		_, ok = PrimitiveNameFor(reflect.TypeOf(struct{}{}))
		assert.False(t, ok)
	})

	t.Run("With_primitive_array_components", func(t *testing.T) {
		for _, name := range []string{"int", "char", "boolean", "float", "double", "short", "long"} {
			assert.True(t, IsPrimitiveArrayComponent(name), name)
		}
		assert.False(t, IsPrimitiveArrayComponent("byte"))
		assert.False(t, IsPrimitiveArrayComponent("string"))
	})
}
