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
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/schema"
)

type geoPoint struct {
	X int32
	Y string
}

type homeAddress struct {
	City string
}

type customer struct {
	Name string
	Home homeAddress
}

func TestCarpentedDecoding(t *testing.T) {
	t.Run("With a composite unknown to the receiver", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed("com.example.Point", geoPoint{})
		receiver := NewFactory()

		data, err := sender.Marshal(geoPoint{X: 3, Y: "north"})
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)

		rv := reflect.ValueOf(out)
		require.Equal(t, reflect.Struct, rv.Kind())
		require.EqualValues(t, 3, rv.FieldByName("X").Int())
		require.Equal(t, "north", rv.FieldByName("Y").String())
	})
	t.Run("With interdependent unknown composites", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed("com.example.Address", homeAddress{})
		sender.Registry().RegisterNamed("com.example.Customer", customer{})
		receiver := NewFactory()

		in := customer{Name: "Ada", Home: homeAddress{City: "Berlin"}}
		data, err := sender.Marshal(in)
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)

		rv := reflect.ValueOf(out)
		require.Equal(t, "Ada", rv.FieldByName("Name").String())
		require.Equal(t, "Berlin", rv.FieldByName("Home").FieldByName("City").String())
	})
	t.Run("With the carpented type reused across decodes", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed("com.example.Point", geoPoint{})
		receiver := NewFactory()

		first, err := sender.Marshal(geoPoint{X: 1, Y: "a"})
		require.NoError(t, err)
		second, err := sender.Marshal(geoPoint{X: 2, Y: "b"})
		require.NoError(t, err)

		outFirst, err := receiver.Unmarshal(first)
		require.NoError(t, err)
		outSecond, err := receiver.Unmarshal(second)
		require.NoError(t, err)
		require.Equal(t, reflect.TypeOf(outFirst), reflect.TypeOf(outSecond))
	})
	t.Run("With an enum unknown to the receiver", func(t *testing.T) {
		sender := NewFactory()
		registerPaymentTypes(sender)
		receiver := NewFactory()

		data, err := sender.Marshal(paymentSettled)
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)

		rv := reflect.ValueOf(out)
		require.Equal(t, reflect.Struct, rv.Kind())
		require.EqualValues(t, paymentSettled, rv.Field(0).Int())

		echo, err := receiver.Marshal(out)
		require.NoError(t, err)
		back, err := receiver.Unmarshal(echo)
		require.NoError(t, err)
		require.Equal(t, out, back)
	})
	t.Run("With strings unaffected by a carpented enum", func(t *testing.T) {
		sender := NewFactory()
		registerPaymentTypes(sender)
		receiver := NewFactory()

		data, err := sender.Marshal(paymentSettled)
		require.NoError(t, err)
		_, err = receiver.Unmarshal(data)
		require.NoError(t, err)

		// carpenting the enum must not claim the string type for it
		hello, err := receiver.Marshal("hello again")
		require.NoError(t, err)
		out, err := receiver.Unmarshal(hello)
		require.NoError(t, err)
		require.Equal(t, "hello again", out)
	})
	t.Run("With a composite carrying an unknown enum", func(t *testing.T) {
		sender := NewFactory()
		registerPaymentTypes(sender)
		receiver := NewFactory()

		in := payment{Reference: "INV-3", Amount: 75, State: paymentRejected}
		data, err := sender.Marshal(in)
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)

		rv := reflect.ValueOf(out)
		require.Equal(t, "INV-3", rv.FieldByName("Reference").String())
		state := rv.FieldByName("State")
		require.Equal(t, reflect.Struct, state.Kind())
		require.EqualValues(t, paymentRejected, state.Field(0).Int())
	})
	t.Run("With an unresolvable property failing as not serializable", func(t *testing.T) {
		receiver := NewFactory()
		sch := schema.NewSchema(&schema.CompositeType{
			TypeName: "com.example.Broken",
			Desc:     "qs:0000000000000001",
			Fields: []schema.Field{
				{Name: "v", Type: "com.example.Missing", Mandatory: true},
			},
		})

		_, err := receiver.GetByDescriptor("qs:0000000000000001", sch)
		require.ErrorIs(t, err, errors.ErrNotSerializable)
	})
	t.Run("With a remote dependency cycle failing as not serializable", func(t *testing.T) {
		receiver := NewFactory()
		sch := schema.NewSchema(
			&schema.CompositeType{
				TypeName: "com.example.Chicken",
				Desc:     "qs:0000000000000002",
				Fields:   []schema.Field{{Name: "other", Type: "com.example.Egg", Mandatory: true}},
			},
			&schema.CompositeType{
				TypeName: "com.example.Egg",
				Desc:     "qs:0000000000000003",
				Fields:   []schema.Field{{Name: "other", Type: "com.example.Chicken", Mandatory: true}},
			},
		)

		_, err := receiver.GetByDescriptor("qs:0000000000000002", sch)
		require.ErrorIs(t, err, errors.ErrNotSerializable)
	})
}

func TestInterfaceNotations(t *testing.T) {
	labelled := &schema.CompositeType{
		TypeName:  "com.example.Labelled",
		Desc:      "qs:0000000000000010",
		Interface: true,
		Fields:    []schema.Field{{Name: "label", Type: "string", Mandatory: true}},
	}

	t.Run("With interface properties merged into an implementor", func(t *testing.T) {
		crate := &schema.CompositeType{
			TypeName: "com.example.Crate",
			Desc:     "qs:0000000000000011",
			Fields:   []schema.Field{{Name: "weight", Type: "long", Mandatory: true}},
			Provides: []string{"com.example.Labelled"},
		}
		receiver := NewFactory()

		ser, err := receiver.GetByDescriptor("qs:0000000000000011", schema.NewSchema(labelled, crate))
		require.NoError(t, err)

		rtype := ser.Type()
		_, hasWeight := rtype.FieldByName("Weight")
		_, hasLabel := rtype.FieldByName("Label")
		require.True(t, hasWeight)
		require.True(t, hasLabel)
	})
	t.Run("With conflicting interface and class declarations", func(t *testing.T) {
		numbered := &schema.CompositeType{
			TypeName:  "com.example.Numbered",
			Desc:      "qs:0000000000000012",
			Interface: true,
			Fields:    []schema.Field{{Name: "label", Type: "long", Mandatory: true}},
		}
		box := &schema.CompositeType{
			TypeName: "com.example.Box",
			Desc:     "qs:0000000000000013",
			Fields:   []schema.Field{{Name: "label", Type: "string", Mandatory: true}},
			Provides: []string{"com.example.Numbered"},
		}
		receiver := NewFactory()

		_, err := receiver.GetByDescriptor("qs:0000000000000013", schema.NewSchema(numbered, box))
		require.ErrorIs(t, err, errors.ErrNotSerializable)
	})
	t.Run("With the interface kind surviving the wire codec", func(t *testing.T) {
		wire := toWireNotation(labelled)
		require.Equal(t, kindInterface, wire.Kind)

		back, err := fromWireNotation(wire)
		require.NoError(t, err)
		require.Equal(t, labelled, back)
	})
}

func TestResolverLocalTypes(t *testing.T) {
	factory := NewFactory()
	resolver := factory.resolver

	t.Run("With primitive array names", func(t *testing.T) {
		id, err := schema.ParseIdentifier("int[p]")
		require.NoError(t, err)
		rtype, err := resolver.localType(id)
		require.NoError(t, err)
		require.Equal(t, reflect.TypeOf([]int32(nil)), rtype)
	})
	t.Run("With reference array names", func(t *testing.T) {
		factory.Registry().RegisterNamed("com.example.Point", geoPoint{})
		id, err := schema.ParseIdentifier("com.example.Point[]")
		require.NoError(t, err)
		rtype, err := resolver.localType(id)
		require.NoError(t, err)
		require.Equal(t, reflect.TypeOf([]geoPoint(nil)), rtype)
	})
	t.Run("With nested array names", func(t *testing.T) {
		id, err := schema.ParseIdentifier("com.example.Point[][]")
		require.NoError(t, err)
		rtype, err := resolver.localType(id)
		require.NoError(t, err)
		require.Equal(t, reflect.TypeOf([][]geoPoint(nil)), rtype)
	})
	t.Run("With parameterized containers", func(t *testing.T) {
		id, err := schema.ParseIdentifier("map<string,list<long>>")
		require.NoError(t, err)
		rtype, err := resolver.localType(id)
		require.NoError(t, err)
		require.Equal(t, reflect.TypeOf(map[string][]int64(nil)), rtype)
	})
	t.Run("With the wildcard name", func(t *testing.T) {
		rtype, err := resolver.localType(schema.Identifier("*"))
		require.NoError(t, err)
		require.Equal(t, reflect.Interface, rtype.Kind())
	})
	t.Run("With unknown names distinguished as class not found", func(t *testing.T) {
		_, err := resolver.localType(schema.Identifier("com.example.Nowhere"))
		require.ErrorIs(t, err, errors.ErrClassNotFound)
	})
}
