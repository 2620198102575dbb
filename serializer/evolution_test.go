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

	"github.com/quorumline/amqpserde/schema"
)

// the same wire name carried by three generations of the same record
const recordName = "com.example.Record"

type recordV1 struct {
	A int64
	B int64
}

type recordWithoutB struct {
	A int64
}

type recordWithC struct {
	A int64
	C int64
}

type recordWithBText struct {
	A int64
	B string
}

type recordWithCText struct {
	A int64
	C string
}

type sevenDefaults struct{}

func (sevenDefaults) Default(_, property string) (any, bool) {
	if property == "c" {
		return int64(7), true
	}
	return nil, false
}

type textDefaults struct{}

func (textDefaults) Default(_, property string) (any, bool) {
	if property == "c" {
		return "seven", true
	}
	return nil, false
}

func TestEvolution(t *testing.T) {
	t.Run("With a removed property ignored", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed(recordName, recordV1{})
		receiver := NewFactory()
		receiver.Registry().RegisterNamed(recordName, recordWithoutB{})

		data, err := sender.Marshal(recordV1{A: 11, B: 13})
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, recordWithoutB{A: 11}, out)
	})
	t.Run("With an added property taking the zero default", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed(recordName, recordWithoutB{})
		receiver := NewFactory()
		receiver.Registry().RegisterNamed(recordName, recordWithC{})

		data, err := sender.Marshal(recordWithoutB{A: 11})
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, recordWithC{A: 11, C: 0}, out)
	})
	t.Run("With an added property taking a policy default", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed(recordName, recordWithoutB{})
		receiver := NewFactory(WithEvolutionPolicy(sevenDefaults{}))
		receiver.Registry().RegisterNamed(recordName, recordWithC{})

		data, err := sender.Marshal(recordWithoutB{A: 11})
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, recordWithC{A: 11, C: 7}, out)
	})
	t.Run("With a retyped property treated as drift", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed(recordName, recordV1{})
		receiver := NewFactory()
		receiver.Registry().RegisterNamed(recordName, recordWithBText{})

		// the remote long under the same name cannot be read into the
		// local string; the default stands in
		data, err := sender.Marshal(recordV1{A: 11, B: 13})
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, recordWithBText{A: 11, B: ""}, out)
	})
	t.Run("With a retyped property taking a policy default", func(t *testing.T) {
		sender := NewFactory()
		sender.Registry().RegisterNamed(recordName, recordWithC{})
		receiver := NewFactory(WithEvolutionPolicy(textDefaults{}))
		receiver.Registry().RegisterNamed(recordName, recordWithCText{})

		data, err := sender.Marshal(recordWithC{A: 11, C: 13})
		require.NoError(t, err)
		out, err := receiver.Unmarshal(data)
		require.NoError(t, err)
		require.Equal(t, recordWithCText{A: 11, C: "seven"}, out)
	})
	t.Run("With identical shapes left unwrapped", func(t *testing.T) {
		factory := NewFactory()
		factory.Registry().RegisterNamed(recordName, recordV1{})
		rtype := reflect.TypeOf(recordV1{})

		ser, err := factory.Get(rtype, rtype)
		require.NoError(t, err)

		obj := ser.(*objectSerializer)
		notation := &schema.CompositeType{
			TypeName: recordName,
			Desc:     obj.descriptor,
			Fields: []schema.Field{
				{Name: "a", Type: "long", Mandatory: true},
				{Name: "b", Type: "long", Mandatory: true},
			},
		}
		evolved, err := factory.maybeEvolve(notation, ser)
		require.NoError(t, err)
		require.Same(t, ser, evolved)
	})
	t.Run("With a drifted shape wrapped under the remote descriptor", func(t *testing.T) {
		factory := NewFactory()
		factory.Registry().RegisterNamed(recordName, recordWithoutB{})
		rtype := reflect.TypeOf(recordWithoutB{})

		ser, err := factory.Get(rtype, rtype)
		require.NoError(t, err)

		notation := &schema.CompositeType{
			TypeName: recordName,
			Desc:     "qs:00000000000000aa",
			Fields: []schema.Field{
				{Name: "a", Type: "long", Mandatory: true},
				{Name: "b", Type: "long", Mandatory: true},
			},
		}
		evolved, err := factory.maybeEvolve(notation, ser)
		require.NoError(t, err)
		require.NotSame(t, ser, evolved)
		require.Equal(t, schema.Descriptor("qs:00000000000000aa"), evolved.TypeDescriptor())
		require.Equal(t, ser.Type(), evolved.Type())
	})
}
