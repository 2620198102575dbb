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

	"github.com/fxamacker/cbor/v2"

	"github.com/quorumline/amqpserde/internal/compression"
	"github.com/quorumline/amqpserde/schema"
)

// The envelope is the self-describing outer frame: the payload's descriptor,
// the schema describing every type the payload transitively uses, and the
// encoded payload itself.

type wireField struct {
	Name      string `cbor:"name"`
	Type      string `cbor:"type"`
	Mandatory bool   `cbor:"mandatory"`
}

type wireNotation struct {
	Kind       string      `cbor:"kind"`
	Name       string      `cbor:"name"`
	Descriptor string      `cbor:"descriptor"`
	Fields     []wireField `cbor:"fields,omitempty"`
	Provides   []string    `cbor:"provides,omitempty"`
	Source     string      `cbor:"source,omitempty"`
	Elements   []string    `cbor:"elements,omitempty"`
	Choices    []string    `cbor:"choices,omitempty"`
}

type wireEnvelope struct {
	Descriptor string         `cbor:"descriptor"`
	Schema     []wireNotation `cbor:"schema"`
	Encoding   string         `cbor:"encoding,omitempty"`
	Payload    []byte         `cbor:"payload"`
}

const (
	kindComposite  = "composite"
	kindInterface  = "interface"
	kindRestricted = "restricted"
)

var (
	envelopeEncode cbor.EncMode
	envelopeDecode cbor.DecMode
)

func init() {
	var err error
	envelopeEncode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	envelopeDecode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal encodes a value into a self-describing envelope.
func (f *Factory) Marshal(v any) ([]byte, error) {
	rtype := reflect.TypeOf(v)
	ser, err := f.Get(rtype, rtype)
	if err != nil {
		return nil, err
	}
	wire, err := ser.WriteObject(v)
	if err != nil {
		return nil, err
	}
	payload, err := envelopeEncode.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	var encoding string
	if f.encoding != nil {
		if payload, err = f.encoding.Compress(payload); err != nil {
			return nil, fmt.Errorf("compressing payload: %w", err)
		}
		encoding = f.encoding.Name()
	}

	sch := schema.NewSchema()
	ser.WriteSchema(sch)
	notations := make([]wireNotation, 0, sch.Len())
	for _, t := range sch.Types() {
		notations = append(notations, toWireNotation(t))
	}

	return envelopeEncode.Marshal(wireEnvelope{
		Descriptor: string(ser.TypeDescriptor()),
		Schema:     notations,
		Encoding:   encoding,
		Payload:    payload,
	})
}

// Unmarshal decodes an envelope, resolving remote types through the schema
// it carries.
func (f *Factory) Unmarshal(data []byte) (any, error) {
	var env wireEnvelope
	if err := envelopeDecode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}

	sch := schema.NewSchema()
	for _, n := range env.Schema {
		notation, err := fromWireNotation(n)
		if err != nil {
			return nil, err
		}
		sch.Append(notation)
	}

	ser, err := f.GetByDescriptor(schema.Descriptor(env.Descriptor), sch)
	if err != nil {
		return nil, err
	}

	payload := env.Payload
	if env.Encoding != "" {
		codec, ok := compression.ByName(env.Encoding)
		if !ok {
			return nil, fmt.Errorf("unknown payload encoding %q", env.Encoding)
		}
		if payload, err = codec.Decompress(payload); err != nil {
			return nil, fmt.Errorf("decompressing payload: %w", err)
		}
	}

	var wire any
	if err := envelopeDecode.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	return ser.ReadObject(wire)
}

func toWireNotation(t schema.TypeNotation) wireNotation {
	switch n := t.(type) {
	case *schema.CompositeType:
		fields := make([]wireField, 0, len(n.Fields))
		for _, fld := range n.Fields {
			fields = append(fields, wireField{Name: fld.Name, Type: fld.Type, Mandatory: fld.Mandatory})
		}
		kind := kindComposite
		if n.Interface {
			kind = kindInterface
		}
		return wireNotation{
			Kind:       kind,
			Name:       n.TypeName,
			Descriptor: string(n.Desc),
			Fields:     fields,
			Provides:   n.Provides,
		}
	case *schema.RestrictedType:
		return wireNotation{
			Kind:       kindRestricted,
			Name:       n.TypeName,
			Descriptor: string(n.Desc),
			Source:     string(n.Source),
			Elements:   n.Elements,
			Choices:    n.Choices,
		}
	default:
		return wireNotation{}
	}
}

func fromWireNotation(n wireNotation) (schema.TypeNotation, error) {
	switch n.Kind {
	case kindComposite, kindInterface:
		fields := make([]schema.Field, 0, len(n.Fields))
		for _, fld := range n.Fields {
			fields = append(fields, schema.Field{Name: fld.Name, Type: fld.Type, Mandatory: fld.Mandatory})
		}
		return &schema.CompositeType{
			TypeName:  n.Name,
			Desc:      schema.Descriptor(n.Descriptor),
			Fields:    fields,
			Provides:  n.Provides,
			Interface: n.Kind == kindInterface,
		}, nil
	case kindRestricted:
		return &schema.RestrictedType{
			TypeName: n.Name,
			Desc:     schema.Descriptor(n.Descriptor),
			Source:   schema.RestrictedSource(n.Source),
			Elements: n.Elements,
			Choices:  n.Choices,
		}, nil
	default:
		return nil, fmt.Errorf("unknown notation kind %q", n.Kind)
	}
}
