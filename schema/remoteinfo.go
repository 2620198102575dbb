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
	"fmt"
)

// RemoteTypeInformation is the structural view of a type as a remote peer
// declared it, compiled from a TypeNotation for one resolution pass. It is a
// closed sum over Composable, AnInterface, AnArray, Parameterised, APrimitive
// and Unknown, never mutated after construction.
type RemoteTypeInformation interface {
	// Identifier returns the parsed canonical identifier of the type
	Identifier() TypeIdentifier
	// TypeDescriptor returns the sender-minted descriptor, when known
	TypeDescriptor() Descriptor
	// Dependencies lists the identifiers this type structurally depends on
	// via properties, type parameters, interfaces or array elements
	Dependencies() []TypeIdentifier

	remoteTypeInformation()
}

// RemoteProperty is one named property of a remote composable or interface.
type RemoteProperty struct {
	Name      string
	Type      TypeIdentifier
	Mandatory bool
}

// Composable is a concrete remote class with named properties.
type Composable struct {
	ID             TypeIdentifier
	Desc           Descriptor
	Properties     []RemoteProperty
	Interfaces     []TypeIdentifier
	TypeParameters []TypeIdentifier
}

var _ RemoteTypeInformation = (*Composable)(nil)

// Identifier returns the parsed canonical identifier of the type
func (c *Composable) Identifier() TypeIdentifier { return c.ID }

// TypeDescriptor returns the sender-minted descriptor, when known
func (c *Composable) TypeDescriptor() Descriptor { return c.Desc }

// Dependencies lists property types, interfaces and type parameters
func (c *Composable) Dependencies() []TypeIdentifier {
	deps := make([]TypeIdentifier, 0, len(c.Properties)+len(c.Interfaces)+len(c.TypeParameters))
	for _, p := range c.Properties {
		deps = append(deps, p.Type)
	}
	deps = append(deps, c.Interfaces...)
	deps = append(deps, c.TypeParameters...)
	return deps
}

func (c *Composable) remoteTypeInformation() {}

// AnInterface is a remote interface declaration.
type AnInterface struct {
	ID              TypeIdentifier
	Desc            Descriptor
	Properties      []RemoteProperty
	TypeParameters  []TypeIdentifier
	SuperInterfaces []TypeIdentifier
}

var _ RemoteTypeInformation = (*AnInterface)(nil)

// Identifier returns the parsed canonical identifier of the type
func (i *AnInterface) Identifier() TypeIdentifier { return i.ID }

// TypeDescriptor returns the sender-minted descriptor, when known
func (i *AnInterface) TypeDescriptor() Descriptor { return i.Desc }

// Dependencies lists property types, super-interfaces and type parameters
func (i *AnInterface) Dependencies() []TypeIdentifier {
	deps := make([]TypeIdentifier, 0, len(i.Properties)+len(i.SuperInterfaces)+len(i.TypeParameters))
	for _, p := range i.Properties {
		deps = append(deps, p.Type)
	}
	deps = append(deps, i.SuperInterfaces...)
	deps = append(deps, i.TypeParameters...)
	return deps
}

func (i *AnInterface) remoteTypeInformation() {}

// AnArray is a remote array type.
type AnArray struct {
	ID      TypeIdentifier
	Desc    Descriptor
	Element TypeIdentifier
}

var _ RemoteTypeInformation = (*AnArray)(nil)

// Identifier returns the parsed canonical identifier of the type
func (a *AnArray) Identifier() TypeIdentifier { return a.ID }

// TypeDescriptor returns the sender-minted descriptor, when known
func (a *AnArray) TypeDescriptor() Descriptor { return a.Desc }

// Dependencies lists the element type
func (a *AnArray) Dependencies() []TypeIdentifier {
	return []TypeIdentifier{a.Element}
}

func (a *AnArray) remoteTypeInformation() {}

// Parameterised is a remote generic such as list<string> or map<string,long>.
type Parameterised struct {
	ID             TypeIdentifier
	Desc           Descriptor
	TypeParameters []TypeIdentifier
}

var _ RemoteTypeInformation = (*Parameterised)(nil)

// Identifier returns the parsed canonical identifier of the type
func (p *Parameterised) Identifier() TypeIdentifier { return p.ID }

// TypeDescriptor returns the sender-minted descriptor, when known
func (p *Parameterised) TypeDescriptor() Descriptor { return p.Desc }

// Dependencies lists the type parameters
func (p *Parameterised) Dependencies() []TypeIdentifier {
	return p.TypeParameters
}

func (p *Parameterised) remoteTypeInformation() {}

// APrimitive is a remote wire primitive.
type APrimitive struct {
	ID TypeIdentifier
}

var _ RemoteTypeInformation = (*APrimitive)(nil)

// Identifier returns the parsed canonical identifier of the type
func (p *APrimitive) Identifier() TypeIdentifier { return p.ID }

// TypeDescriptor returns an empty descriptor; primitives carry none
func (p *APrimitive) TypeDescriptor() Descriptor { return "" }

// Dependencies returns nothing; primitives are leaves
func (p *APrimitive) Dependencies() []TypeIdentifier { return nil }

func (p *APrimitive) remoteTypeInformation() {}

// AnEnum is a remote enumeration with its ordered member names.
type AnEnum struct {
	ID      TypeIdentifier
	Desc    Descriptor
	Members []string
}

var _ RemoteTypeInformation = (*AnEnum)(nil)

// Identifier returns the parsed canonical identifier of the type
func (e *AnEnum) Identifier() TypeIdentifier { return e.ID }

// TypeDescriptor returns the sender-minted descriptor, when known
func (e *AnEnum) TypeDescriptor() Descriptor { return e.Desc }

// Dependencies returns nothing; enum members are strings
func (e *AnEnum) Dependencies() []TypeIdentifier { return nil }

func (e *AnEnum) remoteTypeInformation() {}

// Unknown is a remote type the engine has no structural information about.
type Unknown struct {
	ID TypeIdentifier
}

var _ RemoteTypeInformation = (*Unknown)(nil)

// Identifier returns the parsed canonical identifier of the type
func (u *Unknown) Identifier() TypeIdentifier { return u.ID }

// TypeDescriptor returns an empty descriptor
func (u *Unknown) TypeDescriptor() Descriptor { return "" }

// Dependencies returns nothing
func (u *Unknown) Dependencies() []TypeIdentifier { return nil }

func (u *Unknown) remoteTypeInformation() {}

// InformationFor compiles a wire notation into its structural description.
// Composite notations become Composable, or AnInterface when flagged as
// interface declarations; restricted list and map notations become
// Parameterised, restricted array names become AnArray and restricted enum
// notations become AnEnum.
func InformationFor(notation TypeNotation) (RemoteTypeInformation, error) {
	switch n := notation.(type) {
	case *CompositeType:
		id, err := ParseIdentifier(n.TypeName)
		if err != nil {
			return nil, err
		}
		props := make([]RemoteProperty, 0, len(n.Fields))
		for _, f := range n.Fields {
			ft, err := ParseIdentifier(f.Type)
			if err != nil {
				return nil, fmt.Errorf("property %s of %s: %w", f.Name, n.TypeName, err)
			}
			props = append(props, RemoteProperty{Name: f.Name, Type: ft, Mandatory: f.Mandatory})
		}
		provides := make([]TypeIdentifier, 0, len(n.Provides))
		for _, p := range n.Provides {
			pt, err := ParseIdentifier(p)
			if err != nil {
				return nil, fmt.Errorf("interface %s of %s: %w", p, n.TypeName, err)
			}
			provides = append(provides, pt)
		}
		var params []TypeIdentifier
		if id.Kind == KindParameterised {
			params = id.Params
		}
		if n.Interface {
			return &AnInterface{ID: id, Desc: n.Desc, Properties: props, SuperInterfaces: provides, TypeParameters: params}, nil
		}
		return &Composable{ID: id, Desc: n.Desc, Properties: props, Interfaces: provides, TypeParameters: params}, nil

	case *RestrictedType:
		id, err := ParseIdentifier(n.TypeName)
		if err != nil {
			return nil, err
		}
		if id.Kind == KindArray {
			return &AnArray{ID: id, Desc: n.Desc, Element: *id.Elem}, nil
		}
		if n.Source == SourceEnum {
			return &AnEnum{ID: id, Desc: n.Desc, Members: n.Choices}, nil
		}
		params := make([]TypeIdentifier, 0, len(n.Elements))
		for _, e := range n.Elements {
			et, err := ParseIdentifier(e)
			if err != nil {
				return nil, fmt.Errorf("element %s of %s: %w", e, n.TypeName, err)
			}
			params = append(params, et)
		}
		if len(params) == 0 && id.Kind == KindParameterised {
			params = id.Params
		}
		return &Parameterised{ID: id, Desc: n.Desc, TypeParameters: params}, nil

	default:
		return nil, fmt.Errorf("unhandled notation kind %T", notation)
	}
}
