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

package carpentry

import (
	"fmt"
	"reflect"
	"unicode"

	"github.com/google/uuid"

	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/internal/xsync"
	"github.com/quorumline/amqpserde/log"
	"github.com/quorumline/amqpserde/schema"
)

var anyType = reflect.TypeOf((*any)(nil)).Elem()

// Resolution gives a synthesizer access to the types around the one being
// built: already carpented or locally resolvable types, and the structural
// information of other members of the same carpentry batch.
type Resolution interface {
	// ResolveType resolves an identifier to a usable runtime type
	ResolveType(id schema.TypeIdentifier) (reflect.Type, error)
	// Information returns the batch-local structural description of id
	Information(id schema.TypeIdentifier) (schema.RemoteTypeInformation, bool)
}

// Synthesizer produces an opaque runtime type handle from a structural
// description. The default implementation builds struct types with
// reflect.StructOf; alternative implementations may generate code or fall
// back to tagged records.
type Synthesizer interface {
	Synthesize(info schema.RemoteTypeInformation, res Resolution) (reflect.Type, error)
}

// Carpenter synthesizes runtime types from remote structural descriptions,
// idempotently per type identifier: repeated requests for the same canonical
// name return the cached type, and concurrent requests collapse to one build.
type Carpenter struct {
	synth   Synthesizer
	cache   *xsync.Map[string, reflect.Type]
	handles *xsync.Map[string, string]
	logger  log.Logger
}

// Option configures a Carpenter.
type Option func(*Carpenter)

// WithLogger sets the carpenter's logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Carpenter) { c.logger = logger }
}

// WithSynthesizer replaces the default struct synthesizer.
func WithSynthesizer(s Synthesizer) Option {
	return func(c *Carpenter) { c.synth = s }
}

// New creates a Carpenter with the default reflect.StructOf synthesizer.
func New(opts ...Option) *Carpenter {
	c := &Carpenter{
		synth:   structSynthesizer{},
		cache:   xsync.NewMap[string, reflect.Type](),
		handles: xsync.NewMap[string, string](),
		logger:  log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Known returns the previously carpented type for a canonical name.
func (c *Carpenter) Known(canonical string) (reflect.Type, bool) {
	return c.cache.Get(canonical)
}

// CarpentBatch synthesizes every type in the batch in dependency order,
// returning the carpented types keyed by canonical name. Identifiers not in
// the batch resolve through the caller-supplied resolve function. Synthesis
// within a batch is sequential; independent batches coordinate only through
// the shared type cache. Any failure, including a cycle, aborts the whole
// batch with a CarpentryError and performs no further synthesis.
func (c *Carpenter) CarpentBatch(infos []schema.RemoteTypeInformation, resolve func(schema.TypeIdentifier) (reflect.Type, error)) (map[string]reflect.Type, error) {
	ordered, err := Order(infos)
	if err != nil {
		return nil, errors.NewCarpentryError(describeBatch(infos), err)
	}

	byName := make(map[string]schema.RemoteTypeInformation, len(ordered))
	for _, info := range ordered {
		byName[info.Identifier().Canonical()] = info
	}

	built := make(map[string]reflect.Type, len(ordered))
	res := &batchResolution{carpenter: c, built: built, batch: byName, resolve: resolve}

	for _, info := range ordered {
		canonical := info.Identifier().Canonical()
		rtype, err := c.cache.GetOrCompute(canonical, func() (reflect.Type, error) {
			return c.synthesize(info, res)
		})
		if err != nil {
			return nil, err
		}
		built[canonical] = rtype
	}
	return built, nil
}

// synthesize runs the synthesizer, converting any panic out of the reflect
// machinery into a carpentry error so nothing raw escapes the call.
func (c *Carpenter) synthesize(info schema.RemoteTypeInformation, res Resolution) (rtype reflect.Type, err error) {
	canonical := info.Identifier().Canonical()
	defer func() {
		if r := recover(); r != nil {
			rtype, err = nil, errors.NewCarpentryError(canonical, fmt.Errorf("type synthesis panicked: %v", r))
		}
	}()

	rtype, err = c.synth.Synthesize(info, res)
	if err != nil {
		return nil, errors.NewCarpentryError(canonical, err)
	}

	handle := uuid.NewString()
	c.handles.Set(canonical, handle)
	c.logger.Debugf("carpented %s as %s (handle %s)", canonical, rtype, handle)
	return rtype, nil
}

// Handle returns the synthesis handle assigned to a carpented type, for
// diagnostics.
func (c *Carpenter) Handle(canonical string) (string, bool) {
	return c.handles.Get(canonical)
}

func describeBatch(infos []schema.RemoteTypeInformation) string {
	if len(infos) == 1 {
		return infos[0].Identifier().Canonical()
	}
	return fmt.Sprintf("batch of %d types", len(infos))
}

// batchResolution resolves identifiers inside one CarpentBatch call: types
// built earlier in the batch win, then the carpenter's cache, then the
// caller's resolver.
type batchResolution struct {
	carpenter *Carpenter
	built     map[string]reflect.Type
	batch     map[string]schema.RemoteTypeInformation
	resolve   func(schema.TypeIdentifier) (reflect.Type, error)
}

var _ Resolution = (*batchResolution)(nil)

func (b *batchResolution) ResolveType(id schema.TypeIdentifier) (reflect.Type, error) {
	canonical := id.Canonical()
	if rtype, ok := b.built[canonical]; ok {
		return rtype, nil
	}
	if rtype, ok := b.carpenter.cache.Get(canonical); ok {
		return rtype, nil
	}
	return b.resolve(id)
}

func (b *batchResolution) Information(id schema.TypeIdentifier) (schema.RemoteTypeInformation, bool) {
	info, ok := b.batch[id.Canonical()]
	return info, ok
}

// structSynthesizer is the default Synthesizer. Composables become struct
// types via reflect.StructOf, interfaces become the empty interface, arrays
// and parameterized containers become slices and maps, enums become distinct
// ordinal-carrying types.
type structSynthesizer struct{}

var _ Synthesizer = structSynthesizer{}

func (structSynthesizer) Synthesize(info schema.RemoteTypeInformation, res Resolution) (reflect.Type, error) {
	switch i := info.(type) {
	case *schema.Composable:
		return synthesizeComposable(i, res)
	case *schema.AnInterface:
		return anyType, nil
	case *schema.AnArray:
		elem, err := res.ResolveType(i.Element)
		if err != nil {
			return nil, fmt.Errorf("array element %s: %w", i.Element, err)
		}
		return reflect.SliceOf(elem), nil
	case *schema.Parameterised:
		return synthesizeParameterised(i, res)
	case *schema.AnEnum:
		return synthesizeEnum(i), nil
	case *schema.APrimitive:
		if rtype, ok := schema.PrimitiveType(i.ID.Name); ok {
			return rtype, nil
		}
		return nil, fmt.Errorf("unknown primitive %s", i.ID)
	default:
		return nil, fmt.Errorf("no structural information for %s", info.Identifier())
	}
}

func synthesizeComposable(info *schema.Composable, res Resolution) (reflect.Type, error) {
	props := make([]schema.RemoteProperty, 0, len(info.Properties))
	byWireName := make(map[string]schema.TypeIdentifier, len(info.Properties))
	add := func(p schema.RemoteProperty, origin string) error {
		if existing, ok := byWireName[p.Name]; ok {
			if existing.Canonical() != p.Type.Canonical() {
				return fmt.Errorf("property %q of %s conflicts: declared both %s and %s (%s)",
					p.Name, info.ID, existing, p.Type, origin)
			}
			return nil
		}
		byWireName[p.Name] = p.Type
		props = append(props, p)
		return nil
	}

	for _, p := range info.Properties {
		if err := add(p, "declared"); err != nil {
			return nil, err
		}
	}
	// interface-declared properties not already covered must be exposed too
	for _, iface := range info.Interfaces {
		ifaceInfo, ok := res.Information(iface)
		if !ok {
			continue
		}
		decl, ok := ifaceInfo.(*schema.AnInterface)
		if !ok {
			continue
		}
		for _, p := range decl.Properties {
			if err := add(p, "via interface "+iface.Canonical()); err != nil {
				return nil, err
			}
		}
	}

	fields := make([]reflect.StructField, 0, len(props))
	seen := make(map[string]string, len(props))
	for _, p := range props {
		goName, err := exportName(p.Name)
		if err != nil {
			return nil, err
		}
		if prior, clash := seen[goName]; clash {
			return nil, fmt.Errorf("naming collision in %s: properties %q and %q both map to field %s",
				info.ID, prior, p.Name, goName)
		}
		seen[goName] = p.Name

		ftype, err := res.ResolveType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("property %q of %s: %w", p.Name, info.ID, err)
		}
		if !p.Mandatory && !nilable(ftype) {
			ftype = reflect.PointerTo(ftype)
		}
		fields = append(fields, reflect.StructField{
			Name: goName,
			Type: ftype,
			Tag:  reflect.StructTag(fmt.Sprintf(`amqp:"%s"`, p.Name)),
		})
	}
	return reflect.StructOf(fields), nil
}

// synthesizeEnum builds the runtime stand-in for a remote enumeration: a
// single ordinal field, tagged with the enum's canonical name. The tag keeps
// two enums with identical members from collapsing into one reflect type,
// and keeps the result disjoint from every shared global type — an enum must
// never be synthesized onto a type other values dispatch through.
func synthesizeEnum(info *schema.AnEnum) reflect.Type {
	return reflect.StructOf([]reflect.StructField{{
		Name: "Ordinal",
		Type: reflect.TypeOf(int64(0)),
		Tag:  reflect.StructTag(fmt.Sprintf(`amqpenum:%q`, info.ID.Canonical())),
	}})
}

func synthesizeParameterised(info *schema.Parameterised, res Resolution) (reflect.Type, error) {
	switch info.ID.Name {
	case "list":
		if len(info.TypeParameters) != 1 {
			return nil, fmt.Errorf("list %s requires exactly one type parameter", info.ID)
		}
		elem, err := res.ResolveType(info.TypeParameters[0])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	case "map":
		if len(info.TypeParameters) != 2 {
			return nil, fmt.Errorf("map %s requires exactly two type parameters", info.ID)
		}
		key, err := res.ResolveType(info.TypeParameters[0])
		if err != nil {
			return nil, err
		}
		val, err := res.ResolveType(info.TypeParameters[1])
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(key, val), nil
	default:
		return nil, fmt.Errorf("unsupported parameterized base %q in %s", info.ID.Name, info.ID)
	}
}

// exportName turns a wire property name into an exported Go field name.
func exportName(wireName string) (string, error) {
	runes := []rune(wireName)
	if len(runes) == 0 {
		return "", fmt.Errorf("empty property name")
	}
	if !unicode.IsLetter(runes[0]) {
		return "", fmt.Errorf("property name %q cannot start a field name", wireName)
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes), nil
}

// nilable reports whether a type already admits an absent value.
func nilable(rtype reflect.Type) bool {
	switch rtype.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	default:
		return false
	}
}
