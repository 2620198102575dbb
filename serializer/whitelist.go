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
	"io"
	"os"
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"

	"github.com/quorumline/amqpserde/errors"
)

// Whitelist is the policy gate approving specific types for serialization.
// The factory consults it before building enum, singleton and structural
// serializers; a rejection is a security error and is always surfaced
// verbatim.
type Whitelist interface {
	// RequireWhitelisted fails with errors.ErrNotWhitelisted when rtype is
	// not approved for serialization
	RequireWhitelisted(rtype reflect.Type) error
}

type allowAll struct{}

var _ Whitelist = allowAll{}

func (allowAll) RequireWhitelisted(reflect.Type) error { return nil }

// AllowAll returns a whitelist approving every type. Deployments that care
// about deserialization attacks should supply a NameAllowlist instead.
func AllowAll() Whitelist {
	return allowAll{}
}

// NameAllowlist approves types by canonical name. Matching considers both
// the Go type string and the name the type was registered under, supplied by
// the namer at construction time.
type NameAllowlist struct {
	names mapset.Set[string]
	namer func(reflect.Type) (string, bool)
}

var _ Whitelist = (*NameAllowlist)(nil)

// NewNameAllowlist builds an allowlist over the given names. namer may be
// nil, in which case only Go type strings are matched.
func NewNameAllowlist(namer func(reflect.Type) (string, bool), names ...string) *NameAllowlist {
	set := mapset.NewSet[string]()
	set.Append(names...)
	return &NameAllowlist{names: set, namer: namer}
}

// Add approves another name at runtime.
func (w *NameAllowlist) Add(name string) {
	w.names.Add(name)
}

// RequireWhitelisted fails with errors.ErrNotWhitelisted when rtype is not
// approved for serialization
func (w *NameAllowlist) RequireWhitelisted(rtype reflect.Type) error {
	if w.names.Contains(rtype.String()) {
		return nil
	}
	if w.namer != nil {
		if name, ok := w.namer(rtype); ok && w.names.Contains(name) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", errors.ErrNotWhitelisted, rtype)
}

// allowlistFile is the YAML shape of an allowlist configuration.
type allowlistFile struct {
	Whitelist []string `yaml:"whitelist"`
}

// NameAllowlistFromYAML reads an allowlist from YAML of the form:
//
//	whitelist:
//	  - com.example.Account
//	  - com.example.Trade
func NameAllowlistFromYAML(r io.Reader, namer func(reflect.Type) (string, bool)) (*NameAllowlist, error) {
	var file allowlistFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding whitelist: %w", err)
	}
	return NewNameAllowlist(namer, file.Whitelist...), nil
}

// NameAllowlistFromFile reads an allowlist from a YAML file on disk.
func NameAllowlistFromFile(path string, namer func(reflect.Type) (string, bool)) (*NameAllowlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening whitelist: %w", err)
	}
	defer f.Close()
	return NameAllowlistFromYAML(f, namer)
}
