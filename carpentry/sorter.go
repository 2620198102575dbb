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

// Package carpentry synthesizes runtime types from the structural schema a
// remote peer declared, when no matching local type exists. Synthesis is
// dependency ordered: a type's property, interface and element types are
// carpented before the type itself.
package carpentry

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/schema"
)

// Order sequences a carpentry set so that every in-set dependency precedes
// its dependents. Only edges whose target is itself in the set are
// considered: types resolvable locally need no sequencing. Input order is the
// tie-break among independent types, so a given input always orders the same
// way. A dependency cycle confined to the set fails with
// errors.ErrCyclicDependency before any carpentry happens.
func Order(infos []schema.RemoteTypeInformation) ([]schema.RemoteTypeInformation, error) {
	byName := make(map[string]schema.RemoteTypeInformation, len(infos))
	names := make([]string, 0, len(infos))
	inSet := mapset.NewThreadUnsafeSet[string]()
	for _, info := range infos {
		name := info.Identifier().Canonical()
		if _, dup := byName[name]; dup {
			continue
		}
		byName[name] = info
		names = append(names, name)
		inSet.Add(name)
	}

	// dependency map restricted to in-set targets; types with no in-set
	// dependency never appear as a key
	deps := make(map[string]mapset.Set[string], len(names))
	for _, name := range names {
		set := mapset.NewThreadUnsafeSet[string]()
		for _, dep := range byName[name].Dependencies() {
			target := dep.Canonical()
			if target != name && inSet.Contains(target) {
				set.Add(target)
			}
		}
		if set.Cardinality() > 0 {
			deps[name] = set
		}
	}

	ordered := make([]schema.RemoteTypeInformation, 0, len(names))
	pending := names
	for len(pending) > 0 {
		frontier := make([]string, 0, len(pending))
		blocked := make([]string, 0, len(pending))
		for _, name := range pending {
			if _, hasDeps := deps[name]; hasDeps {
				blocked = append(blocked, name)
			} else {
				frontier = append(frontier, name)
			}
		}

		if len(frontier) == 0 {
			return nil, fmt.Errorf("%w for {%s}", errors.ErrCyclicDependency, strings.Join(blocked, ", "))
		}

		for _, name := range frontier {
			ordered = append(ordered, byName[name])
		}
		for name, set := range deps {
			for _, done := range frontier {
				set.Remove(done)
			}
			if set.Cardinality() == 0 {
				delete(deps, name)
			}
		}
		pending = blocked
	}
	return ordered, nil
}
