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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quorumline/amqpserde/errors"
	"github.com/quorumline/amqpserde/internal/registry"
)

func TestNameAllowlist(t *testing.T) {
	t.Run("With the Go type string matched", func(t *testing.T) {
		allow := NewNameAllowlist(nil, "serializer.invoice")

		require.NoError(t, allow.RequireWhitelisted(reflect.TypeOf(invoice{})))
		require.ErrorIs(t, allow.RequireWhitelisted(reflect.TypeOf(payment{})), errors.ErrNotWhitelisted)
	})
	t.Run("With registered wire names matched through the namer", func(t *testing.T) {
		reg := registry.New()
		reg.RegisterNamed("com.example.Invoice", invoice{})
		allow := NewNameAllowlist(reg.NameFor, "com.example.Invoice")

		require.NoError(t, allow.RequireWhitelisted(reflect.TypeOf(invoice{})))
	})
	t.Run("With names added after construction", func(t *testing.T) {
		allow := NewNameAllowlist(nil)
		require.ErrorIs(t, allow.RequireWhitelisted(reflect.TypeOf(invoice{})), errors.ErrNotWhitelisted)

		allow.Add("serializer.invoice")
		require.NoError(t, allow.RequireWhitelisted(reflect.TypeOf(invoice{})))
	})
	t.Run("With YAML configuration", func(t *testing.T) {
		allow, err := NameAllowlistFromYAML(strings.NewReader("whitelist:\n  - serializer.invoice\n"), nil)
		require.NoError(t, err)
		require.NoError(t, allow.RequireWhitelisted(reflect.TypeOf(invoice{})))
		require.ErrorIs(t, allow.RequireWhitelisted(reflect.TypeOf(payment{})), errors.ErrNotWhitelisted)
	})
	t.Run("With malformed YAML rejected", func(t *testing.T) {
		_, err := NameAllowlistFromYAML(strings.NewReader("whitelist: {{"), nil)
		require.Error(t, err)
	})
	t.Run("With a configuration file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "whitelist.yaml")
		require.NoError(t, os.WriteFile(path, []byte("whitelist:\n  - serializer.invoice\n"), 0o600))

		allow, err := NameAllowlistFromFile(path, nil)
		require.NoError(t, err)
		require.NoError(t, allow.RequireWhitelisted(reflect.TypeOf(invoice{})))
	})
	t.Run("With a missing configuration file", func(t *testing.T) {
		_, err := NameAllowlistFromFile(filepath.Join(t.TempDir(), "nowhere.yaml"), nil)
		require.Error(t, err)
	})
}
