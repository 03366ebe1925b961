/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package loader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/config"
	"dirpx.dev/foundry/loader"
	"dirpx.dev/foundry/registry"
)

const fixture = `
traits:
  admin:
    role: admin
  verified:
    profile:
      verified: true
      since: 2020
factories:
  - name: user
    traits: admin
    attributes:
      name: Ada
      email: "$sequence:user%d@example.com"
      token: "$uuid"
      price: "$$5"
      tags: ["$uuid", plain]
      profile:
        handle: "$sequence"
        verified: false
  - name: owner
    from: user
    traits: [verified]
    attributes:
      role: owner
`

func load(t *testing.T, src string) (apis.Registry, *loader.Fixture) {
	t.Helper()
	reg := registry.New(config.DefaultConfig())
	f, err := loader.Load(reg, strings.NewReader(src))
	require.NoError(t, err)
	return reg, f
}

func TestLoad_RegistersEntries(t *testing.T) {
	reg, f := load(t, fixture)

	assert.Equal(t, []string{"owner", "user"}, reg.Names())
	assert.Equal(t, []string{"admin", "verified"}, reg.TraitNames())
	require.Len(t, f.Factories, 2)
	assert.Equal(t, loader.Names{"admin"}, f.Factories[0].Traits)
	assert.Equal(t, loader.Names{"verified"}, f.Factories[1].Traits)
}

func TestLoad_Directives(t *testing.T) {
	reg, _ := load(t, fixture)

	first, err := reg.Build("user", nil)
	require.NoError(t, err)
	second, err := reg.Build("user", nil)
	require.NoError(t, err)

	assert.Equal(t, "admin", first["role"])
	assert.Equal(t, "user1@example.com", first["email"])
	assert.Equal(t, "user2@example.com", second["email"])
	assert.Equal(t, "$5", first["price"])
	assert.Equal(t, "1", first["id"])
	assert.Equal(t, "2", second["id"])

	_, err = uuid.Parse(first["token"].(string))
	require.NoError(t, err)
	assert.NotEqual(t, first["token"], second["token"])

	profile := first["profile"].(map[string]any)
	assert.Equal(t, "1", profile["handle"])
	assert.Equal(t, false, profile["verified"])

	// Lists are opaque: directive strings inside them stay literal.
	assert.Equal(t, []any{"$uuid", "plain"}, first["tags"])
}

func TestLoad_Inheritance(t *testing.T) {
	reg, _ := load(t, fixture)

	rec, err := reg.Build("owner", nil)
	require.NoError(t, err)

	assert.Equal(t, "owner", rec["role"])
	assert.Equal(t, "Ada", rec["name"])
	assert.Equal(t, "user1@example.com", rec["email"])
	// The inherited profile keeps its own keys and gains the trait's missing ones.
	profile := rec["profile"].(map[string]any)
	assert.Equal(t, false, profile["verified"])
	assert.Equal(t, 2020, profile["since"])
}

func TestLoad_Now(t *testing.T) {
	reg, _ := load(t, `
factories:
  - name: event
    attributes:
      at: "$now"
`)
	before := time.Now().UTC()
	rec, err := reg.Build("event", nil)
	require.NoError(t, err)

	at, ok := rec["at"].(time.Time)
	require.True(t, ok)
	assert.False(t, at.Before(before.Add(-time.Second)))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{
			name: "unknown directive",
			src:  "factories:\n  - name: user\n    attributes:\n      x: \"$nope\"\n",
			want: loader.ErrUnknownDirective,
		},
		{
			name: "nested unknown directive",
			src:  "traits:\n  t:\n    a:\n      b: \"$uuid:v7\"\n",
			want: loader.ErrUnknownDirective,
		},
		{
			name: "missing name",
			src:  "factories:\n  - attributes:\n      x: 1\n",
			want: loader.ErrInvalidFixture,
		},
		{
			name: "inherits from itself",
			src:  "factories:\n  - name: user\n    from: user\n",
			want: loader.ErrInvalidFixture,
		},
		{
			name: "empty trait reference",
			src:  "factories:\n  - name: user\n    traits: [\"\"]\n",
			want: loader.ErrInvalidFixture,
		},
		{
			name: "unknown field",
			src:  "factory:\n  - name: user\n",
			want: loader.ErrInvalidFixture,
		},
		{
			name: "malformed yaml",
			src:  "factories: [\n",
			want: loader.ErrInvalidFixture,
		},
		{
			name: "undefined parent",
			src:  "factories:\n  - name: child\n    from: parent\n",
			want: registry.ErrUndefinedFactory,
		},
		{
			name: "undefined trait",
			src:  "factories:\n  - name: user\n    traits: [ghost]\n",
			want: registry.ErrUndefinedTrait,
		},
		{
			name: "duplicate factory",
			src:  "factories:\n  - name: user\n  - name: user\n",
			want: registry.ErrDuplicateDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New(config.DefaultConfig())
			_, err := loader.Load(reg, strings.NewReader(tt.src))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	reg, f := load(t, "")
	assert.Empty(t, f.Factories)
	assert.Zero(t, reg.Count())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	reg := registry.New(config.DefaultConfig())
	_, err := loader.LoadFile(reg, path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Count())

	_, err = loader.LoadFile(reg, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}
