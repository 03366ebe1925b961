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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/registry"
)

const fixture = `
traits:
  admin:
    role: admin
factories:
  - name: user
    attributes:
      name: Ada
      email: "$sequence:user%d@example.com"
      profile:
        age: 36
  - name: owner
    from: user
    traits: admin
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuild_Single(t *testing.T) {
	file := writeFile(t, "fixtures.yaml", fixture)

	out, err := run(t, "build", "owner", "-f", file, "--set", "profile.age=40", "--set", "nickname=")
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1", rec["id"])
	assert.Equal(t, "admin", rec["role"])
	assert.Equal(t, "user1@example.com", rec["email"])
	assert.Equal(t, "", rec["nickname"])
	assert.Equal(t, map[string]any{"age": float64(40)}, rec["profile"])
}

func TestBuild_Many(t *testing.T) {
	file := writeFile(t, "fixtures.yaml", fixture)

	out, err := run(t, "build", "user", "-f", file, "-n", "3")
	require.NoError(t, err)

	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 3)
	assert.Equal(t, "3", recs[2]["id"])
	assert.Equal(t, "user3@example.com", recs[2]["email"])
}

func TestBuild_ConfigFileAndFlags(t *testing.T) {
	file := writeFile(t, "fixtures.yaml", fixture)
	cfg := writeFile(t, "foundry.yaml", "id_key: uid\n")

	out, err := run(t, "--config", cfg, "build", "user", "-f", file)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1", rec["uid"])
	assert.NotContains(t, rec, "id")

	out, err = run(t, "--config", cfg, "--id-key", "key", "build", "user", "-f", file)
	require.NoError(t, err)
	rec = nil
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1", rec["key"])
}

func TestBuild_Errors(t *testing.T) {
	file := writeFile(t, "fixtures.yaml", fixture)

	_, err := run(t, "build", "ghost", "-f", file)
	require.ErrorIs(t, err, registry.ErrUndefinedFactory)

	_, err = run(t, "build", "user", "-f", file, "--set", "novalue")
	require.ErrorIs(t, err, ErrInvalidOverride)

	_, err = run(t, "build", "user", "-f", file, "-n", "0")
	require.Error(t, err)

	_, err = run(t, "build", "user")
	require.Error(t, err)

	dup := writeFile(t, "dup.yaml", "traits:\n  a: {x: 1}\nfactories:\n  - name: u\n    traits: [a, b]\n")
	_, err = run(t, "build", "u", "-f", dup)
	require.ErrorIs(t, err, registry.ErrUndefinedTrait)
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBuild_Watch(t *testing.T) {
	file := writeFile(t, "fixtures.yaml", fixture)

	cmd := NewRootCommand(BuildInfo{})
	var out, errOut syncBuffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"build", "user", "-f", file, "--watch"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "user1@example.com")
	}, 5*time.Second, 10*time.Millisecond)

	updated := strings.Replace(fixture, "name: Ada", "name: Grace", 1)
	require.NoError(t, os.WriteFile(file, []byte(updated), 0o600))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Grace")
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(file, []byte("factories: [\n"), 0o600))
	require.Eventually(t, func() bool {
		return strings.Contains(errOut.String(), "Error:")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestList(t *testing.T) {
	file := writeFile(t, "fixtures.yaml", fixture)

	out, err := run(t, "list", "-f", file)
	require.NoError(t, err)
	assert.Equal(t, "factories:\n  owner\n  user\ntraits:\n  admin\n", out)

	out, err = run(t, "list", "-f", file, "--json")
	require.NoError(t, err)
	var got map[string][]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"owner", "user"}, got["factories"])
	assert.Equal(t, []string{"admin"}, got["traits"])
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "foundry 1.2.3 (commit: abc, built: today)\n", out)
}

func TestParseOverrides(t *testing.T) {
	tests := []struct {
		name    string
		sets    []string
		want    apis.Attributes
		wantErr bool
	}{
		{name: "empty", want: apis.Attributes{}},
		{
			name: "typed scalars",
			sets: []string{"n=42", "ok=true", "s=hello", "f=1.5", "nil=null"},
			want: apis.Attributes{"n": 42, "ok": true, "s": "hello", "f": 1.5, "nil": nil},
		},
		{
			name: "nested paths share parents",
			sets: []string{"a.b=1", "a.c=two"},
			want: apis.Attributes{"a": apis.Attributes{"b": 1, "c": "two"}},
		},
		{name: "value contains equals", sets: []string{"q=a=b"}, want: apis.Attributes{"q": "a=b"}},
		{name: "missing equals", sets: []string{"a"}, wantErr: true},
		{name: "empty path", sets: []string{"=1"}, wantErr: true},
		{name: "empty segment", sets: []string{"a..b=1"}, wantErr: true},
		{name: "set twice", sets: []string{"a=1", "a=2"}, wantErr: true},
		{name: "value then nested", sets: []string{"a=1", "a.b=2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOverrides(tt.sets)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidOverride)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
