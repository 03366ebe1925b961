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

package resolver_test

import (
	"reflect"
	"testing"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/config"
	"dirpx.dev/foundry/resolver"
)

type fixed struct {
	name    string
	handled bool
	calls   *int
}

func (f fixed) TryResolve(any, apis.Config) (string, bool) {
	*f.calls++
	return f.name, f.handled
}

func (f fixed) TryResolveType(reflect.Type, apis.Config) (string, bool) {
	*f.calls++
	return f.name, f.handled
}

func TestChain_FirstHandledWins(t *testing.T) {
	var a, b, c int
	res := resolver.New(
		fixed{name: "", handled: false, calls: &a},
		nil,
		fixed{name: "second", handled: true, calls: &b},
		fixed{name: "third", handled: true, calls: &c},
	)
	cfg := config.DefaultConfig()

	if got := res.Resolve(1, cfg); got != "second" {
		t.Fatalf("Resolve = %q, want second", got)
	}
	if got := res.ResolveType(reflect.TypeOf(1), cfg); got != "second" {
		t.Fatalf("ResolveType = %q, want second", got)
	}
	if a != 2 || b != 2 || c != 0 {
		t.Fatalf("calls = (%d,%d,%d), want (2,2,0)", a, b, c)
	}
}

func TestChain_Empty(t *testing.T) {
	res := resolver.New()
	if got := res.Resolve(1, config.DefaultConfig()); got != "" {
		t.Fatalf("Resolve = %q, want empty", got)
	}
}

func TestChain_EmptyNameFallsThrough(t *testing.T) {
	var a, b int
	res := resolver.New(
		fixed{name: "", handled: true, calls: &a},
		fixed{name: "account", handled: true, calls: &b},
	)
	cfg := config.DefaultConfig()

	if got := res.Resolve(struct{}{}, cfg); got != "account" {
		t.Fatalf("Resolve = %q, want account", got)
	}
	if got := res.ResolveType(reflect.TypeOf(struct{}{}), cfg); got != "account" {
		t.Fatalf("ResolveType = %q, want account", got)
	}
	if a != 2 || b != 2 {
		t.Fatalf("calls = (%d,%d), want (2,2)", a, b)
	}
}
