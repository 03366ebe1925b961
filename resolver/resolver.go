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

// Package resolver maps Go values and types to factory names for typed
// builds (foundry.BuildInto and foundry.CreateInto).
//
// A resolver is an ordered list of apis.Strategy values. The default list,
// assembled by package builder, is: the type's own FactoryName method, then
// the registry's BindType bindings, then the snake_case type name.
package resolver

import (
	"reflect"

	"dirpx.dev/foundry/apis"
)

// New returns a resolver that asks each strategy in turn and returns the first
// factory name reported. Nil strategies are dropped.
func New(strategies ...apis.Strategy) apis.Resolver {
	steps := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			steps = append(steps, s)
		}
	}
	return chain{steps: steps}
}

// chain is immutable once built, so it is safe to share between snapshots.
type chain struct {
	steps []apis.Strategy
}

// Resolve returns the factory name for v, or "" when no strategy names one.
// A strategy that claims v but reports an empty name does not stop the chain,
// since no factory can be registered under "".
func (c chain) Resolve(v any, cfg apis.Config) string {
	for _, s := range c.steps {
		if name, ok := s.TryResolve(v, cfg); ok && name != "" {
			return name
		}
	}
	return ""
}

// ResolveType is Resolve for a reflect.Type.
func (c chain) ResolveType(t reflect.Type, cfg apis.Config) string {
	for _, s := range c.steps {
		if name, ok := s.TryResolveType(t, cfg); ok && name != "" {
			return name
		}
	}
	return ""
}
