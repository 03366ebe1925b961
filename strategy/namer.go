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

package strategy

import (
	"reflect"

	"dirpx.dev/foundry/apis"
	uref "dirpx.dev/foundry/utils/reflect"
)

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is the fast path: if v implements apis.Namer, return its
// FactoryName() and stop the chain.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

var namerType = reflect.TypeOf((*apis.Namer)(nil)).Elem()

// TryResolve checks if v implements apis.Namer and returns its FactoryName().
// Empty names fall through.
func (*namerStrategy) TryResolve(v any, _ apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	if n, ok := v.(apis.Namer); ok {
		if name := n.FactoryName(); name != "" {
			return name, true
		}
	}
	return "", false
}

// TryResolveType looks for apis.Namer on t, then on the nearest named type of
// t and a pointer to it, and asks a zero value of the first match for its name.
func (s *namerStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	candidates := []reflect.Type{t}
	if base, err := uref.Normalize(t, cfg.MaxUnwrap); err == nil {
		candidates = append(candidates, base, reflect.PointerTo(base))
	}
	for _, c := range candidates {
		if c.Implements(namerType) {
			return s.TryResolve(zeroOf(c), cfg)
		}
	}
	return "", false
}

// zeroOf returns a usable zero value of t; pointers point at a fresh zero
// element rather than being nil.
func zeroOf(t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.Zero(t).Interface()
}
