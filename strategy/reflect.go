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
	"strings"
	"sync"
	"unicode"

	"dirpx.dev/foundry/apis"
	uref "dirpx.dev/foundry/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that derives factory names from
// Go type names using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback. It unwraps containers
// (ptr/slice/array/chan/map) via Normalize, strips generic instantiation
// parameters and converts the type name to snake_case:
// OrderLine -> "order_line", HTTPRequest -> "http_request".
// Builtin (package-less) types never resolve.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

// factoryNameCache caches resolved factory names by (type, config knobs).
var factoryNameCache sync.Map // key: cacheKey, val: string

// TryResolve computes the factory name for v's type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (string, bool) {
	if v == nil {
		return "", false
	}
	return byType(reflect.TypeOf(v), cfg)
}

// TryResolveType computes the factory name for t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil {
		return "", false
	}
	return byType(t, cfg)
}

// byType resolves the factory name for t with memoization.
func byType(t reflect.Type, cfg apis.Config) (string, bool) {
	key := cacheKey{t: t, maxUnwrap: int16(cfg.MaxUnwrap)}
	if v, ok := factoryNameCache.Load(key); ok {
		name := v.(string)
		return name, name != ""
	}

	name := ""
	if base, err := uref.Normalize(t, cfg.MaxUnwrap); err == nil && base.PkgPath() != "" {
		name = snakeCase(stripTypeParams(base.Name()))
	}

	factoryNameCache.Store(key, name)
	return name, name != ""
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

// snakeCase converts a Go identifier to snake_case, keeping acronyms together.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
