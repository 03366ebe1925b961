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

// Package merge implements the merge semantics used to resolve factory
// templates.
//
// Deep recurses into paired nested templates (map[string]any); in every
// other case the right operand wins. Slices, arrays and any other container
// types are replaced wholesale, never merged element by element. None of the
// functions modify their inputs.
package merge

import (
	"reflect"

	uref "dirpx.dev/foundry/utils/reflect"
)

// Deep returns a new template holding base overlaid with over.
// Nested templates present on both sides are merged recursively; otherwise
// the value from over replaces the value from base. Either side may be nil.
func Deep(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = Clone(v)
	}
	for k, v := range over {
		if ov, ok := uref.AsObject(v); ok {
			if bv, ok := uref.AsObject(out[k]); ok {
				out[k] = Deep(bv, ov)
				continue
			}
		}
		out[k] = Clone(v)
	}
	return out
}

// Shallow returns a new template holding base overlaid with over at the top
// level only. Nested values are shared with the inputs.
func Shallow(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy of nested templates and slices in v. Other values,
// including functions, pointers and structs, are returned as is.
func Clone(v any) any {
	switch uref.KindOf(v) {
	case uref.KindObject:
		m, _ := uref.AsObject(v)
		return CloneObject(m)
	case uref.KindArray:
		return cloneArray(v)
	default:
		return v
	}
}

// CloneObject returns a deep copy of m. A nil map yields an empty template.
func CloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

func cloneArray(v any) any {
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = Clone(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array {
		// Arrays are values; copying the interface already copied them.
		return v
	}
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)
	return out.Interface()
}
