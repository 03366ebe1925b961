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

package registry

import (
	"maps"
	"slices"

	uref "dirpx.dev/foundry/utils/reflect"
)

// evaluate replaces, in place and depth-first, every lazy generator in record
// with its result and recurses into nested templates. Keys are visited in
// sorted order so generators with shared state run deterministically.
//
// Slices are leaves: generators inside them are left as they are. A
// generator's result is not evaluated again.
//
// On failure it returns the dotted path of the attribute whose generator
// failed.
func evaluate(record map[string]any, prefix string) (string, error) {
	for _, k := range slices.Sorted(maps.Keys(record)) {
		v := record[k]
		switch uref.KindOf(v) {
		case uref.KindFunction:
			if !uref.IsGenerator(v) {
				continue
			}
			out, err := uref.Invoke(v)
			if err != nil {
				return join(prefix, k), err
			}
			record[k] = out
		case uref.KindObject:
			m, _ := uref.AsObject(v)
			if path, err := evaluate(m, join(prefix, k)); err != nil {
				return path, err
			}
		}
	}
	return "", nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
