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

package apis

// Config carries read-only knobs that influence how definitions are resolved.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// IDKey is the attribute that receives a default sequence when a
	// definition does not provide one.
	IDKey string

	// AutoID controls whether Define assigns a default sequence to IDKey.
	AutoID bool

	// StrictTraits makes Trait reject a name that is already registered.
	// By default a trait is silently overwritten.
	StrictTraits bool

	// TagName is the struct tag consulted when a record is decoded into a
	// Go value.
	TagName string

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when a Go type is mapped to a factory name.
	MaxUnwrap int
}
