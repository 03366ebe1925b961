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

import (
	"reflect"
)

// Resolver coordinates strategies to find the factory that produces a Go value
// or type. Typical chain: NamerStrategy -> BindingStrategy -> ReflectStrategy.
type Resolver interface {
	// Resolve returns the factory name for v, or "" if none can be determined.
	Resolve(v any, cfg Config) string

	// ResolveType returns the factory name for t, or "" if none can be determined.
	ResolveType(t reflect.Type, cfg Config) string
}

// Namer is implemented by types that know which factory builds them.
type Namer interface {
	// FactoryName returns the factory name for the receiver's type. It must
	// not depend on instance state.
	FactoryName() string
}
