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

import "reflect"

// Registry owns factory definitions and traits, produces records from them and
// delegates persistence to an Adapter.
//
// Implementations are not required to be safe for concurrent use; callers that
// share one Registry across goroutines serialize access themselves.
type Registry interface {
	// Trait stores fragment under name and returns the stored fragment.
	Trait(name string, fragment Attributes) (Attributes, error)
	// Define resolves and stores a factory template under name.
	Define(name string, opts DefineOptions, attrs Attributes) (Attributes, error)
	// Build resolves the named template with overrides into a new record.
	Build(name string, overrides Attributes) (Record, error)
	// BuildList builds n independent records.
	BuildList(name string, n int, overrides Attributes) ([]Record, error)
	// Create builds a record and passes it to the configured Adapter.
	Create(name string, overrides Attributes) (any, error)
	// CreateList creates n records.
	CreateList(name string, n int, overrides Attributes) ([]any, error)
	// Sequence returns an independent generator of successive values.
	Sequence(format func(int) any) Generator
	// TearDown removes every definition, trait and type binding.
	TearDown()

	// Lookup returns a copy of the stored template for a factory.
	Lookup(name string) (Attributes, bool)
	// LookupTrait returns a copy of the stored fragment for a trait.
	LookupTrait(name string) (Attributes, bool)
	// Names returns the sorted factory names.
	Names() []string
	// TraitNames returns the sorted trait names.
	TraitNames() []string
	// Count returns the number of factory definitions.
	Count() int
	// Entries returns a snapshot of every stored template (order is unspecified).
	Entries() []Entry
	// Restore stores an already-resolved entry verbatim.
	Restore(e Entry) error

	// BindType associates a (nearest named) Go type with a factory name.
	BindType(t reflect.Type, name string) error
	// Binding returns the factory name bound to t, if any.
	Binding(t reflect.Type) (name string, ok bool)
	// Bindings returns a snapshot of every type binding (order is unspecified).
	Bindings() []Binding

	// Adapter returns the configured adapter, or nil.
	Adapter() Adapter
	// SetAdapter replaces the configured adapter. Nil removes it.
	SetAdapter(a Adapter)
	// Config returns the configuration the registry was built with.
	Config() Config
}

// Binding is a single (type, factory name) association.
type Binding struct {
	// Type is the normalized Go type.
	Type reflect.Type
	// Name is the factory name.
	Name string
}
