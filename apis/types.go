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

// Attributes is an attribute template: a tree of named values whose leaves are
// primitives, lazy generators or nested templates.
type Attributes = map[string]any

// Record is the fully-resolved output of a build. It has the same shape as the
// template it came from, with every lazy generator replaced by its result.
type Record = map[string]any

// Generator is the canonical lazy attribute: it is invoked once per build and
// its result replaces it in the record.
//
// Any zero-argument func returning a single value, or a value and an error,
// is treated as a generator; Generator is merely the type the library itself
// hands out (for example from Sequence).
type Generator func() any

// DefineOptions carries the optional parts of a factory definition.
// The zero value means "no parent, no traits".
type DefineOptions struct {
	// From names a previously defined factory whose template is shallow-merged
	// under the new attributes.
	From string
	// Traits lists trait names applied in order, each one filling gaps in the
	// accumulated attributes.
	Traits []string
}

// EntryKind tells definition entries and trait entries apart in a snapshot.
type EntryKind int

const (
	// EntryFactory marks a factory definition.
	EntryFactory EntryKind = iota
	// EntryTrait marks a trait fragment.
	EntryTrait
)

// String implements fmt.Stringer.
func (k EntryKind) String() string {
	switch k {
	case EntryFactory:
		return "factory"
	case EntryTrait:
		return "trait"
	default:
		return "unknown"
	}
}

// Entry is a single stored template in a Registry snapshot.
type Entry struct {
	// Kind is the kind of the stored template.
	Kind EntryKind
	// Name is the factory or trait name.
	Name string
	// Attributes is the stored, resolved template.
	Attributes Attributes
}
