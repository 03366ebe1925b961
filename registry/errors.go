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
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
)

var (
	// ErrDuplicateDefinition is returned by Define when the factory name is
	// already registered.
	ErrDuplicateDefinition = errors.New("foundry(registry): duplicate factory definition")
	// ErrUndefinedFactory is returned when a factory name (a Define parent, or
	// the target of Build/Create) is not registered.
	ErrUndefinedFactory = errors.New("foundry(registry): undefined factory")
	// ErrUndefinedTrait is returned by Define when a referenced trait is not
	// registered.
	ErrUndefinedTrait = errors.New("foundry(registry): undefined trait")
	// ErrNoAdapter is returned by Create when no adapter is configured.
	ErrNoAdapter = errors.New("foundry(registry): no adapter configured")
	// ErrDuplicateTrait is returned by Trait in strict mode when the trait
	// name is already registered.
	ErrDuplicateTrait = errors.New("foundry(registry): duplicate trait")
	// ErrEmptyName is returned when an empty factory, trait or binding name
	// is provided.
	ErrEmptyName = errors.New("foundry(registry): empty name provided")
	// ErrGenerator marks a build that failed because a lazy attribute
	// returned an error.
	ErrGenerator = errors.New("foundry(registry): generator failed")
	// ErrAdapter marks a create that failed inside the adapter.
	ErrAdapter = errors.New("foundry(registry): adapter failed")
	// ErrNilType is returned when a nil reflect.Type is bound.
	ErrNilType = errors.New("foundry(registry): nil reflect.Type provided")
	// ErrConflictingBinding indicates an attempt to bind a type that is
	// already bound to a different factory.
	ErrConflictingBinding = errors.New("foundry(registry): conflicting type binding")
)

func duplicateDefinition(name string) error {
	return errors.Wrapf(ErrDuplicateDefinition, "define %q", name)
}

func undefinedFactory(name string) error {
	return errors.Wrapf(ErrUndefinedFactory, "factory %q", name)
}

func undefinedTrait(name string) error {
	return errors.Wrapf(ErrUndefinedTrait, "trait %q", name)
}

func duplicateTrait(name string) error {
	return errors.Wrapf(ErrDuplicateTrait, "trait %q", name)
}

func noAdapter(name string) error {
	return errors.WithHint(
		errors.Wrapf(ErrNoAdapter, "create %q", name),
		"configure one with SetAdapter, e.g. the pass-through adapter/null",
	)
}

func generatorFailed(name, path string, cause error) error {
	return errors.WithStack(&causeError{
		class: ErrGenerator,
		cause: cause,
		msg:   fmt.Sprintf("build %q: attribute %q", name, path),
	})
}

func adapterFailed(name string, cause error) error {
	return errors.WithStack(&causeError{
		class: ErrAdapter,
		cause: cause,
		msg:   fmt.Sprintf("create %q", name),
	})
}

func conflictingBinding(t reflect.Type, old, name string) error {
	return errors.Wrapf(ErrConflictingBinding, "type %s is bound to %q, cannot rebind to %q", t, old, name)
}

// causeError is a failure of a given class caused by an error from caller
// code (a generator or an adapter). errors.Is matches both.
type causeError struct {
	class error
	cause error
	msg   string
}

func (e *causeError) Error() string {
	return e.msg + ": " + e.class.Error() + ": " + e.cause.Error()
}

func (e *causeError) Unwrap() []error {
	return []error{e.class, e.cause}
}
