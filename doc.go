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

// Package foundry builds test data from named factory definitions.
//
// A factory is a named attribute template. Templates are plain
// map[string]any values whose leaves are either literal values or lazy
// generators (zero-argument funcs). Building a factory deep-merges caller
// overrides over the template and then calls every generator, so each
// record gets fresh sequence values, timestamps or identifiers:
//
//	foundry.Trait("admin", apis.Attributes{"role": "admin"})
//	foundry.Define("user", apis.DefineOptions{Traits: []string{"admin"}},
//		apis.Attributes{"name": "Ada"})
//
//	rec, _ := foundry.Build("user", nil)
//	// rec == apis.Record{"id": "1", "name": "Ada", "role": "admin"}
//
// # Design
//
// The actual work is done by an apis.Registry (see package registry).
// This package holds a process-wide default registry inside a read-mostly
// global snapshot (state). The snapshot holds:
//
//   - Config: the id key, whether ids are generated automatically, whether
//     traits may be redefined, and the struct tag used by typed builds.
//
//   - Registry: the factory definitions, traits, type bindings and the
//     persistence adapter used by Create.
//
//   - Resolver: answers "which factory builds this Go type?" for BuildInto
//     and CreateInto. The default resolver tries, in order:
//     1. If the value implements apis.Namer, use v.FactoryName().
//     2. If the type was bound with BindType, use that name.
//     3. Otherwise, the snake_case name of the nearest named type
//     (OrderLine -> "order_line").
//
//   - Builder: constructs Registry and Resolver instances for a given
//     Config. The default builder migrates definitions, traits, bindings
//     and the adapter from the previous registry, so changing the
//     configuration does not lose anything that was already defined.
//
// Readers load the snapshot pointer and never mutate it. Writers build a
// new snapshot under a mutex and swap it in atomically.
//
// # Global API
//
//  1. Registry operations, forwarded to the current registry:
//
//     Trait, Define, Build, BuildList, Create, CreateList,
//     Sequence, TearDown, SetAdapter, BindType
//
//  2. Typed builds:
//
//     BuildInto(dst any, overrides apis.Attributes) error
//     CreateInto(dst any, overrides apis.Attributes) error
//
//     The record is decoded into dst with mapstructure, honoring the
//     Config.TagName struct tag ("json" by default). Input is weakly
//     typed, so the generated string id "1" fills an int ID field.
//
//  3. Reconfiguration:
//
//     SetConfig, SetBuilder, SetExt, SetRegistry, SetResolver,
//     UnpinRegistry, UnpinResolver, Reset
//
// # Concurrency model
//
// Swapping snapshots is safe from any goroutine. The registry itself is
// not synchronized: definitions, sequences and the adapter are meant to
// be used from one test at a time. Tests that run in parallel should use
// their own registry (registry.New) instead of the global one.
//
// # Pinning
//
// SetRegistry and SetResolver install a caller-provided layer and pin it.
// A pinned layer is not rebuilt by SetConfig or SetBuilder until it is
// unpinned with UnpinRegistry or UnpinResolver.
package foundry
