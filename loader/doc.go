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

// Package loader registers traits and factory definitions described in a
// YAML fixture file.
//
// A fixture has two top-level keys:
//
//	traits:
//	  admin:
//	    role: admin
//	factories:
//	  - name: user
//	    traits: admin            # a single name or a list
//	    attributes:
//	      name: Ada
//	      email: "$sequence:user%d@example.com"
//	      token: "$uuid"
//	  - name: owner
//	    from: user
//	    attributes:
//	      role: owner
//
// Traits are registered first, then factories in document order, so a
// factory may only inherit from one listed above it.
//
// String values that start with "$" are directives and become lazy
// attributes, one independent generator per occurrence:
//
//	$sequence        "1", "2", ... (strings)
//	$sequence:<fmt>  fmt.Sprintf(<fmt>, n) for n = 1, 2, ...
//	$uuid            a random (version 4) UUID string
//	$now             the current UTC time
//	$$...            the literal string with one leading "$" removed
//
// Directives are expanded inside nested templates but not inside lists,
// which are opaque values.
//
// Parse rejects unknown top-level keys, factories without a name, factories
// that name themselves as parent and empty trait references with
// ErrInvalidFixture.
//
// A Watcher reloads a fixture into a fresh registry whenever the file
// changes, which is what `foundry build --watch` is built on.
package loader
