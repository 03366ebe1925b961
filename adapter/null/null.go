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

// Package null provides the pass-through adapter: Save returns the record it
// was given. It is the default stand-in when records need no persistence.
package null

import (
	"dirpx.dev/foundry/apis"
)

// New returns a pass-through adapter.
func New() apis.Adapter {
	return adapter{}
}

type adapter struct{}

// Save returns record unchanged.
func (adapter) Save(_ string, record apis.Record) (any, error) {
	return record, nil
}
