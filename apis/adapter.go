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

// Adapter persists built records on behalf of Registry.Create.
//
// Save is called synchronously with the factory name and the freshly built
// record. Whatever it returns is handed back to the caller of Create; the
// registry makes no assumption about its shape.
type Adapter interface {
	Save(name string, record Record) (any, error)
}

// AdapterFunc adapts a plain function to the Adapter interface.
type AdapterFunc func(name string, record Record) (any, error)

// Save calls f(name, record).
func (f AdapterFunc) Save(name string, record Record) (any, error) {
	return f(name, record)
}
