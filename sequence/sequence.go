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

// Package sequence provides stateful generators of successive values, used
// for default identifiers and any attribute that must be unique per build.
package sequence

import (
	"strconv"

	"dirpx.dev/foundry/apis"
)

// Format turns the counter value into the generated attribute value.
type Format func(n int) any

// Itoa is the default Format: the counter as a decimal string.
func Itoa(n int) any {
	return strconv.Itoa(n)
}

// Sequence is a counter plus a formatting function. The counter starts at 0
// and is incremented before every call to the format function, so the first
// value is format(1).
//
// A Sequence is not safe for concurrent use.
type Sequence struct {
	n      int
	format Format
}

// New returns a Sequence using format, or Itoa when format is nil.
func New(format Format) *Sequence {
	if format == nil {
		format = Itoa
	}
	return &Sequence{format: format}
}

// Next advances the counter and returns the formatted value.
func (s *Sequence) Next() any {
	s.n++
	return s.format(s.n)
}

// Current returns the last counter value handed out (0 before the first Next).
func (s *Sequence) Current() int {
	return s.n
}

// Generator returns Next as a lazy attribute.
func (s *Sequence) Generator() apis.Generator {
	return s.Next
}
