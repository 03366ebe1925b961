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

package sequence_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/foundry/sequence"
)

func TestSequence_DefaultFormat(t *testing.T) {
	s := sequence.New(nil)
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, "1", s.Next())
	assert.Equal(t, "2", s.Next())
	assert.Equal(t, 2, s.Current())
}

func TestSequence_CustomFormat(t *testing.T) {
	s := sequence.New(func(n int) any { return fmt.Sprintf("user%d@example.com", n) })
	gen := s.Generator()
	assert.Equal(t, "user1@example.com", gen())
	assert.Equal(t, "user2@example.com", gen())
}

func TestSequence_Independent(t *testing.T) {
	a := sequence.New(nil)
	b := sequence.New(func(n int) any { return n * 10 })

	a.Next()
	a.Next()

	assert.Equal(t, 10, b.Next())
	assert.Equal(t, "3", a.Next())
}
