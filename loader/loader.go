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

package loader

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/sequence"
	uref "dirpx.dev/foundry/utils/reflect"
)

var (
	// ErrInvalidFixture is returned when a fixture cannot be decoded or is
	// structurally incomplete.
	ErrInvalidFixture = errors.New("foundry(loader): invalid fixture")
	// ErrUnknownDirective is returned for a "$" string that names no known
	// directive.
	ErrUnknownDirective = errors.New("foundry(loader): unknown directive")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Fixture is the decoded form of a fixture file.
type Fixture struct {
	Traits    map[string]apis.Attributes `yaml:"traits"`
	Factories []Factory                  `yaml:"factories" validate:"dive"`
}

// Factory is one factory entry of a fixture.
type Factory struct {
	Name       string          `yaml:"name" validate:"required"`
	From       string          `yaml:"from" validate:"omitempty,nefield=Name"`
	Traits     Names           `yaml:"traits" validate:"dive,required"`
	Attributes apis.Attributes `yaml:"attributes"`
}

// Names is a list of names that also accepts a single scalar in YAML.
type Names []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Names) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*n = Names{s}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*n = list
	return nil
}

// Parse decodes a fixture from r without registering anything.
func Parse(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithStack(&fixtureError{cause: err})
	}
	if err := validate.Struct(&f); err != nil {
		return nil, errors.WithStack(&fixtureError{cause: err})
	}
	return &f, nil
}

// Apply registers the fixture's traits (sorted by name) and then its
// factories (in order) with reg. It stops at the first error; entries
// registered before it stay registered.
func (f *Fixture) Apply(reg apis.Registry) error {
	for _, name := range slices.Sorted(maps.Keys(f.Traits)) {
		fragment, err := expand(f.Traits[name])
		if err != nil {
			return errors.Wrapf(err, "trait %q", name)
		}
		if _, err := reg.Trait(name, fragment); err != nil {
			return err
		}
	}
	for _, fac := range f.Factories {
		attrs, err := expand(fac.Attributes)
		if err != nil {
			return errors.Wrapf(err, "factory %q", fac.Name)
		}
		opts := apis.DefineOptions{From: fac.From, Traits: fac.Traits}
		if _, err := reg.Define(fac.Name, opts, attrs); err != nil {
			return err
		}
	}
	return nil
}

// Load parses a fixture from r and applies it to reg.
func Load(reg apis.Registry, r io.Reader) (*Fixture, error) {
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(reg); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadFile is Load for the file at path.
func LoadFile(reg apis.Registry, path string) (*Fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening fixture %s", path)
	}
	defer fh.Close()

	f, err := Load(reg, fh)
	if err != nil {
		return nil, errors.Wrapf(err, "loading fixture %s", path)
	}
	return f, nil
}

// expand returns a copy of attrs with every directive string replaced by its
// generator. Nested templates are expanded recursively.
func expand(attrs apis.Attributes) (apis.Attributes, error) {
	out := make(apis.Attributes, len(attrs))
	for k, v := range attrs {
		if s, ok := v.(string); ok {
			gen, err := directive(s)
			if err != nil {
				return nil, errors.Wrapf(err, "attribute %q", k)
			}
			out[k] = gen
			continue
		}
		if m, ok := uref.AsObject(v); ok {
			nested, err := expand(m)
			if err != nil {
				return nil, errors.Wrapf(err, "attribute %q", k)
			}
			out[k] = nested
			continue
		}
		out[k] = v
	}
	return out, nil
}

// directive turns s into a generator when it is a directive, or returns s
// (unescaped) otherwise.
func directive(s string) (any, error) {
	if !strings.HasPrefix(s, "$") {
		return s, nil
	}
	if strings.HasPrefix(s, "$$") {
		return s[1:], nil
	}

	name, arg, hasArg := strings.Cut(s[1:], ":")
	switch {
	case name == "sequence" && !hasArg:
		return sequence.New(nil).Generator(), nil
	case name == "sequence":
		return sequence.New(func(n int) any { return fmt.Sprintf(arg, n) }).Generator(), nil
	case name == "uuid" && !hasArg:
		return apis.Generator(func() any { return uuid.NewString() }), nil
	case name == "now" && !hasArg:
		return apis.Generator(func() any { return time.Now().UTC() }), nil
	default:
		return nil, errors.Wrapf(ErrUnknownDirective, "%q", s)
	}
}

// fixtureError reports a decoding or validation failure as ErrInvalidFixture
// while keeping the underlying error reachable.
type fixtureError struct{ cause error }

func (e *fixtureError) Error() string {
	return ErrInvalidFixture.Error() + ": " + e.cause.Error()
}

func (e *fixtureError) Unwrap() []error { return []error{ErrInvalidFixture, e.cause} }
