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

package foundry

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/builder"
	"dirpx.dev/foundry/config"
	uref "dirpx.dev/foundry/utils/reflect"
)

// init initializes the global state.
func init() {
	st.Store(fresh(config.DefaultConfig(), builder.New()))
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("foundry: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("foundry: builder returned nil resolver")
	// ErrInvalidTarget is returned by BuildInto and CreateInto when dst is
	// not a non-nil pointer.
	ErrInvalidTarget = errors.New("foundry: target must be a non-nil pointer")
	// ErrUnresolvedFactory is returned when no factory name can be derived
	// from a target's type.
	ErrUnresolvedFactory = errors.New("foundry: cannot resolve factory for target")
)

// Trait registers a trait with the global registry.
func Trait(name string, fragment apis.Attributes) (apis.Attributes, error) {
	return st.Load().reg.Trait(name, fragment)
}

// Define registers a factory definition with the global registry.
func Define(name string, opts apis.DefineOptions, attrs apis.Attributes) (apis.Attributes, error) {
	return st.Load().reg.Define(name, opts, attrs)
}

// Build builds a record from the global registry.
func Build(name string, overrides apis.Attributes) (apis.Record, error) {
	return st.Load().reg.Build(name, overrides)
}

// BuildList builds n records from the global registry.
func BuildList(name string, n int, overrides apis.Attributes) ([]apis.Record, error) {
	return st.Load().reg.BuildList(name, n, overrides)
}

// Create builds a record and saves it through the global registry's adapter.
func Create(name string, overrides apis.Attributes) (any, error) {
	return st.Load().reg.Create(name, overrides)
}

// CreateList creates n records through the global registry's adapter.
func CreateList(name string, n int, overrides apis.Attributes) ([]any, error) {
	return st.Load().reg.CreateList(name, n, overrides)
}

// Sequence returns an independent generator of successive values.
func Sequence(format func(int) any) apis.Generator {
	return st.Load().reg.Sequence(format)
}

// TearDown clears every definition, trait and type binding of the global
// registry. The adapter and configuration are kept.
func TearDown() {
	st.Load().reg.TearDown()
}

// SetAdapter sets the adapter used by Create. Nil removes it.
func SetAdapter(a apis.Adapter) {
	st.Load().reg.SetAdapter(a)
}

// BindType binds the Go type t to a factory name for BuildInto and CreateInto.
func BindType(t reflect.Type, name string) error {
	return st.Load().reg.BindType(t, name)
}

// Name returns the factory name the global resolver derives for v.
func Name(v any) string {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// BuildInto builds a record for the factory resolved from dst's type and
// decodes it into dst, which must be a non-nil pointer.
func BuildInto(dst any, overrides apis.Attributes) error {
	s := st.Load()
	name, err := s.factoryFor(dst)
	if err != nil {
		return err
	}
	rec, err := s.reg.Build(name, overrides)
	if err != nil {
		return err
	}
	return s.decode(rec, dst)
}

// CreateInto is BuildInto for Create: the adapter's result is decoded into
// dst. A nil result leaves dst untouched.
func CreateInto(dst any, overrides apis.Attributes) error {
	s := st.Load()
	name, err := s.factoryFor(dst)
	if err != nil {
		return err
	}
	out, err := s.reg.Create(name, overrides)
	if err != nil {
		return err
	}
	if uref.KindOf(out) == uref.KindNull {
		return nil
	}
	return s.decode(out, dst)
}

// factoryFor resolves the factory name for a decode target.
func (s *state) factoryFor(dst any) (string, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return "", errors.Wrapf(ErrInvalidTarget, "got %T", dst)
	}
	name := s.res.Resolve(dst, s.cfg)
	if name == "" {
		return "", errors.Wrapf(ErrUnresolvedFactory, "%T", dst)
	}
	return name, nil
}

// decode copies src into dst using the configured struct tag. Input is
// weakly typed, so string ids decode into numeric fields.
func (s *state) decode(src, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          s.cfg.TagName,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "foundry: creating decoder")
	}
	if err := dec.Decode(src); err != nil {
		return errors.Wrapf(err, "foundry: decoding into %T", dst)
	}
	return nil
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the registry
// and resolver through the builder, unless they are pinned. Definitions,
// traits, type bindings and the adapter migrate to the new registry.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg and res based on the new cfg and old state.
	st.Store(rebuild(old, cfg, old.bld))
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry replaces the global registry with reg and pins it: SetConfig
// and SetBuilder stop rebuilding it until UnpinRegistry is called. The
// resolver is rebuilt so that type bindings come from reg.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	nres := old.res
	if !old.pres {
		nres = old.bld.BuildResolver(old.cfg, reg, old.res, old.ext)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(&state{
		cfg:  old.cfg,
		ext:  old.ext,
		reg:  reg,
		res:  nres,
		bld:  old.bld,
		preg: true,
		pres: old.pres,
	})
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// UnpinRegistry lets SetConfig and SetBuilder rebuild the registry again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.preg = false
	st.Store(&next)
}

// Resolver returns the global factory-name resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver replaces the global resolver with res and pins it.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.res = res
	next.pres = true
	st.Store(&next)
}

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// UnpinResolver lets SetConfig, SetBuilder and SetRegistry rebuild the
// resolver again.
func UnpinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.pres = false
	st.Store(&next)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the layers that are
// not pinned with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg and res based on the new bld and old state.
	st.Store(rebuild(old, old.cfg, b))
}

// SetExt replaces the extension value handed to the builder and rebuilds the
// layers that are not pinned.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	with := *old
	with.ext = ext
	st.Store(rebuild(&with, old.cfg, old.bld))
}

// ExtAs returns the global extension value as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// Reset replaces the global state with an empty registry built by a default
// builder from the default configuration. Nothing is migrated, pins and the
// adapter are dropped.
func Reset() {
	buildMu.Lock()
	defer buildMu.Unlock()

	st.Store(fresh(config.DefaultConfig(), builder.New()))
}

// fresh builds a state with no previous registry or resolver.
func fresh(cfg apis.Config, b apis.Builder) *state {
	s := &state{cfg: cfg, bld: b}
	s.reg = b.BuildRegistry(cfg, nil, nil)
	s.res = b.BuildResolver(cfg, s.reg, nil, nil)
	return s
}

// rebuild derives the next state from old for cfg and b, rebuilding every
// layer that is not pinned.
func rebuild(old *state, cfg apis.Config, b apis.Builder) *state {
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(cfg, nreg, old.res, old.ext)
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	return &state{
		cfg:  cfg,
		ext:  old.ext,
		reg:  nreg,
		res:  nres,
		bld:  b,
		preg: old.preg,
		pres: old.pres,
	}
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the extension value handed to the builder.
	ext any
	// reg is the global registry.
	reg apis.Registry
	// res is the global factory-name resolver.
	res apis.Resolver
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the reg is pinned.
	preg bool
	// pres indicates whether the res is pinned.
	pres bool
}
