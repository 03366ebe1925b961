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
	"maps"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/config"
	"dirpx.dev/foundry/merge"
	"dirpx.dev/foundry/sequence"
	uref "dirpx.dev/foundry/utils/reflect"
)

// Option configures a registry at construction time.
type Option func(*registry)

// WithAdapter sets the adapter used by Create.
func WithAdapter(a apis.Adapter) Option {
	return func(r *registry) {
		r.adapter = a
	}
}

// WithLogger sets the logger used for debug tracing. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New constructs an empty Registry for cfg.
//
// The zero Config means config.DefaultConfig(), so ids are assigned
// automatically. Otherwise empty IDKey/TagName and non-positive MaxUnwrap
// fall back to the defaults and AutoID is taken as given; build partial
// configurations with config.NewConfig to keep the other defaults.
func New(cfg apis.Config, opts ...Option) apis.Registry {
	if cfg == (apis.Config{}) {
		cfg = config.DefaultConfig()
	}
	if cfg.IDKey == "" {
		cfg.IDKey = config.DefaultIDKey
	}
	if cfg.TagName == "" {
		cfg.TagName = config.DefaultTagName
	}
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	r := &registry{
		cfg:         cfg,
		log:         zap.NewNop(),
		definitions: make(map[string]apis.Attributes),
		traits:      make(map[string]apis.Attributes),
		bindings:    make(map[reflect.Type]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// registry is the map-backed Registry implementation. It performs no locking.
type registry struct {
	// cfg is the configuration used for definition resolution.
	cfg apis.Config
	// log receives debug traces of every mutation and build.
	log *zap.Logger
	// adapter persists records for Create; nil means Create fails.
	adapter apis.Adapter
	// definitions maps factory name to its resolved template.
	definitions map[string]apis.Attributes
	// traits maps trait name to its fragment.
	traits map[string]apis.Attributes
	// bindings maps a normalized Go type to a factory name.
	bindings map[reflect.Type]string
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// Trait stores a copy of fragment under name. An existing trait is silently
// replaced unless the registry runs with StrictTraits.
func (r *registry) Trait(name string, fragment apis.Attributes) (apis.Attributes, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, ok := r.traits[name]; ok && r.cfg.StrictTraits {
		return nil, duplicateTrait(name)
	}

	stored := merge.CloneObject(fragment)
	r.traits[name] = stored
	r.log.Debug("trait registered", zap.String("trait", name), zap.Int("attributes", len(stored)))
	return merge.CloneObject(stored), nil
}

// Define resolves attrs against the optional parent and traits and stores the
// result under name.
//
// Resolution order:
//  1. IDKey receives a fresh sequence when attrs has no value for it.
//  2. The parent template (opts.From) is shallow-merged under attrs.
//  3. The traits are deep-merged in order, later ones winning, and the result
//     is deep-merged under the attributes from steps 1 and 2.
//
// Nothing is stored when any step fails.
func (r *registry) Define(name string, opts apis.DefineOptions, attrs apis.Attributes) (apis.Attributes, error) {
	if _, ok := r.definitions[name]; ok {
		return nil, duplicateDefinition(name)
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	resolved := merge.CloneObject(attrs)
	if r.cfg.AutoID {
		if v, ok := resolved[r.cfg.IDKey]; !ok || v == nil {
			resolved[r.cfg.IDKey] = r.Sequence(nil)
		}
	}

	if opts.From != "" {
		parent, ok := r.definitions[opts.From]
		if !ok {
			return nil, undefinedFactory(opts.From)
		}
		resolved = merge.Shallow(parent, resolved)
	}

	// Later traits win over earlier ones; own and inherited attributes win
	// over every trait.
	traits := apis.Attributes{}
	for _, trait := range opts.Traits {
		fragment, ok := r.traits[trait]
		if !ok {
			return nil, undefinedTrait(trait)
		}
		traits = merge.Deep(traits, fragment)
	}
	if len(opts.Traits) > 0 {
		resolved = merge.Deep(traits, resolved)
	}

	r.definitions[name] = resolved
	r.log.Debug("factory defined",
		zap.String("factory", name),
		zap.String("from", opts.From),
		zap.Strings("traits", opts.Traits),
	)
	return merge.CloneObject(resolved), nil
}

// Build deep-merges overrides over the stored template and evaluates every
// lazy attribute of the result. The stored template is never modified.
func (r *registry) Build(name string, overrides apis.Attributes) (apis.Record, error) {
	tmpl, ok := r.definitions[name]
	if !ok {
		return nil, undefinedFactory(name)
	}

	record := merge.Deep(tmpl, overrides)
	if path, err := evaluate(record, ""); err != nil {
		return nil, generatorFailed(name, path, err)
	}
	r.log.Debug("record built", zap.String("factory", name), zap.Int("overrides", len(overrides)))
	return record, nil
}

// BuildList builds n records with the same overrides. Lazy attributes are
// evaluated separately for each record.
func (r *registry) BuildList(name string, n int, overrides apis.Attributes) ([]apis.Record, error) {
	out := make([]apis.Record, 0, max(n, 0))
	for i := 0; i < n; i++ {
		rec, err := r.Build(name, overrides)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Create builds a record and hands it to the adapter, returning whatever the
// adapter returns.
func (r *registry) Create(name string, overrides apis.Attributes) (any, error) {
	if r.adapter == nil {
		return nil, noAdapter(name)
	}
	record, err := r.Build(name, overrides)
	if err != nil {
		return nil, err
	}
	saved, err := r.adapter.Save(name, record)
	if err != nil {
		return nil, adapterFailed(name, err)
	}
	r.log.Debug("record created", zap.String("factory", name))
	return saved, nil
}

// CreateList creates n records with the same overrides. It stops at the first
// failure; records saved before it stay saved.
func (r *registry) CreateList(name string, n int, overrides apis.Attributes) ([]any, error) {
	out := make([]any, 0, max(n, 0))
	for i := 0; i < n; i++ {
		saved, err := r.Create(name, overrides)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

// Sequence returns an independent generator; format defaults to the decimal
// string of the counter.
func (r *registry) Sequence(format func(int) any) apis.Generator {
	return sequence.New(format).Generator()
}

// TearDown removes every definition, trait and type binding. The adapter and
// the configuration are kept.
func (r *registry) TearDown() {
	clear(r.definitions)
	clear(r.traits)
	clear(r.bindings)
	r.log.Debug("registry torn down")
}

// Lookup returns a copy of the stored template for name.
func (r *registry) Lookup(name string) (apis.Attributes, bool) {
	tmpl, ok := r.definitions[name]
	if !ok {
		return nil, false
	}
	return merge.CloneObject(tmpl), true
}

// LookupTrait returns a copy of the stored fragment for name.
func (r *registry) LookupTrait(name string) (apis.Attributes, bool) {
	fragment, ok := r.traits[name]
	if !ok {
		return nil, false
	}
	return merge.CloneObject(fragment), true
}

// Names returns the sorted factory names.
func (r *registry) Names() []string {
	return slices.Sorted(maps.Keys(r.definitions))
}

// TraitNames returns the sorted trait names.
func (r *registry) TraitNames() []string {
	return slices.Sorted(maps.Keys(r.traits))
}

// Count returns the number of factory definitions.
func (r *registry) Count() int {
	return len(r.definitions)
}

// Entries returns a snapshot for diagnostics/migration (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, len(r.definitions)+len(r.traits))
	for name, tmpl := range r.traits {
		entries = append(entries, apis.Entry{Kind: apis.EntryTrait, Name: name, Attributes: merge.CloneObject(tmpl)})
	}
	for name, tmpl := range r.definitions {
		entries = append(entries, apis.Entry{Kind: apis.EntryFactory, Name: name, Attributes: merge.CloneObject(tmpl)})
	}
	return entries
}

// Restore stores an already-resolved entry without running Define's
// resolution steps. Generators inside it keep their state.
func (r *registry) Restore(e apis.Entry) error {
	if e.Name == "" {
		return ErrEmptyName
	}
	switch e.Kind {
	case apis.EntryTrait:
		if _, ok := r.traits[e.Name]; ok && r.cfg.StrictTraits {
			return duplicateTrait(e.Name)
		}
		r.traits[e.Name] = merge.CloneObject(e.Attributes)
	default:
		if _, ok := r.definitions[e.Name]; ok {
			return duplicateDefinition(e.Name)
		}
		r.definitions[e.Name] = merge.CloneObject(e.Attributes)
	}
	return nil
}

// BindType associates the nearest named type of t with a factory name.
// It is idempotent for the same (type, name) pair. The factory does not need
// to be defined yet.
func (r *registry) BindType(t reflect.Type, name string) error {
	if t == nil {
		return ErrNilType
	}
	if name == "" {
		return ErrEmptyName
	}
	nt, err := uref.Normalize(t, r.cfg.MaxUnwrap)
	if err != nil {
		return err
	}
	if old, ok := r.bindings[nt]; ok {
		if old == name {
			return nil
		}
		return conflictingBinding(nt, old, name)
	}
	r.bindings[nt] = name
	return nil
}

// Binding returns the factory name bound to t, if any.
func (r *registry) Binding(t reflect.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	nt, err := uref.Normalize(t, r.cfg.MaxUnwrap)
	if err != nil {
		return "", false
	}
	name, ok := r.bindings[nt]
	return name, ok
}

// Bindings returns a snapshot of every type binding (order is unspecified).
func (r *registry) Bindings() []apis.Binding {
	out := make([]apis.Binding, 0, len(r.bindings))
	for t, name := range r.bindings {
		out = append(out, apis.Binding{Type: t, Name: name})
	}
	return out
}

// Adapter returns the configured adapter, or nil.
func (r *registry) Adapter() apis.Adapter {
	return r.adapter
}

// SetAdapter replaces the adapter used by Create.
func (r *registry) SetAdapter(a apis.Adapter) {
	r.adapter = a
}

// Config returns the effective configuration.
func (r *registry) Config() apis.Config {
	return r.cfg
}
