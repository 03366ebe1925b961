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

package builder

import (
	"go.uber.org/zap"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/registry"
	"dirpx.dev/foundry/resolver"
	"dirpx.dev/foundry/strategy"
)

// Option configures the default builder.
type Option func(*builder)

// WithLogger sets the logger handed to every registry the builder creates.
func WithLogger(l *zap.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder builds registry.New registries and the standard resolver chain.
type builder struct {
	log *zap.Logger
}

// BuildRegistry builds and returns a new apis.Registry for cfg. If a previous
// registry is provided, its traits, definitions, type bindings and adapter
// are carried over. Definitions keep their resolved templates, so sequences
// continue where they left off.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry, _ any) apis.Registry {
	opts := []registry.Option{registry.WithLogger(b.log)}
	if prev != nil {
		opts = append(opts, registry.WithAdapter(prev.Adapter()))
	}
	next := registry.New(cfg, opts...)
	if prev == nil {
		return next
	}

	for _, e := range prev.Entries() {
		if err := next.Restore(e); err != nil {
			b.log.Warn("dropping entry during migration",
				zap.Stringer("kind", e.Kind),
				zap.String("name", e.Name),
				zap.Error(err),
			)
		}
	}
	for _, bnd := range prev.Bindings() {
		if err := next.BindType(bnd.Type, bnd.Name); err != nil {
			b.log.Warn("dropping type binding during migration",
				zap.Stringer("type", bnd.Type),
				zap.String("factory", bnd.Name),
				zap.Error(err),
			)
		}
	}
	return next
}

// BuildResolver builds the standard chain: Namer, then reg's type bindings,
// then the reflection fallback.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewBindingStrategy(reg),
		strategy.NewReflectStrategy(),
	)
}
