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

package config

import (
	"dirpx.dev/foundry/apis"
)

const (
	// DefaultIDKey represents the default for IDKey.
	DefaultIDKey = "id"
	// DefaultAutoID represents the default for AutoID.
	// When true, every definition without an id gets its own sequence.
	DefaultAutoID = true
	// DefaultStrictTraits represents the default for StrictTraits.
	// When false, re-registering a trait silently replaces it.
	DefaultStrictTraits = false
	// DefaultTagName represents the default for TagName.
	DefaultTagName = "json"
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		IDKey:        DefaultIDKey,
		AutoID:       DefaultAutoID,
		StrictTraits: DefaultStrictTraits,
		TagName:      DefaultTagName,
		MaxUnwrap:    DefaultMaxUnwrap,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithIDKey sets the IDKey option. An empty key resets to the default.
func WithIDKey(key string) Option {
	return func(c *apis.Config) {
		if key == "" {
			c.IDKey = DefaultIDKey
			return
		}
		c.IDKey = key
	}
}

// WithAutoID sets the AutoID option.
func WithAutoID(auto bool) Option {
	return func(c *apis.Config) {
		c.AutoID = auto
	}
}

// WithStrictTraits sets the StrictTraits option.
func WithStrictTraits(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictTraits = strict
	}
}

// WithTagName sets the TagName option. An empty name resets to the default.
func WithTagName(tag string) Option {
	return func(c *apis.Config) {
		if tag == "" {
			c.TagName = DefaultTagName
			return
		}
		c.TagName = tag
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}
