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

// Package memory provides an adapter that keeps every saved record in memory,
// so tests can assert on what Create persisted.
package memory

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/config"
	"dirpx.dev/foundry/merge"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithIDKey sets the attribute used as the record key. Records without it
// are keyed by their insertion number.
func WithIDKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.idKey = key
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// Adapter records saved records in a go-cache without expiration. Every save
// is kept: records are keyed by factory and save number, and a separate index
// maps each id to the latest save that carried it.
// Like the registry it serves, it is meant for single-threaded test use,
// although the underlying cache itself is synchronized.
type Adapter struct {
	idKey string
	log   *zap.Logger
	cache *gocache.Cache
	// seq numbers records per factory, in save order.
	seq map[string]int
	// ids maps factory name and id to the latest save number.
	ids map[string]map[string]int
}

// Ensure Adapter implements apis.Adapter.
var _ apis.Adapter = (*Adapter)(nil)

// New returns an empty recording adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		idKey: config.DefaultIDKey,
		log:   zap.NewNop(),
		cache: gocache.New(gocache.NoExpiration, 0),
		seq:   make(map[string]int),
		ids:   make(map[string]map[string]int),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save stores a copy of record under name and returns another copy. Saving
// a record whose id was already saved keeps both; Get returns the latest.
func (a *Adapter) Save(name string, record apis.Record) (any, error) {
	a.seq[name]++
	n := a.seq[name]
	id := a.idOf(n, record)

	a.cache.Set(cacheKey(name, n), stored{name: name, seq: n, record: merge.CloneObject(record)}, gocache.NoExpiration)
	if a.ids[name] == nil {
		a.ids[name] = make(map[string]int)
	}
	a.ids[name][id] = n

	a.log.Debug("record saved", zap.String("factory", name), zap.String("id", id), zap.Int("seq", n))
	return merge.CloneObject(record), nil
}

// Get returns a copy of the latest record saved for name under id. Records
// without an id are found under "#<n>", n being their save number.
func (a *Adapter) Get(name, id string) (apis.Record, bool) {
	n, ok := a.ids[name][id]
	if !ok {
		return nil, false
	}
	v, ok := a.cache.Get(cacheKey(name, n))
	if !ok {
		return nil, false
	}
	s, ok := v.(stored)
	if !ok {
		a.log.Error("unexpected cache entry", zap.String("factory", name), zap.String("id", id))
		return nil, false
	}
	return merge.CloneObject(s.record), true
}

// All returns copies of every record saved for name, in save order.
func (a *Adapter) All(name string) []apis.Record {
	var found []stored
	for _, item := range a.cache.Items() {
		if s, ok := item.Object.(stored); ok && s.name == name {
			found = append(found, s)
		}
	}
	slices.SortFunc(found, func(x, y stored) int { return x.seq - y.seq })

	out := make([]apis.Record, 0, len(found))
	for _, s := range found {
		out = append(out, merge.CloneObject(s.record))
	}
	return out
}

// Names returns the sorted factory names that have saved records.
func (a *Adapter) Names() []string {
	return slices.Sorted(maps.Keys(a.seq))
}

// Count returns the number of stored records across all factories.
func (a *Adapter) Count() int {
	return a.cache.ItemCount()
}

// Reset forgets every stored record.
func (a *Adapter) Reset() {
	a.cache.Flush()
	clear(a.seq)
	clear(a.ids)
}

type stored struct {
	name   string
	seq    int
	record apis.Record
}

// idOf returns the record's id, or "#<n>" when it has none.
func (a *Adapter) idOf(n int, record apis.Record) string {
	if v, ok := record[a.idKey]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return "#" + strconv.Itoa(n)
}

func cacheKey(name string, n int) string {
	return name + "/#" + strconv.Itoa(n)
}
