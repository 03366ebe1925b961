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

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/loader"
	uref "dirpx.dev/foundry/utils/reflect"
)

// ErrInvalidOverride is returned for a malformed --set flag.
var ErrInvalidOverride = errors.New("foundry(cli): invalid override")

func newBuildCommand(o *options) *cobra.Command {
	var (
		file  string
		sets  []string
		count int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "build <factory>",
		Short: "Build records from a factory and print them as JSON",
		Example: `  foundry build user -f fixtures.yaml
  foundry build user -f fixtures.yaml -n 3 --set profile.age=42 --set role=owner
  foundry build user -f fixtures.yaml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return errors.Newf("count must be at least 1, got %d", count)
			}
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			b := batch{factory: args[0], count: count, overrides: overrides}

			if watch {
				w := loader.NewWatcher(file, o.newRegistry, loader.WithLogger(o.log))
				return w.Run(cmd.Context(), func(reg apis.Registry, err error) {
					if err == nil {
						err = b.print(cmd.OutOrStdout(), reg)
					}
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					}
				})
			}

			reg, err := o.registry(file)
			if err != nil {
				return err
			}
			if err := b.print(cmd.OutOrStdout(), reg); err != nil {
				return err
			}
			o.log.Debug("records built", zap.String("factory", b.factory), zap.Int("count", count))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "override an attribute as path=value; dots address nested attributes")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of records to build")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild whenever the fixture file changes")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// batch is one build request.
type batch struct {
	factory   string
	count     int
	overrides apis.Attributes
}

// print builds the batch from reg and writes it as JSON: a single object
// when count is 1, an array otherwise.
func (b batch) print(w io.Writer, reg apis.Registry) error {
	recs, err := reg.BuildList(b.factory, b.count, b.overrides)
	if err != nil {
		return err
	}
	if b.count == 1 {
		return writeJSON(w, recs[0])
	}
	return writeJSON(w, recs)
}

// parseOverrides turns "a.b=value" pairs into nested attributes. Values are
// parsed as YAML scalars, so "42" is a number and "true" a boolean. An empty
// value is the empty string.
func parseOverrides(sets []string) (apis.Attributes, error) {
	out := apis.Attributes{}
	for _, s := range sets {
		path, raw, ok := strings.Cut(s, "=")
		if !ok || path == "" {
			return nil, errors.Wrapf(ErrInvalidOverride, "%q: expected path=value", s)
		}

		var val any = raw
		if raw != "" {
			if err := yaml.Unmarshal([]byte(raw), &val); err != nil {
				val = raw
			}
		}

		if err := setPath(out, strings.Split(path, "."), val); err != nil {
			return nil, errors.Wrapf(err, "%q", s)
		}
	}
	return out, nil
}

func setPath(m apis.Attributes, keys []string, val any) error {
	for _, k := range keys[:len(keys)-1] {
		if k == "" {
			return errors.Wrap(ErrInvalidOverride, "empty path segment")
		}
		next, exists := m[k]
		if !exists {
			child := apis.Attributes{}
			m[k] = child
			m = child
			continue
		}
		child, ok := uref.AsObject(next)
		if !ok {
			return errors.Wrapf(ErrInvalidOverride, "%q is already set to a value", k)
		}
		m = child
	}

	last := keys[len(keys)-1]
	if last == "" {
		return errors.Wrap(ErrInvalidOverride, "empty path segment")
	}
	if _, exists := m[last]; exists {
		return errors.Wrapf(ErrInvalidOverride, "%q is set twice", last)
	}
	m[last] = val
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "encoding records")
	}
	return nil
}
