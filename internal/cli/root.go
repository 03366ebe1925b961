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

// Package cli implements the foundry command line: building records from a
// fixture file without writing any Go.
package cli

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dirpx.dev/foundry/apis"
	"dirpx.dev/foundry/config"
	"dirpx.dev/foundry/loader"
	"dirpx.dev/foundry/registry"
)

// BuildInfo is injected at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// String formats the build info for --version and the version command.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", b.Version, b.Commit, b.Date)
}

// Execute runs the root command.
func Execute(ctx context.Context, info BuildInfo) error {
	return NewRootCommand(info).ExecuteContext(ctx)
}

// options is the state shared by every subcommand.
type options struct {
	configPath string
	debug      bool

	v   *viper.Viper
	log *zap.Logger
	cfg apis.Config
}

// NewRootCommand returns the foundry command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	o := &options{v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "foundry",
		Short: "Build test records from YAML factory fixtures",
		Long: `foundry loads traits and factory definitions from a YAML fixture file and
prints the records they build as JSON.

Configuration is read from --config, then FOUNDRY_* environment variables
(FOUNDRY_ID_KEY, FOUNDRY_AUTO_ID, FOUNDRY_STRICT_TRAITS), then flags.`,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return o.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = o.log.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "config file path")
	flags.BoolVar(&o.debug, "debug", false, "log registry activity to stderr")
	flags.String("id-key", config.DefaultIDKey, "attribute that receives the generated id")
	flags.Bool("strict-traits", config.DefaultStrictTraits, "fail when a trait is defined twice")
	_ = o.v.BindPFlag(config.KeyIDKey, flags.Lookup("id-key"))
	_ = o.v.BindPFlag(config.KeyStrictTraits, flags.Lookup("strict-traits"))

	root.AddCommand(newBuildCommand(o))
	root.AddCommand(newListCommand(o))
	root.AddCommand(newVersionCommand(info))

	return root
}

// setup creates the logger and loads the configuration.
func (o *options) setup() error {
	if o.debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			return errors.Wrap(err, "creating logger")
		}
		o.log = l
	}

	cfg, err := config.LoadWith(o.v, o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	o.log.Debug("configuration loaded",
		zap.String("path", o.configPath),
		zap.String("id_key", cfg.IDKey),
		zap.Bool("auto_id", cfg.AutoID),
		zap.Bool("strict_traits", cfg.StrictTraits),
	)
	return nil
}

// newRegistry returns an empty registry for the loaded configuration.
func (o *options) newRegistry() apis.Registry {
	return registry.New(o.cfg, registry.WithLogger(o.log))
}

// registry returns a registry populated from the fixture file.
func (o *options) registry(file string) (apis.Registry, error) {
	reg := o.newRegistry()
	if _, err := loader.LoadFile(reg, file); err != nil {
		return nil, err
	}
	return reg, nil
}
