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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"dirpx.dev/foundry/apis"
)

// EnvPrefix is the prefix of environment variables read by Load,
// e.g. FOUNDRY_ID_KEY.
const EnvPrefix = "FOUNDRY"

// Keys understood by Load.
const (
	KeyIDKey        = "id_key"
	KeyAutoID       = "auto_id"
	KeyStrictTraits = "strict_traits"
	KeyTagName      = "tag_name"
	KeyMaxUnwrap    = "max_unwrap"
)

// Load reads configuration from the file at path (any format viper supports;
// an empty path skips the file) and from FOUNDRY_* environment variables.
// Unset keys keep their defaults.
func Load(path string) (apis.Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-provided viper instance, so command-line flags
// bound to v take part in the lookup.
func LoadWith(v *viper.Viper, path string) (apis.Config, error) {
	def := DefaultConfig()
	v.SetDefault(KeyIDKey, def.IDKey)
	v.SetDefault(KeyAutoID, def.AutoID)
	v.SetDefault(KeyStrictTraits, def.StrictTraits)
	v.SetDefault(KeyTagName, def.TagName)
	v.SetDefault(KeyMaxUnwrap, def.MaxUnwrap)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return apis.Config{}, errors.Wrapf(err, "reading config file %s", path)
		}
	}

	return NewConfig(
		WithIDKey(v.GetString(KeyIDKey)),
		WithAutoID(v.GetBool(KeyAutoID)),
		WithStrictTraits(v.GetBool(KeyStrictTraits)),
		WithTagName(v.GetString(KeyTagName)),
		WithMaxUnwrap(v.GetInt(KeyMaxUnwrap)),
	), nil
}
