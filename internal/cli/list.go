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
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(o *options) *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the factories and traits of a fixture file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := o.registry(file)
			if err != nil {
				return err
			}

			factories, traits := reg.Names(), reg.TraitNames()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string][]string{
					"factories": factories,
					"traits":    traits,
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "factories:")
			for _, name := range factories {
				fmt.Fprintf(w, "  %s\n", name)
			}
			fmt.Fprintln(w, "traits:")
			for _, name := range traits {
				fmt.Fprintf(w, "  %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "fixture file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
