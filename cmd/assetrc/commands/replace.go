// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/cmd/assetrc/opts"
	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/log"
	"github.com/walteh/assetrc/pkg/text"
)

// NewReplaceCmd creates the replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var rule text.ReplacementRule
	var all, write bool

	cmd := &cobra.Command{
		Use:   "replace [globs...]",
		Short: "Replace text outside quoted strings",
		Long: `Replace substitutes every match of --find with --replace. Matches that
start inside a single or double quoted string are left alone unless --all
is set.

Globs are relative to the project and may be negated with a leading "!".
With no globs the text is read from stdin. Results are printed unless
--write is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rule.IgnoreQuoted = !all

			rp, err := rule.Replacer()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				in, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Errorf("reading stdin: %w", err)
				}
				out, _, err := rp.Replace(string(in))
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}

			files, err := fileset.Expand(o.Status.Abs("."), args)
			if err != nil {
				return errors.Errorf("expanding %v: %w", args, err)
			}
			zerolog.Ctx(ctx).Debug().Strs("files", files).Str("find", rule.FromText).Msg("replacing")

			total := 0
			for _, f := range files {
				content, err := o.Status.ReadFile(ctx, f)
				if err != nil {
					return err
				}
				out, n, err := rp.Replace(string(content))
				if err != nil {
					return errors.Errorf("replacing in %s: %w", f, err)
				}
				total += n

				if !write {
					fmt.Fprint(cmd.OutOrStdout(), out)
					continue
				}
				if _, err := o.Status.WriteFile(ctx, "text", f, []byte(out)); err != nil {
					return err
				}
			}

			if write {
				l := log.FromContextOrDiscard(ctx)
				l.Infof("%d replacements in %d files", total, len(files))
				l.Success(o.Status.Summary())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rule.FromText, "find", "", "text or expression to find")
	cmd.Flags().StringVar(&rule.ToText, "replace", "", "replacement text")
	cmd.Flags().BoolVar(&rule.Regexp, "regexp", false, "treat --find as a regular expression")
	cmd.Flags().BoolVar(&all, "all", false, "also replace inside quoted strings")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "write results back to the files")
	_ = cmd.MarkFlagRequired("find")

	return cmd
}
