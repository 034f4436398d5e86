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


package main

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/walteh/assetrc/cmd/assetrc/commands"
	"github.com/walteh/assetrc/cmd/assetrc/opts"
	"github.com/walteh/assetrc/pkg/log"
)

// skipConfigAnnotation marks subcommands that run without a config file
const skipConfigAnnotation = "assetrc/skip-config"

func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assetrc",
		Short: "Build, serve and live reload a single page app's assets",
		Long: `assetrc injects scripts and stylesheets into the index page, compiles
stylesheets with shared variables in scope, renders page templates and serves
the app with live reload while watching for changes. It also bundles scripts
for production and runs the pre-commit lint check.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := setupLogging(cmd.Context(), cmd.OutOrStdout(), o.Debug)
			cmd.SetContext(ctx)

			o.Out = cmd.OutOrStdout()
			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}
			return o.Load(ctx, cmd.Flags().Changed("config"))
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(commands.NewTaskCmds(o)...)
	cmd.AddCommand(
		commands.NewReplaceCmd(o),
		newVersionCmd(),
	)

	return cmd
}

func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".assetrc", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging puts a zerolog logger and the console logger in ctx
func setupLogging(ctx context.Context, console io.Writer, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	ctx = logger.WithContext(ctx)
	return log.NewContext(ctx, log.New(console, level))
}
