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
	"strings"

	"github.com/spf13/cobra"

	"github.com/walteh/assetrc/cmd/assetrc/opts"
	"github.com/walteh/assetrc/pkg/pipeline"
)

// NewTaskCmds creates one command per pipeline task
func NewTaskCmds(o *opts.RootOpts) []*cobra.Command {
	// the task list does not depend on config, so a zero pipeline names them
	tasks := new(pipeline.Pipeline).Registry().Tasks()

	cmds := make([]*cobra.Command, 0, len(tasks))
	for _, t := range tasks {
		t := t
		long := t.Description + "."
		if len(t.Deps) > 0 {
			long += "\n\nRuns " + strings.Join(t.Deps, ", ") + " first."
		}

		cmds = append(cmds, &cobra.Command{
			Use:   t.Name,
			Short: t.Description,
			Long:  long,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return o.Pipeline.Registry().Run(cmd.Context(), t.Name)
			},
		})
	}
	return cmds
}
