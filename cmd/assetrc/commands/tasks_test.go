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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/assetrc/cmd/assetrc/opts"
)

func findCmd(cmds []*cobra.Command, name string) *cobra.Command {
	for _, c := range cmds {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

func TestNewTaskCmds(t *testing.T) {
	cmds := NewTaskCmds(&opts.RootOpts{})

	var names []string
	for _, c := range cmds {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		"build", "build-bootstrap", "clean", "copy-assets", "dev", "inject",
		"pre-commit", "prepend-imports", "serve", "styles", "templates", "watch",
	}, names)

	styles := findCmd(cmds, "styles")
	require.NotNil(t, styles)
	assert.Contains(t, styles.Long, "Runs build-bootstrap, prepend-imports first.")
}

func TestTaskCmdRunsTask(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "pages"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "pages", "about.md"), []byte("# About\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assetrc.yaml"), []byte("root: src\n"), 0644))

	ctx := zerolog.Nop().WithContext(context.Background())
	o := &opts.RootOpts{ConfigFile: filepath.Join(dir, "assetrc.yaml"), Out: &bytes.Buffer{}}
	require.NoError(t, o.Load(ctx, true))

	cmd := findCmd(NewTaskCmds(o), "templates")
	require.NotNil(t, cmd)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.ExecuteContext(ctx))

	got, err := os.ReadFile(filepath.Join(dir, "src", "pages", "about.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>About</h1>\n", string(got))

	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.ExecuteContext(ctx), "task commands take no arguments")
}
