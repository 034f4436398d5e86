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
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/assetrc/cmd/assetrc/opts"
	"github.com/walteh/assetrc/pkg/status"
)

func TestReplaceCmd(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		args        []string
		stdin       string
		want        string
		wantFiles   map[string]string
		errContains string
	}{
		{
			name:  "stdin_skips_quoted",
			args:  []string{"--find", "var", "--replace", "let"},
			stdin: "var a = 'var';",
			want:  "let a = 'var';",
		},
		{
			name:  "stdin_all",
			args:  []string{"--find", "var", "--replace", "let", "--all"},
			stdin: "var a = 'var';",
			want:  "let a = 'let';",
		},
		{
			name:  "stdin_regexp",
			args:  []string{"--find", `x\d`, "--replace", "y", "--regexp"},
			stdin: `x1 = "x2"; x3`,
			want:  `y = "x2"; y`,
		},
		{
			name:  "files_printed",
			files: map[string]string{"a.js": "var a = 'var';", "b.js": "var b;", "c.css": "var"},
			args:  []string{"--find", "var", "--replace", "let", "*.js"},
			want:  "let a = 'var';let b;",
			wantFiles: map[string]string{
				"a.js": "var a = 'var';",
				"b.js": "var b;",
			},
		},
		{
			name:  "files_written",
			files: map[string]string{"a.js": "var a = \"var\";", "lib/b.js": "var b;"},
			args:  []string{"--find", "var", "--replace", "let", "--write", "**/*.js", "!lib/**"},
			wantFiles: map[string]string{
				"a.js":     "let a = \"var\";",
				"lib/b.js": "var b;",
			},
		},
		{
			name:        "empty_find",
			args:        []string{"--find", "", "--replace", "x"},
			stdin:       "abc",
			errContains: "empty string",
		},
		{
			name:        "bad_regexp",
			args:        []string{"--find", "(", "--regexp"},
			stdin:       "abc",
			errContains: "malformed pattern",
		},
		{
			name:        "find_required",
			args:        []string{"--replace", "x"},
			errContains: "find",
		},
	}

	ctx := zerolog.Nop().WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tt.files {
				p := filepath.Join(dir, filepath.FromSlash(name))
				require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
				require.NoError(t, os.WriteFile(p, []byte(content), 0644))
			}

			cmd := NewReplaceCmd(&opts.RootOpts{Status: status.New(dir)})
			var out bytes.Buffer
			cmd.SetArgs(tt.args)
			cmd.SetIn(strings.NewReader(tt.stdin))
			cmd.SetOut(&out)
			cmd.SetErr(io.Discard)

			err := cmd.ExecuteContext(ctx)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.want, out.String())
			for name, want := range tt.wantFiles {
				got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
				require.NoError(t, err)
				assert.Equal(t, want, string(got), "file %s", name)
			}
		})
	}
}
