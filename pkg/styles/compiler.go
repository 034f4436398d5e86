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

package styles

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📝 CompileRequest is one stylesheet to compile
type CompileRequest struct {
	Path         string   // source path, for messages
	Source       []byte   // scss source
	IncludePaths []string // load paths for @import
}

// 🔧 Compiler turns scss into css
type Compiler interface {
	Compile(ctx context.Context, req CompileRequest) ([]byte, error)
}

// ❌ CompileError carries the compiler's diagnostics for a failed file
type CompileError struct {
	Path   string
	Output string
	Err    error
}

func (e *CompileError) Error() string {
	msg := strings.TrimSpace(e.Output)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("compiling %s: %s", e.Path, msg)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// 🛠️ ExecCompiler runs an external sass binary, feeding the source on stdin
type ExecCompiler struct {
	Command []string // binary and leading args, e.g. ["sass"]
	Dir     string   // working directory include paths are relative to
}

var _ Compiler = (*ExecCompiler)(nil)

// NewExecCompiler creates an ExecCompiler
func NewExecCompiler(command []string, dir string) *ExecCompiler {
	return &ExecCompiler{Command: command, Dir: dir}
}

func (c *ExecCompiler) args(req CompileRequest) []string {
	args := append([]string{}, c.Command[1:]...)
	args = append(args, "--stdin", "--no-source-map")
	for _, p := range req.IncludePaths {
		args = append(args, "--load-path="+p)
	}
	return args
}

// Compile runs the compiler once for req
func (c *ExecCompiler) Compile(ctx context.Context, req CompileRequest) ([]byte, error) {
	if len(c.Command) == 0 {
		return nil, errors.New("no compiler command configured")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Command[0], c.args(req)...)
	cmd.Dir = c.Dir
	cmd.Stdin = bytes.NewReader(req.Source)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CompileError{Path: req.Path, Output: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}
