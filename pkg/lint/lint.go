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

// Package lint runs the pre-commit script check.
package lint

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrPreCommitFailed is returned when the checker rejects the files
var ErrPreCommitFailed = errors.Base("pre-commit check failed")

// FailureMessage is printed when the pre-commit check fails
const FailureMessage = "Your pre-commit check failed!\n" +
	"If you are a non-windows OS, your commit was not pushed to the repository. " +
	"If you are on windows, revert this commit with \"git reset --soft\""

// 📋 Report is the outcome of a check
type Report struct {
	Passed bool
	Output string
	Files  []string
}

// 🔍 Checker inspects a set of files
type Checker interface {
	Check(ctx context.Context, files []string) (Report, error)
}

// ExecChecker runs an external linter with the files as trailing args. A
// non-zero exit fails the report; failing to start the linter is an error.
type ExecChecker struct {
	Command []string
	Dir     string
}

var _ Checker = (*ExecChecker)(nil)

// NewExecChecker creates an ExecChecker
func NewExecChecker(command []string, dir string) *ExecChecker {
	return &ExecChecker{Command: command, Dir: dir}
}

// Check runs the linter
func (c *ExecChecker) Check(ctx context.Context, files []string) (Report, error) {
	if len(c.Command) == 0 {
		return Report{}, errors.New("no lint command configured")
	}

	args := append(append([]string{}, c.Command[1:]...), files...)
	cmd := exec.CommandContext(ctx, c.Command[0], args...)
	cmd.Dir = c.Dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	zerolog.Ctx(ctx).Debug().Strs("command", c.Command).Int("files", len(files)).Msg("running linter")

	err := cmd.Run()
	report := Report{Passed: err == nil, Output: out.String(), Files: files}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return report, errors.Errorf("running %s: %w", c.Command[0], err)
	}
	return report, nil
}

// 🚦 PreCommit checks files and prints the failure message to w when the
// check does not pass.
func PreCommit(ctx context.Context, checker Checker, files []string, w io.Writer) error {
	if len(files) == 0 {
		zerolog.Ctx(ctx).Debug().Msg("no files to lint")
		return nil
	}

	report, err := checker.Check(ctx, files)
	if err != nil {
		return err
	}
	if report.Passed {
		pterm.Success.WithWriter(w).Printfln("%d files passed", len(files))
		return nil
	}

	if out := strings.TrimSpace(report.Output); out != "" {
		pterm.Fprintln(w, out)
	}
	pterm.Error.WithWriter(w).Println(FailureMessage)
	return ErrPreCommitFailed
}
