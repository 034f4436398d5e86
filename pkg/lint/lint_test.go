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

package lint

import (
	"bytes"
	"context"
	"runtime"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

type fakeChecker struct {
	report Report
	err    error
	calls  int
}

func (f *fakeChecker) Check(ctx context.Context, files []string) (Report, error) {
	f.calls++
	f.report.Files = files
	return f.report, f.err
}

func TestPreCommit(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	tests := []struct {
		name       string
		files      []string
		checker    *fakeChecker
		wantErr    error
		wantOutput []string
		wantCalls  int
	}{
		{
			name:      "no_files",
			checker:   &fakeChecker{},
			wantCalls: 0,
		},
		{
			name:       "passing",
			files:      []string{"app/scripts/a.js"},
			checker:    &fakeChecker{report: Report{Passed: true}},
			wantOutput: []string{"1 files passed"},
			wantCalls:  1,
		},
		{
			name:       "failing",
			files:      []string{"app/scripts/a.js"},
			checker:    &fakeChecker{report: Report{Passed: false, Output: "a.js: line 1, Missing semicolon.\n"}},
			wantErr:    ErrPreCommitFailed,
			wantOutput: []string{"Missing semicolon.", "Your pre-commit check failed!", "git reset --soft"},
			wantCalls:  1,
		},
		{
			name:      "checker_error",
			files:     []string{"app/scripts/a.js"},
			checker:   &fakeChecker{err: errors.New("jshint not found")},
			wantErr:   nil,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := PreCommit(context.Background(), tt.checker, tt.files, &buf)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.checker.err != nil:
				assert.ErrorIs(t, err, tt.checker.err)
				assert.NotErrorIs(t, err, ErrPreCommitFailed)
			default:
				assert.NoError(t, err)
			}

			for _, want := range tt.wantOutput {
				assert.Contains(t, buf.String(), want)
			}
			assert.Equal(t, tt.wantCalls, tt.checker.calls)
		})
	}
}

func TestExecChecker(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a posix shell")
	}
	ctx := context.Background()

	pass := NewExecChecker([]string{"sh", "-c", `echo "checked $@"`, "lint"}, t.TempDir())
	report, err := pass.Check(ctx, []string{"a.js", "b.js"})
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Equal(t, "checked a.js b.js\n", report.Output)
	assert.Equal(t, []string{"a.js", "b.js"}, report.Files)

	fail := NewExecChecker([]string{"sh", "-c", `echo "$1: bad" >&2; exit 2`, "lint"}, t.TempDir())
	report, err = fail.Check(ctx, []string{"a.js"})
	require.NoError(t, err, "a failing lint is a report, not an error")
	assert.False(t, report.Passed)
	assert.Equal(t, "a.js: bad\n", report.Output)

	missing := NewExecChecker([]string{"assetrc-no-such-linter"}, t.TempDir())
	_, err = missing.Check(ctx, []string{"a.js"})
	assert.Error(t, err)

	_, err = NewExecChecker(nil, "").Check(ctx, nil)
	assert.Error(t, err)
}
