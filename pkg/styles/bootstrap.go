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
	"context"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/config"
	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/status"
)

// ErrNoBootstrap is returned when a bootstrap build is requested without a
// styles.bootstrap section.
var ErrNoBootstrap = errors.Base("no bootstrap configured")

// SpliceVariables swaps the first line of main that imports a variables file
// for the given variables source.
func SpliceVariables(main, variables string) string {
	lines := strings.Split(main, "\n")
	for i, line := range lines {
		if strings.Contains(line, "variables") && strings.Contains(line, "@import") {
			lines[i] = variables
			break
		}
	}
	return strings.Join(lines, "\n")
}

// ReadVariables concatenates the files matched by pattern, each followed by
// a newline.
func ReadVariables(ctx context.Context, sm *status.Manager, root, pattern string) (string, []string, error) {
	files, err := fileset.Expand(root, []string{pattern})
	if err != nil {
		return "", nil, errors.Errorf("expanding variables: %w", err)
	}

	var b strings.Builder
	for _, f := range files {
		content, err := sm.ReadFile(ctx, f)
		if err != nil {
			return "", nil, err
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), files, nil
}

// 🥾 BuildBootstrap compiles bootstrap with the project's own variables in
// place of the stock ones.
func BuildBootstrap(ctx context.Context, cfg *config.Config, c Compiler, sm *status.Manager) error {
	bs := cfg.Styles.Bootstrap
	if bs == nil {
		return ErrNoBootstrap
	}

	main, err := sm.ReadFile(ctx, bs.Main)
	if err != nil {
		return errors.Errorf("reading bootstrap: %w", err)
	}

	variables, files, err := ReadVariables(ctx, sm, sm.Abs("."), cfg.Styles.Variables)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Debug().Strs("variables", files).Str("main", bs.Main).Msg("building bootstrap")

	css, err := c.Compile(ctx, CompileRequest{
		Path:         bs.Main,
		Source:       []byte(SpliceVariables(string(main), variables)),
		IncludePaths: []string{path.Dir(fileset.Unixify(bs.Main))},
	})
	if err != nil {
		return errors.Errorf("compiling bootstrap: %w", err)
	}

	if _, err := sm.WriteFile(ctx, "style", bs.Output, css); err != nil {
		return errors.Errorf("writing bootstrap: %w", err)
	}
	return nil
}
