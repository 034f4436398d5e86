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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/config"
	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/log"
	"github.com/walteh/assetrc/pkg/status"
)

// CSSPath is where the compiled css for a stylesheet is written
func CSSPath(p string) string {
	return fileset.WithExt(p, ".css")
}

// 🎨 Pipeline compiles stylesheets into css next to their sources
type Pipeline struct {
	Compiler     Compiler
	Prefixer     *Prefixer // nil disables vendor prefixing
	IncludePaths []string
	Status       *status.Manager
}

// NewPipeline builds a pipeline from the styles section of cfg
func NewPipeline(cfg *config.Config, c Compiler, sm *status.Manager) *Pipeline {
	p := &Pipeline{
		Compiler:     c,
		IncludePaths: cfg.Styles.IncludePaths,
		Status:       sm,
	}
	if cfg.Styles.Prefix != nil && *cfg.Styles.Prefix {
		p.Prefixer = NewPrefixer(DefaultPrefixes)
	}
	return p
}

// EnsureCompiles compiles req and reports whether it worked. A failure is
// logged and the file is left out of the run instead of stopping it.
func EnsureCompiles(ctx context.Context, c Compiler, req CompileRequest) ([]byte, bool) {
	css, err := c.Compile(ctx, req)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", req.Path).Msg("stylesheet does not compile, skipping")
		log.FromContextOrDiscard(ctx).LogFileOperation(ctx, log.FileOperation{
			Path:      req.Path,
			Kind:      "style",
			Status:    "does not compile",
			IsSkipped: true,
		})
		return nil, false
	}
	return css, true
}

// CompileFile compiles one stylesheet and writes its css. The returned bool
// is false when the file was skipped because it does not compile.
func (p *Pipeline) CompileFile(ctx context.Context, path string) (string, bool, error) {
	path = fileset.Unixify(path)

	src, err := p.Status.ReadFile(ctx, path)
	if err != nil {
		return "", false, err
	}

	css, ok := EnsureCompiles(ctx, p.Compiler, CompileRequest{
		Path:         path,
		Source:       src,
		IncludePaths: p.IncludePaths,
	})
	if !ok {
		return "", false, nil
	}

	if p.Prefixer != nil {
		prefixed, err := p.Prefixer.Prefix(string(css))
		if err != nil {
			return "", false, errors.Errorf("prefixing %s: %w", path, err)
		}
		css = []byte(prefixed)
	}

	out := CSSPath(path)
	if _, err := p.Status.WriteFile(ctx, "style", out, css); err != nil {
		return "", false, errors.Errorf("writing %s: %w", out, err)
	}
	return out, true, nil
}

// CompileAll compiles every file and returns the css paths written
func (p *Pipeline) CompileAll(ctx context.Context, paths []string) ([]string, error) {
	var out []string
	for _, path := range paths {
		css, ok, err := p.CompileFile(ctx, path)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, css)
		}
	}
	return out, nil
}
