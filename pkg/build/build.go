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

package build

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/config"
	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/status"
	"github.com/walteh/assetrc/pkg/text"
)

// 📦 Builder produces the production output of a project
type Builder struct {
	cfg      *config.Config
	sm       *status.Manager
	replacer text.TextReplacer
}

// New creates a builder writing through sm
func New(cfg *config.Config, sm *status.Manager) *Builder {
	return &Builder{
		cfg:      cfg,
		sm:       sm,
		replacer: text.NewQuoteAwareReplacer(),
	}
}

// BundlePath is where the bundle is written
func (b *Builder) BundlePath() string {
	name := b.cfg.Build.Bundle
	ext := path.Ext(name)
	return path.Join(fileset.Unixify(b.cfg.Build.OutputDir), strings.TrimSuffix(name, ext)+b.cfg.Build.Suffix+ext)
}

// Bundle concatenates files in order, one newline between each, applies the
// configured replacement rules to every file and writes the result.
func (b *Builder) Bundle(ctx context.Context, files []string) (string, error) {
	var buf bytes.Buffer
	total := 0

	for i, f := range files {
		content, err := b.sm.ReadFile(ctx, f)
		if err != nil {
			return "", errors.Errorf("bundling: %w", err)
		}

		replaced, n, err := text.ApplyRules(ctx, b.replacer, f, content, b.cfg.Replacements)
		if err != nil {
			return "", err
		}
		total += n

		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(replaced)
	}

	out := b.BundlePath()
	zerolog.Ctx(ctx).Debug().Int("files", len(files)).Int("replacements", total).Str("bundle", out).Msg("bundling scripts")

	if _, err := b.sm.WriteFile(ctx, "bundle", out, buf.Bytes()); err != nil {
		return "", err
	}
	return out, nil
}

// Build expands the configured scripts and bundles them
func (b *Builder) Build(ctx context.Context) (string, error) {
	files, err := fileset.Expand(b.sm.Abs("."), b.cfg.Build.Scripts)
	if err != nil {
		return "", errors.Errorf("expanding build scripts: %w", err)
	}
	if len(files) == 0 {
		zerolog.Ctx(ctx).Warn().Strs("patterns", b.cfg.Build.Scripts).Msg("no scripts to bundle")
	}
	return b.Bundle(ctx, files)
}

// 🧹 Clean removes dir and everything in it. A missing dir is fine.
func (b *Builder) Clean(ctx context.Context, dir string) error {
	return b.sm.RemoveAll(ctx, "dir", dir)
}

// CopyAssets copies every file below src to the same place below dest and
// returns how many were copied. A missing src copies nothing.
func (b *Builder) CopyAssets(ctx context.Context, src, dest string) (int, error) {
	root := b.sm.Abs(filepath.FromSlash(src))

	if _, err := os.Stat(root); os.IsNotExist(err) {
		zerolog.Ctx(ctx).Warn().Str("src", src).Msg("assets directory does not exist")
		return 0, nil
	}

	n := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := fileset.Rel(root, p)
		if err != nil {
			return err
		}
		if _, err := b.sm.CopyFile(ctx, "asset", path.Join(fileset.Unixify(src), rel), path.Join(fileset.Unixify(dest), rel)); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, errors.Errorf("copying assets: %w", err)
	}
	return n, nil
}

// Summary prints a table of the files touched by a run
func Summary(w io.Writer, files []status.FileInfo) error {
	data := pterm.TableData{{"File", "Kind", "Status", "Size"}}
	for _, f := range files {
		data = append(data, []string{f.Path, f.Kind, f.Status.String(), humanSize(f.Size)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
}

func humanSize(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KiB", float64(n)/unit)
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(unit*unit))
	}
}
