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

// Package templates renders markdown page templates to html partials.
package templates

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/status"
)

// 📝 Renderer converts markdown templates into html
type Renderer struct {
	md goldmark.Markdown
	sm *status.Manager
}

// NewRenderer creates a renderer that writes through sm
func NewRenderer(sm *status.Manager) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		sm: sm,
	}
}

// HTMLPath is where the html for a template is written
func HTMLPath(p string) string {
	return fileset.WithExt(p, ".html")
}

// Render converts src to html
func (r *Renderer) Render(ctx context.Context, src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, errors.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderFile renders the template at path into an html file beside it and
// returns the html path.
func (r *Renderer) RenderFile(ctx context.Context, path string) (string, error) {
	src, err := r.sm.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}

	out, err := r.Render(ctx, src)
	if err != nil {
		return "", errors.Errorf("%s: %w", path, err)
	}

	dst := HTMLPath(path)
	zerolog.Ctx(ctx).Debug().Str("template", path).Str("html", dst).Msg("rendering template")

	if _, err := r.sm.WriteFile(ctx, "template", dst, out); err != nil {
		return "", err
	}
	return dst, nil
}

// RenderAll renders every template and returns the html paths written
func (r *Renderer) RenderAll(ctx context.Context, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		dst, err := r.RenderFile(ctx, p)
		if err != nil {
			return out, err
		}
		out = append(out, dst)
	}
	return out, nil
}
