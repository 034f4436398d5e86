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

// Package inject writes script and stylesheet tags into html between
// inject markers.
package inject

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/status"
	"github.com/walteh/assetrc/pkg/text"
)

// ErrMarkerNotFound is returned when the html has no block for the kind
var ErrMarkerNotFound = errors.Base("inject marker not found")

// 🏷️ Kind is the type of tag injected
type Kind string

const (
	JS  Kind = "js"
	CSS Kind = "css"
)

// Options control how file paths become tag urls
type Options struct {
	IgnorePath   string // leading directory stripped from every path
	AddRootSlash bool   // keep a leading "/" on urls
}

// URL turns a project path into the url used in the tag
func URL(p string, opts Options) string {
	u := "/" + strings.TrimPrefix(fileset.Unixify(p), "/")
	if ignore := strings.Trim(fileset.Unixify(opts.IgnorePath), "/"); ignore != "" && ignore != "." {
		if prefix := "/" + ignore; strings.HasPrefix(u, prefix+"/") {
			u = u[len(prefix):]
		}
	}
	if !opts.AddRootSlash {
		u = strings.TrimPrefix(u, "/")
	}
	return u
}

// Tags renders one tag per path
func Tags(kind Kind, paths []string, opts Options) ([]string, error) {
	var format string
	switch kind {
	case JS:
		format = `<script src="%s"></script>`
	case CSS:
		format = `<link rel="stylesheet" href="%s">`
	default:
		return nil, errors.Errorf("unknown inject kind %q", kind)
	}

	tags := make([]string, 0, len(paths))
	for _, p := range paths {
		tags = append(tags, fmt.Sprintf(format, URL(p, opts)))
	}
	return tags, nil
}

// AsCSS renames stylesheet sources to the css files they compile to
func AsCSS(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = fileset.WithExt(p, ".css")
	}
	return out
}

func markerPattern(kind Kind) text.Pattern {
	return text.MustRegexp(`(?s)<!--\s*inject:` + string(kind) + `\s*-->.*?<!--\s*endinject\s*-->`)
}

// indentOf returns the whitespace between the start of the line and offset
func indentOf(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	line := src[start:offset]
	if strings.TrimLeft(line, " \t") != "" {
		return ""
	}
	return line
}

// 💉 Inject replaces the inside of every kind block in html with tags, one
// per line at the indentation of the opening marker.
func Inject(html string, kind Kind, tags []string) (string, error) {
	out, n, err := text.ReplaceAll(html, markerPattern(kind), text.WithFunc(func(m text.Match) string {
		indent := indentOf(m.Source, m.Start)
		open := m.Text[:strings.Index(m.Text, "-->")+3]
		end := m.Text[strings.LastIndex(m.Text, "<!--"):]

		var b strings.Builder
		b.WriteString(open)
		for _, tag := range tags {
			b.WriteString("\n" + indent + tag)
		}
		b.WriteString("\n" + indent + end)
		return b.String()
	}))
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", errors.Errorf("%w for %s", ErrMarkerNotFound, kind)
	}
	return out, nil
}

// InjectFile injects tags for paths into the html file at index
func InjectFile(ctx context.Context, sm *status.Manager, index string, kind Kind, paths []string, opts Options) error {
	tags, err := Tags(kind, paths, opts)
	if err != nil {
		return err
	}

	html, err := sm.ReadFile(ctx, index)
	if err != nil {
		return errors.Errorf("reading index: %w", err)
	}

	out, err := Inject(string(html), kind, tags)
	if err != nil {
		return errors.Errorf("injecting %s into %s: %w", kind, index, err)
	}

	zerolog.Ctx(ctx).Debug().Str("index", index).Str("kind", string(kind)).Int("tags", len(tags)).Msg("injecting tags")

	if _, err := sm.WriteFile(ctx, "html", index, []byte(out)); err != nil {
		return err
	}
	return nil
}
