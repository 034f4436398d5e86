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


// Package fileset expands ordered glob lists into file paths.
package fileset

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Expand resolves patterns against root in order. Plain patterns add the
// files they match, "!" patterns remove files already collected. Paths are
// returned relative to root, unix style, in order of first appearance.
func Expand(root string, patterns []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]bool{}
	)

	for _, raw := range patterns {
		pattern, negated := split(raw)
		if pattern == "" {
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid pattern %q", raw)
		}

		if negated {
			kept := out[:0]
			for _, p := range out {
				if ok, _ := doublestar.Match(pattern, p); ok {
					delete(seen, p)
					continue
				}
				kept = append(kept, p)
			}
			out = kept
			continue
		}

		matches, err := glob(root, pattern)
		if err != nil {
			return nil, errors.Errorf("expanding %q: %w", raw, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}

	return out, nil
}

func glob(root, pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(pattern)
	if base == "." {
		base = ""
	}

	dir := filepath.Join(root, filepath.FromSlash(base))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(dir), rest, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	for i, m := range matches {
		matches[i] = path.Clean(path.Join(base, m))
	}
	return matches, nil
}

// ✅ Match reports whether p is selected by patterns. The last matching
// pattern wins, so a later "!" pattern can exclude and a later plain pattern
// can re-include.
func Match(patterns []string, p string) bool {
	p = Unixify(p)
	selected := false
	for _, raw := range patterns {
		pattern, negated := split(raw)
		if ok, _ := doublestar.Match(pattern, p); ok {
			selected = !negated
		}
	}
	return selected
}

// 🔧 Unixify cleans p and turns backslashes into forward slashes.
func Unixify(p string) string {
	return strings.ReplaceAll(filepath.Clean(p), `\`, "/")
}

// 📍 Rel returns target relative to base, unix style.
func Rel(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", errors.Errorf("relative path: %w", err)
	}
	return Unixify(rel), nil
}

func split(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "!") {
		return Unixify(raw[1:]), true
	}
	if raw == "" {
		return "", false
	}
	return Unixify(raw), false
}

// 🏷️ WithExt swaps the extension of p for ext, unix style.
func WithExt(p, ext string) string {
	p = Unixify(p)
	if i := strings.LastIndex(p, "."); i > strings.LastIndex(p, "/") {
		p = p[:i]
	}
	return p + ext
}
