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

package text

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🎯 Match is a single pattern occurrence handed to a computed replacement.
type Match struct {
	Text   string // matched text
	Start  int    // byte offset of the match in Source
	Source string // the whole original text
}

// 🔄 Replacement produces the text substituted for an unquoted match. It is
// either a literal (With) or computed (WithFunc).
type Replacement interface {
	apply(m Match) string
	validate() error
}

// ❌ InvalidReplacementError reports a replacement that cannot be applied.
type InvalidReplacementError struct {
	Reason string
}

func (e *InvalidReplacementError) Error() string {
	return "invalid replacement: " + e.Reason
}

type literalReplacement string

// With replaces every unquoted match with s.
func With(s string) Replacement {
	return literalReplacement(s)
}

func (r literalReplacement) apply(Match) string { return string(r) }
func (r literalReplacement) validate() error    { return nil }

type computedReplacement func(Match) string

// WithFunc replaces every unquoted match with fn's result.
func WithFunc(fn func(m Match) string) Replacement {
	return computedReplacement(fn)
}

func (r computedReplacement) apply(m Match) string { return r(m) }

func (r computedReplacement) validate() error {
	if r == nil {
		return &InvalidReplacementError{Reason: "nil replacement func"}
	}
	return nil
}

// ReplaceOutsideQuotes replaces every match of p in src whose start offset is
// not inside a single or double quoted string. Quoted matches are copied
// through unchanged. With no matches src is returned as is.
func ReplaceOutsideQuotes(src string, p Pattern, r Replacement) (string, error) {
	out, _, err := ReplaceOutsideQuotesCount(src, p, r)
	return out, err
}

// ReplaceOutsideQuotesCount is ReplaceOutsideQuotes that also reports how
// many matches were replaced.
func ReplaceOutsideQuotesCount(src string, p Pattern, r Replacement) (string, int, error) {
	return replace(src, p, r, ScanQuoted)
}

// ReplaceAll replaces every match of p in src, quoted or not.
func ReplaceAll(src string, p Pattern, r Replacement) (string, int, error) {
	return replace(src, p, r, nil)
}

func replace(src string, p Pattern, r Replacement, scan func(string) []Region) (string, int, error) {
	if p == nil {
		return "", 0, &MalformedPatternError{Err: errors.New("nil pattern")}
	}
	if r == nil {
		return "", 0, &InvalidReplacementError{Reason: "nil replacement"}
	}
	if err := r.validate(); err != nil {
		return "", 0, err
	}

	matches := p.FindAllIndex(src)
	for _, m := range matches {
		if m[1] <= m[0] {
			return "", 0, &MalformedPatternError{Expr: p.String(), Err: ErrZeroLengthPattern}
		}
	}
	if len(matches) == 0 {
		return src, 0, nil
	}

	var regions []Region
	if scan != nil {
		regions = scan(src)
	}

	var (
		b     strings.Builder
		last  int
		count int
	)
	b.Grow(len(src))

	for _, m := range matches {
		b.WriteString(src[last:m[0]])
		matched := src[m[0]:m[1]]
		if IsQuoted(m[0], regions) {
			b.WriteString(matched)
		} else {
			b.WriteString(r.apply(Match{Text: matched, Start: m[0], Source: src}))
			count++
		}
		last = m[1]
	}
	b.WriteString(src[last:])

	if count == 0 {
		return src, 0, nil
	}
	return b.String(), count, nil
}

// 🔧 Replacer pairs a pattern with its replacement.
type Replacer struct {
	Pattern     Pattern
	Replacement Replacement

	// IncludeQuoted replaces matches inside quoted strings too.
	IncludeQuoted bool
}

// Replace applies the replacer to src.
func (rp Replacer) Replace(src string) (string, int, error) {
	if rp.IncludeQuoted {
		return ReplaceAll(src, rp.Pattern, rp.Replacement)
	}
	return ReplaceOutsideQuotesCount(src, rp.Pattern, rp.Replacement)
}
