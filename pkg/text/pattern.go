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
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrZeroLengthPattern is returned when a pattern can match the empty string.
var ErrZeroLengthPattern = errors.Base("pattern matches an empty string")

// 🧩 Pattern finds the substrings to replace.
type Pattern interface {
	// FindAllIndex returns the [start, end) byte offsets of every
	// non-overlapping match in src, left to right.
	FindAllIndex(src string) [][]int

	String() string
}

// ❌ MalformedPatternError reports a pattern that could not be built.
type MalformedPatternError struct {
	Expr string
	Err  error
}

func (e *MalformedPatternError) Error() string {
	return fmt.Sprintf("malformed pattern %q: %v", e.Expr, e.Err)
}

func (e *MalformedPatternError) Unwrap() error {
	return e.Err
}

type literalPattern string

// Literal matches s verbatim. An empty s can only produce zero-length matches
// and is rejected when the replacement runs.
func Literal(s string) Pattern {
	return literalPattern(s)
}

func (p literalPattern) FindAllIndex(src string) [][]int {
	if p == "" {
		return [][]int{{0, 0}}
	}

	var out [][]int
	needle := string(p)
	for off := 0; ; {
		i := strings.Index(src[off:], needle)
		if i < 0 {
			return out
		}
		start := off + i
		out = append(out, []int{start, start + len(needle)})
		off = start + len(needle)
	}
}

func (p literalPattern) String() string {
	return string(p)
}

type regexpPattern struct {
	re *regexp.Regexp
}

// Regexp compiles expr into a Pattern.
func Regexp(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &MalformedPatternError{Expr: expr, Err: err}
	}
	return FromRegexp(re)
}

// MustRegexp is like Regexp but panics on error.
func MustRegexp(expr string) Pattern {
	p, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// FromRegexp wraps an already compiled expression.
func FromRegexp(re *regexp.Regexp) (Pattern, error) {
	if re == nil {
		return nil, &MalformedPatternError{Err: errors.New("nil regexp")}
	}
	if re.MatchString("") {
		return nil, &MalformedPatternError{Expr: re.String(), Err: ErrZeroLengthPattern}
	}
	return regexpPattern{re: re}, nil
}

func (p regexpPattern) FindAllIndex(src string) [][]int {
	return p.re.FindAllStringIndex(src, -1)
}

func (p regexpPattern) String() string {
	return p.re.String()
}
