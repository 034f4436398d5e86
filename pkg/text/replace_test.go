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
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestReplaceOutsideQuotes(t *testing.T) {
	tests := []struct {
		name        string
		src         string
		pattern     Pattern
		replacement Replacement
		want        string
	}{
		{
			name:        "boundary_after_closing_quote",
			src:         "'x'x",
			pattern:     Literal("x"),
			replacement: With("y"),
			want:        "'x'y",
		},
		{
			name:        "escaped_quote_keeps_region_open",
			src:         `"a\"c"c`,
			pattern:     Literal("c"),
			replacement: With("Z"),
			want:        `"a\"c"Z`,
		},
		{
			name:        "multiple_disjoint_regions",
			src:         "'a'x'b'x",
			pattern:     Literal("x"),
			replacement: With("Y"),
			want:        "'a'Y'b'Y",
		},
		{
			name:        "match_on_opening_delimiter_is_replaced",
			src:         "'a' 'a'",
			pattern:     Literal("'a'"),
			replacement: With("Q"),
			want:        "Q Q",
		},
		{
			name:        "quoted_and_unquoted_occurrences",
			src:         `$c: "$a"; $a: 1;`,
			pattern:     Literal("$a"),
			replacement: With("$b"),
			want:        `$c: "$a"; $b: 1;`,
		},
		{
			name:        "regexp_pattern",
			src:         `$a: "$b"; $c`,
			pattern:     MustRegexp(`\$[a-z]+`),
			replacement: With("V"),
			want:        `V: "$b"; V`,
		},
		{
			name:        "dollar_signs_are_literal_in_replacement",
			src:         "a b",
			pattern:     MustRegexp(`(a)`),
			replacement: With("$1$&"),
			want:        "$1$& b",
		},
		{
			name:        "unterminated_quote_fails_open",
			src:         "don't x",
			pattern:     Literal("x"),
			replacement: With("y"),
			want:        "don't y",
		},
		{
			name:        "quote_does_not_span_lines",
			src:         "'a\nb' a",
			pattern:     Literal("a"),
			replacement: With("z"),
			want:        "'z\nb' z",
		},
		{
			name:        "multibyte_offsets",
			src:         `"héllo" héllo`,
			pattern:     Literal("é"),
			replacement: With("e"),
			want:        `"héllo" hello`,
		},
		{
			name:    "computed_replacement",
			src:     `url(a.png) "url(b.png)" url(c.png)`,
			pattern: MustRegexp(`url\([^)]*\)`),
			replacement: WithFunc(func(m Match) string {
				return strings.ToUpper(m.Text)
			}),
			want: `URL(A.PNG) "url(b.png)" URL(C.PNG)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReplaceOutsideQuotes(tt.src, tt.pattern, tt.replacement)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceOutsideQuotes_NoMatchReturnsInput(t *testing.T) {
	src := `body { content: "x"; }`

	got, n, err := ReplaceOutsideQuotesCount(src, Literal("missing"), With("y"))
	require.NoError(t, err)
	assert.Equal(t, src, got)
	assert.Zero(t, n)

	got, n, err = ReplaceOutsideQuotesCount(src, Literal("x"), With("y"))
	require.NoError(t, err)
	assert.Equal(t, src, got, "only quoted matches means no change")
	assert.Zero(t, n)
}

func TestReplaceOutsideQuotes_FuncArguments(t *testing.T) {
	src := `ab "ab" ab`

	var calls []Match
	got, err := ReplaceOutsideQuotes(src, Literal("ab"), WithFunc(func(m Match) string {
		calls = append(calls, m)
		return "AB"
	}))
	require.NoError(t, err)

	assert.Equal(t, `AB "ab" AB`, got)
	assert.Equal(t, []Match{
		{Text: "ab", Start: 0, Source: src},
		{Text: "ab", Start: 8, Source: src},
	}, calls)
}

func TestReplaceOutsideQuotes_Errors(t *testing.T) {
	t.Run("empty_literal", func(t *testing.T) {
		_, err := ReplaceOutsideQuotes("abc", Literal(""), With("x"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrZeroLengthPattern))
	})

	t.Run("regexp_matching_empty", func(t *testing.T) {
		_, err := Regexp("x*")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrZeroLengthPattern))
	})

	t.Run("zero_length_match_at_runtime", func(t *testing.T) {
		p, err := FromRegexp(regexp.MustCompile(`\b`))
		require.NoError(t, err, "\\b does not match the empty string")

		_, err = ReplaceOutsideQuotes("a b", p, With("|"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrZeroLengthPattern))
	})

	t.Run("malformed_regexp", func(t *testing.T) {
		_, err := Regexp("(")
		require.Error(t, err)

		var merr *MalformedPatternError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, "(", merr.Expr)
	})

	t.Run("nil_pattern", func(t *testing.T) {
		_, err := ReplaceOutsideQuotes("a", nil, With("b"))
		var merr *MalformedPatternError
		assert.True(t, errors.As(err, &merr))
	})

	t.Run("nil_replacement", func(t *testing.T) {
		_, err := ReplaceOutsideQuotes("a", Literal("a"), nil)
		var rerr *InvalidReplacementError
		assert.True(t, errors.As(err, &rerr))
	})

	t.Run("nil_replacement_func", func(t *testing.T) {
		out, err := ReplaceOutsideQuotes("a", Literal("a"), WithFunc(nil))
		var rerr *InvalidReplacementError
		assert.True(t, errors.As(err, &rerr))
		assert.Empty(t, out, "no partial output")
	})
}

func TestReplaceAll(t *testing.T) {
	got, n, err := ReplaceAll(`x "x" 'x'`, Literal("x"), With("y"))
	require.NoError(t, err)
	assert.Equal(t, `y "y" 'y'`, got)
	assert.Equal(t, 3, n)
}

func TestReplacer(t *testing.T) {
	src := `a "a"`

	got, n, err := Replacer{Pattern: Literal("a"), Replacement: With("b")}.Replace(src)
	require.NoError(t, err)
	assert.Equal(t, `b "a"`, got)
	assert.Equal(t, 1, n)

	got, n, err = Replacer{Pattern: Literal("a"), Replacement: With("b"), IncludeQuoted: true}.Replace(src)
	require.NoError(t, err)
	assert.Equal(t, `b "b"`, got)
	assert.Equal(t, 2, n)
}
