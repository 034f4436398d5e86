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
	"bytes"
	"context"
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ReplacementRule defines a single text replacement operation
type ReplacementRule struct {
	// FromText is the text (or expression, when Regexp is set) to replace
	FromText string `json:"from_text" yaml:"from_text" hcl:"from_text"`

	// ToText is the replacement text
	ToText string `json:"to_text" yaml:"to_text" hcl:"to_text"`

	// Regexp treats FromText as a regular expression
	Regexp bool `json:"regexp,omitempty" yaml:"regexp,omitempty" hcl:"regexp,optional"`

	// IgnoreQuoted leaves matches inside quoted strings untouched
	IgnoreQuoted bool `json:"ignore_quoted,omitempty" yaml:"ignore_quoted,omitempty" hcl:"ignore_quoted,optional"`

	// FileFilterGlob limits the rule to matching files, empty means all files
	FileFilterGlob string `json:"file_filter_glob,omitempty" yaml:"file_filter_glob,omitempty" hcl:"file_filter_glob,optional"`
}

// AppliesTo reports whether the rule should run against path.
func (r ReplacementRule) AppliesTo(path string) bool {
	if r.FileFilterGlob == "" {
		return true
	}
	ok, err := doublestar.Match(r.FileFilterGlob, path)
	return err == nil && ok
}

// Replacer builds the pattern and replacement for the rule.
func (r ReplacementRule) Replacer() (Replacer, error) {
	var (
		p   Pattern = Literal(r.FromText)
		err error
	)
	if r.Regexp {
		p, err = Regexp(r.FromText)
		if err != nil {
			return Replacer{}, err
		}
	}
	return Replacer{Pattern: p, Replacement: With(r.ToText), IncludeQuoted: !r.IgnoreQuoted}, nil
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}

// 🛡️ QuoteAwareReplacer implements TextReplacer on top of ReplaceOutsideQuotes
type QuoteAwareReplacer struct{}

var _ TextReplacer = (*QuoteAwareReplacer)(nil)

// NewQuoteAwareReplacer creates a new QuoteAwareReplacer
func NewQuoteAwareReplacer() *QuoteAwareReplacer {
	return &QuoteAwareReplacer{}
}

// ReplaceText applies each rule in order
func (q *QuoteAwareReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	current := string(originalContent)
	for i, rule := range rules {
		if rule.FromText == "" {
			continue
		}

		rp, err := rule.Replacer()
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		next, n, err := rp.Replace(current)
		if err != nil {
			return nil, errors.Errorf("rule %d: %w", i, err)
		}

		if n > 0 {
			zerolog.Ctx(ctx).Trace().Str("from", rule.FromText).Int("count", n).Msg("applied replacement rule")
			result.WasModified = true
			result.ReplacementCount += n
		}
		current = next
	}

	result.ModifiedContent = []byte(current)
	return result, nil
}

// ValidateRules checks that every rule has something to find and that
// expressions compile
func (q *QuoteAwareReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		if _, err := rule.Replacer(); err != nil {
			return errors.Errorf("rule %d: %w", i, err)
		}
		if rule.FileFilterGlob != "" && !doublestar.ValidatePattern(rule.FileFilterGlob) {
			return errors.Errorf("rule %d: invalid file_filter_glob %q", i, rule.FileFilterGlob)
		}
	}
	return nil
}

// ApplyRules runs the rules that apply to path against content.
func ApplyRules(ctx context.Context, r TextReplacer, path string, content []byte, rules []ReplacementRule) ([]byte, int, error) {
	var applicable []ReplacementRule
	for _, rule := range rules {
		if rule.AppliesTo(path) {
			applicable = append(applicable, rule)
		}
	}
	if len(applicable) == 0 {
		return content, 0, nil
	}

	res, err := r.ReplaceText(ctx, bytes.NewReader(content), applicable)
	if err != nil {
		return nil, 0, errors.Errorf("replacing text in %s: %w", path, err)
	}
	return res.ModifiedContent, res.ReplacementCount, nil
}
