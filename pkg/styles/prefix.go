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
	"regexp"
	"sort"
	"strings"

	"github.com/walteh/assetrc/pkg/text"
)

// DefaultPrefixes lists the vendor prefixes added per property.
var DefaultPrefixes = map[string][]string{
	"animation":           {"-webkit-"},
	"appearance":          {"-webkit-", "-moz-"},
	"backface-visibility": {"-webkit-"},
	"box-sizing":          {"-webkit-", "-moz-"},
	"flex":                {"-webkit-", "-ms-"},
	"transform":           {"-webkit-", "-ms-"},
	"transition":          {"-webkit-"},
	"user-select":         {"-webkit-", "-moz-", "-ms-"},
}

// 🧩 Prefixer copies declarations of selected properties with vendor
// prefixes in front of the original. Declarations inside quoted strings are
// left alone.
type Prefixer struct {
	prefixes map[string][]string
	decl     *regexp.Regexp
	pattern  text.Pattern
}

// NewPrefixer creates a Prefixer for the given property table
func NewPrefixer(prefixes map[string][]string) *Prefixer {
	names := make([]string, 0, len(prefixes))
	for name := range prefixes {
		names = append(names, regexp.QuoteMeta(name))
	}
	sort.Strings(names)

	decl := regexp.MustCompile(`(^|[{;\s])(` + strings.Join(names, "|") + `)(\s*:)([^;{}]*)`)
	return &Prefixer{
		prefixes: prefixes,
		decl:     decl,
		pattern:  text.MustRegexp(decl.String()),
	}
}

// Prefix returns css with prefixed copies of every matching declaration
func (p *Prefixer) Prefix(css string) (string, error) {
	return text.ReplaceOutsideQuotes(css, p.pattern, text.WithFunc(func(m text.Match) string {
		g := p.decl.FindStringSubmatch(m.Text)
		if g == nil {
			return m.Text
		}
		lead, name, colon := g[1], g[2], g[3]
		value := strings.TrimRight(g[4], " \t\r\n")

		var b strings.Builder
		b.WriteString(lead)
		for _, prefix := range p.prefixes[name] {
			b.WriteString(prefix + name + colon + value + "; ")
		}
		b.WriteString(strings.TrimPrefix(m.Text, lead))
		return b.String()
	}))
}
