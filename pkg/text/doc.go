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

/*
Package text rewrites source text without disturbing string literals.

	   src ──► ScanQuoted ──► []Region
	    │                        │
	    └──► Pattern.FindAllIndex ──► IsQuoted? ──► keep / Replacement

🎯 Purpose:
- Find every match of a Pattern (Literal or Regexp)
- Skip matches that start inside a '...' or "..." string
- Substitute the rest with a literal (With) or computed (WithFunc) value

🔄 Quoted regions:
A region opens at a quote and closes at the next identical quote on the same
line. A backslash escapes the byte after it, so "a\"b" is one region. A quote
with no partner on its line opens nothing, and the text after it is ordinary.

Membership is strict: a match is quoted when Start < offset < End for some
region [Start, End). For the input 'x'x replacing x with y gives 'x'y.

🔍 Example:

	out, err := text.ReplaceOutsideQuotes(`$c: "$a"; $a: 1;`, text.Literal("$a"), text.With("$b"))
	// out == `$c: "$a"; $b: 1;`

ReplacementRule and QuoteAwareReplacer layer ordered, file-filtered rule sets
from configuration on top of the same primitive.
*/
package text
