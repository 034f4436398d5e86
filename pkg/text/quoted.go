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

// 📏 Region is a half-open byte range [Start, End) covering a quoted string,
// both delimiters included.
type Region struct {
	Start int
	End   int
}

// Contains reports whether offset lies strictly between the region bounds.
// The opening delimiter's own offset and End itself are outside.
func (r Region) Contains(offset int) bool {
	return r.Start < offset && offset < r.End
}

// scanState is the state of the quoted region scanner.
type scanState int

const (
	stateOutside scanState = iota
	stateInside
	stateEscape
)

func isQuote(b byte) bool {
	return b == '"' || b == '\''
}

func isLineTerminator(b byte) bool {
	return b == '\n' || b == '\r'
}

// 🔍 ScanQuoted walks src once, left to right, and returns every single or
// double quoted region in order.
//
// Inside a quote a backslash and the byte after it are consumed as a unit, so
// an escaped delimiter never closes the region. A quote that is still open at a
// line terminator or at the end of src produces no region; scanning restarts on
// the byte after that dangling quote and the text it opened is treated as
// ordinary text.
func ScanQuoted(src string) []Region {
	var (
		regions []Region
		state   = stateOutside
		delim   byte
		open    int
	)

	for i := 0; i < len(src) || state != stateOutside; i++ {
		if i == len(src) {
			// unterminated at end of text, retry after the dangling quote
			state, i = stateOutside, open
			continue
		}

		c := src[i]
		switch state {
		case stateOutside:
			if isQuote(c) {
				state, delim, open = stateInside, c, i
			}
		case stateInside:
			switch {
			case c == '\\':
				state = stateEscape
			case c == delim:
				regions = append(regions, Region{Start: open, End: i + 1})
				state = stateOutside
			case isLineTerminator(c):
				state, i = stateOutside, open
			}
		case stateEscape:
			if isLineTerminator(c) {
				state, i = stateOutside, open
				continue
			}
			state = stateInside
		}
	}

	return regions
}

// IsQuoted reports whether offset falls strictly inside any of regions.
func IsQuoted(offset int, regions []Region) bool {
	for _, r := range regions {
		if r.Contains(offset) {
			return true
		}
	}
	return false
}
