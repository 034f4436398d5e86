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


package text_test

import (
	"fmt"
	"strings"

	"github.com/walteh/assetrc/pkg/text"
)

func ExampleReplaceOutsideQuotes() {
	src := `@import 'variables'; $variables: 1;`

	out, err := text.ReplaceOutsideQuotes(src, text.Literal("variables"), text.With("theme"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(out)

	// Output:
	// @import 'variables'; $theme: 1;
}

func ExampleWithFunc() {
	src := `a { b: c; } "a { b: c; }"`

	out, err := text.ReplaceOutsideQuotes(src, text.MustRegexp(`[a-z]`), text.WithFunc(func(m text.Match) string {
		return strings.ToUpper(m.Text) + fmt.Sprint(m.Start)
	}))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(out)

	// Output:
	// A0 { B4: C7; } "a { b: c; }"
}

func ExampleScanQuoted() {
	for _, r := range text.ScanQuoted(`say "hi\"there" and 'bye`) {
		fmt.Println(r.Start, r.End)
	}

	// Output:
	// 4 15
}
