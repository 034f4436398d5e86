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
	"context"
	"path"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/fileset"
	"github.com/walteh/assetrc/pkg/status"
)

const (
	importStartFlag = "/*Begin imports*/ "
	importEndFlag   = "/*End imports*/"
)

// 📥 ImportBlock builds the header prepended to every stylesheet so shared
// variables and mixins are in scope without hand written imports.
func ImportBlock(variableFiles []string) string {
	var b strings.Builder
	b.WriteString(importStartFlag)
	for _, f := range variableFiles {
		b.WriteString("@import '")
		b.WriteString(strings.TrimSuffix(path.Base(fileset.Unixify(f)), ".scss"))
		b.WriteString("'; ")
	}
	b.WriteString(importEndFlag)
	b.WriteString("\n")
	return b.String()
}

// WithImports returns content headed by block. Content already carrying block
// comes back unchanged; a block left over from a different set of variable
// files is replaced.
func WithImports(content, block string) (string, bool) {
	if strings.Contains(content, block) {
		return content, false
	}

	if strings.Contains(content, importStartFlag) {
		if end := strings.Index(content, importEndFlag); end >= 0 {
			cut := end + len(importEndFlag) + 1
			if cut > len(content) {
				cut = len(content)
			}
			content = content[cut:]
		}
	}

	return block + content, true
}

// PrependImports rewrites every .scss file in files so it starts with block.
func PrependImports(ctx context.Context, files []string, block string, sm *status.Manager) error {
	for _, f := range files {
		if path.Ext(f) != ".scss" {
			continue
		}

		content, err := sm.ReadFile(ctx, f)
		if err != nil {
			return errors.Errorf("prepending imports: %w", err)
		}

		next, changed := WithImports(string(content), block)
		if !changed {
			continue
		}

		if _, err := sm.WriteFile(ctx, "style", f, []byte(next)); err != nil {
			return errors.Errorf("prepending imports to %s: %w", f, err)
		}
	}
	return nil
}
