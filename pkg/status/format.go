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

package status

import (
	"fmt"
)

// 🎨 FileFormatter turns status changes into short messages
type FileFormatter interface {
	// FormatFileOperation formats the outcome of one file operation
	FormatFileOperation(path, kind string, st FileStatus) string

	// FormatSummary formats the totals of a run
	FormatSummary(created, modified, unchanged, removed int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatFileOperation formats a file operation status message with emojis
func (f *DefaultFileFormatter) FormatFileOperation(path, kind string, st FileStatus) string {
	label := path
	if kind != "" {
		label = fmt.Sprintf("%s %s", kind, path)
	}
	switch st {
	case StatusNew:
		return fmt.Sprintf("✨ Created %s", label)
	case StatusModified:
		return fmt.Sprintf("📝 Modified %s", label)
	case StatusDeleted:
		return fmt.Sprintf("🗑️  Removed %s", label)
	case StatusUnchanged:
		return fmt.Sprintf("👍 Unchanged %s", label)
	default:
		return fmt.Sprintf("❓ Unknown %s", label)
	}
}

// FormatSummary formats the totals of a run
func (f *DefaultFileFormatter) FormatSummary(created, modified, unchanged, removed int) string {
	if created+modified+removed == 0 {
		return fmt.Sprintf("✅ Nothing to do (%d unchanged)", unchanged)
	}
	return fmt.Sprintf("✅ %d created, %d modified, %d unchanged, %d removed", created, modified, unchanged, removed)
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
