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

package watch

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/log"
)

// ErrStructureChanged stops the dev loop after files are added or removed,
// since file sets are only expanded at startup.
var ErrStructureChanged = errors.Base("directory structure changed, restart the dev task")

// 🚨 StructureGuard returns a handler that fails on any created, deleted or
// renamed path and beeps so the change is noticed.
func StructureGuard() Handler {
	return func(ctx context.Context, events []ChangeEvent) error {
		for _, ev := range events {
			if ev.Type == EventTypeModified {
				continue
			}
			l := log.FromContextOrDiscard(ctx)
			l.Beep()
			l.Errorf("%s was %s", ev.Path, ev.Type)
			return errors.Errorf("%w: %s %s", ErrStructureChanged, ev.Path, ev.Type)
		}
		return nil
	}
}
