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

package livereload

import (
	"context"
	"path"
	"sync"

	"github.com/rs/zerolog"
)

// Notifier is anything that can push a reload to browsers
type Notifier interface {
	Reload(path string, liveCSS bool) int
}

// ♻️ Reloader turns changed paths into reloads. The first time a path is
// seen nothing is sent, so priming a freshly started pipeline does not
// refresh every open page. Stylesheets are swapped in place; anything else
// reloads the whole page.
type Reloader struct {
	target Notifier

	mu   sync.Mutex
	seen map[string]bool
}

// NewReloader creates a Reloader that notifies target
func NewReloader(target Notifier) *Reloader {
	return &Reloader{target: target, seen: make(map[string]bool)}
}

// Changed records p and reloads browsers if p was seen before. It reports
// whether a reload was sent.
func (r *Reloader) Changed(ctx context.Context, p string) bool {
	r.mu.Lock()
	first := !r.seen[p]
	r.seen[p] = true
	r.mu.Unlock()

	if first {
		return false
	}

	liveCSS := path.Ext(p) == ".css"
	n := r.target.Reload(p, liveCSS)
	zerolog.Ctx(ctx).Debug().Str("path", p).Bool("live_css", liveCSS).Int("clients", n).Msg("reload")
	return true
}
