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
	"testing"

	"github.com/stretchr/testify/assert"
)

type reload struct {
	path    string
	liveCSS bool
}

type recorder struct {
	reloads []reload
}

func (r *recorder) Reload(path string, liveCSS bool) int {
	r.reloads = append(r.reloads, reload{path, liveCSS})
	return 1
}

func TestReloader(t *testing.T) {
	tests := []struct {
		name    string
		changes []string
		want    []reload
	}{
		{
			name:    "first_sighting_is_silent",
			changes: []string{"src/app.js", "src/pages/home.css"},
			want:    nil,
		},
		{
			name:    "second_sighting_reloads",
			changes: []string{"src/app.js", "src/app.js"},
			want:    []reload{{"src/app.js", false}},
		},
		{
			name:    "css_reloads_live",
			changes: []string{"src/pages/home.css", "src/pages/home.css", "src/pages/home.css"},
			want:    []reload{{"src/pages/home.css", true}, {"src/pages/home.css", true}},
		},
		{
			name:    "scss_is_not_live",
			changes: []string{"src/pages/home.scss", "src/pages/home.scss"},
			want:    []reload{{"src/pages/home.scss", false}},
		},
		{
			name:    "paths_tracked_separately",
			changes: []string{"a.html", "b.html", "a.html", "b.html"},
			want:    []reload{{"a.html", false}, {"b.html", false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r := NewReloader(rec)
			for _, c := range tt.changes {
				r.Changed(context.Background(), c)
			}
			assert.Equal(t, tt.want, rec.reloads)
		})
	}
}

func TestReloaderReportsSend(t *testing.T) {
	r := NewReloader(&recorder{})
	ctx := context.Background()

	assert.False(t, r.Changed(ctx, "index.html"))
	assert.True(t, r.Changed(ctx, "index.html"))
}
