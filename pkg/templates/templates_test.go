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

package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/assetrc/pkg/status"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "heading_and_paragraph",
			src:  "# Home\n\nWelcome.\n",
			want: "<h1>Home</h1>\n<p>Welcome.</p>\n",
		},
		{
			name: "raw_html_kept",
			src:  "<div class=\"nav\"></div>\n",
			want: "<div class=\"nav\"></div>\n",
		},
		{
			name: "gfm_strikethrough",
			src:  "~~old~~\n",
			want: "<p><del>old</del></p>\n",
		},
		{
			name: "gfm_table",
			src:  "| a |\n|---|\n| 1 |\n",
			want: "<table>\n<thead>\n<tr>\n<th>a</th>\n</tr>\n</thead>\n<tbody>\n<tr>\n<td>1</td>\n</tr>\n</tbody>\n</table>\n",
		},
		{
			name: "empty",
			src:  "",
			want: "",
		},
	}

	r := NewRenderer(status.New(t.TempDir()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(context.Background(), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestHTMLPath(t *testing.T) {
	assert.Equal(t, "src/pages/home.html", HTMLPath("src/pages/home.md"))
	assert.Equal(t, "src/v1.0/about.html", HTMLPath("src/v1.0/about"))
}

func TestRenderAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src", "pages"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "pages", "home.md"), []byte("# Home\n"), 0644))

	sm := status.New(dir)
	r := NewRenderer(sm)
	ctx := context.Background()

	out, err := r.RenderAll(ctx, []string{"src/pages/home.md"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/pages/home.html"}, out)

	data, err := os.ReadFile(filepath.Join(dir, "src", "pages", "home.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Home</h1>\n", string(data))

	_, err = r.RenderAll(ctx, []string{"src/pages/missing.md"})
	assert.Error(t, err)
}
