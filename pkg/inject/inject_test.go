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

package inject

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/status"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		path string
		opts Options
		want string
	}{
		{name: "ignore_path_no_slash", path: "src/app.js", opts: Options{IgnorePath: "src"}, want: "app.js"},
		{name: "ignore_path_with_slash", path: "src/pages/home.js", opts: Options{IgnorePath: "src", AddRootSlash: true}, want: "/pages/home.js"},
		{name: "ignore_path_trailing_slash", path: "src/app.js", opts: Options{IgnorePath: "src/"}, want: "app.js"},
		{name: "ignore_path_not_prefix", path: "srcs/app.js", opts: Options{IgnorePath: "src"}, want: "srcs/app.js"},
		{name: "no_ignore_path", path: "src/app.js", opts: Options{AddRootSlash: true}, want: "/src/app.js"},
		{name: "windows_separators", path: `src\common\util.js`, opts: Options{IgnorePath: "src"}, want: "common/util.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.path, tt.opts))
		})
	}
}

func TestTags(t *testing.T) {
	opts := Options{IgnorePath: "src"}

	js, err := Tags(JS, []string{"src/app.js", "src/pages/home.js"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{`<script src="app.js"></script>`, `<script src="pages/home.js"></script>`}, js)

	css, err := Tags(CSS, []string{"src/pages/home.css"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{`<link rel="stylesheet" href="pages/home.css">`}, css)

	_, err = Tags(Kind("jade"), nil, opts)
	assert.Error(t, err)
}

func TestAsCSS(t *testing.T) {
	got := AsCSS([]string{"src/common/libs/bootstrap-build.css", "src/pages/home.scss", "src/pages/noext"})
	assert.Equal(t, []string{"src/common/libs/bootstrap-build.css", "src/pages/home.css", "src/pages/noext.css"}, got)
}

func TestInject(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		kind    Kind
		tags    []string
		want    string
		wantErr error
	}{
		{
			name: "fills_empty_block",
			html: "<head>\n  <!-- inject:js -->\n  <!-- endinject -->\n</head>",
			kind: JS,
			tags: []string{`<script src="a.js"></script>`, `<script src="b.js"></script>`},
			want: "<head>\n  <!-- inject:js -->\n  <script src=\"a.js\"></script>\n  <script src=\"b.js\"></script>\n  <!-- endinject -->\n</head>",
		},
		{
			name: "replaces_stale_tags",
			html: "\t<!-- inject:css -->\n\t<link rel=\"stylesheet\" href=\"old.css\">\n\t<!-- endinject -->",
			kind: CSS,
			tags: []string{`<link rel="stylesheet" href="new.css">`},
			want: "\t<!-- inject:css -->\n\t<link rel=\"stylesheet\" href=\"new.css\">\n\t<!-- endinject -->",
		},
		{
			name: "leaves_other_kind_alone",
			html: "<!-- inject:css --><!-- endinject -->\n<!-- inject:js --><!-- endinject -->",
			kind: JS,
			tags: []string{"x"},
			want: "<!-- inject:css --><!-- endinject -->\n<!-- inject:js -->\nx\n<!-- endinject -->",
		},
		{
			name: "no_tags_empties_block",
			html: "<!-- inject:js -->\n<script src=\"gone.js\"></script>\n<!-- endinject -->",
			kind: JS,
			tags: nil,
			want: "<!-- inject:js -->\n<!-- endinject -->",
		},
		{
			name: "inline_marker_gets_no_indent",
			html: "<body><!-- inject:js --><!-- endinject --></body>",
			kind: JS,
			tags: []string{"x"},
			want: "<body><!-- inject:js -->\nx\n<!-- endinject --></body>",
		},
		{
			name: "apostrophes_in_text_do_not_hide_markers",
			html: "<p>don't</p>\n<!-- inject:js --><!-- endinject -->\n<p>it's</p>",
			kind: JS,
			tags: []string{"x"},
			want: "<p>don't</p>\n<!-- inject:js -->\nx\n<!-- endinject -->\n<p>it's</p>",
		},
		{
			name:    "missing_marker",
			html:    "<head></head>",
			kind:    CSS,
			wantErr: ErrMarkerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inject(tt.html, tt.kind, tt.tags)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInjectFile(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "src", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(index), 0755))
	require.NoError(t, os.WriteFile(index, []byte("<!-- inject:js -->\n<!-- endinject -->"), 0644))

	sm := status.New(dir)
	ctx := context.Background()

	err := InjectFile(ctx, sm, "src/index.html", JS, []string{"src/app.js"}, Options{IgnorePath: "src"})
	require.NoError(t, err)

	data, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, "<!-- inject:js -->\n<script src=\"app.js\"></script>\n<!-- endinject -->", string(data))

	info, err := sm.GetFileInfo(ctx, "src/index.html")
	require.NoError(t, err)
	assert.Equal(t, status.StatusModified, info.Status)

	err = InjectFile(ctx, sm, "src/index.html", CSS, []string{"src/app.css"}, Options{})
	assert.True(t, errors.Is(err, ErrMarkerNotFound), "missing css block should be reported")
}
