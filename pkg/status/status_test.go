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
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string)
		path    string
		content string
		want    FileStatus
	}{
		{
			name:    "new_file",
			path:    "css/app.css",
			content: "a{}",
			want:    StatusNew,
		},
		{
			name: "modified_file",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("old"), 0644))
			},
			path:    "app.css",
			content: "new",
			want:    StatusModified,
		},
		{
			name: "unchanged_file",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("same"), 0644))
			},
			path:    "app.css",
			content: "same",
			want:    StatusUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			mgr := New(dir)
			got, err := mgr.WriteFile(context.Background(), "style", tt.path, []byte(tt.content))
			require.NoError(t, err, "WriteFile should succeed")
			assert.Equal(t, tt.want, got, "status should match")

			data, err := os.ReadFile(filepath.Join(dir, tt.path))
			require.NoError(t, err, "file should exist")
			assert.Equal(t, tt.content, string(data), "content should match")

			_, err = os.Stat(filepath.Join(dir, tt.path) + ".tmp")
			assert.True(t, os.IsNotExist(err), "temp file should be gone")

			info, err := mgr.GetFileInfo(context.Background(), tt.path)
			require.NoError(t, err, "file should be tracked")
			assert.Equal(t, tt.want, info.Status, "tracked status should match")
			assert.Equal(t, "style", info.Kind, "kind should be recorded")
			assert.Equal(t, int64(len(tt.content)), info.Size, "size should match")
		})
	}
}

func TestWriteFileUnchangedKeepsModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0644))

	before, err := os.Stat(path)
	require.NoError(t, err)

	old := before.ModTime().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	mgr := New(dir)
	st, err := mgr.WriteFile(context.Background(), "html", "index.html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, st)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, after.ModTime().Equal(old), "unchanged file should not be rewritten")
}

func TestRemoveAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist", "js"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "js", "main.js"), []byte("x"), 0644))

	mgr := New(dir)
	ctx := context.Background()

	require.NoError(t, mgr.RemoveAll(ctx, "dir", "dist"), "removing existing dir should succeed")
	_, err := os.Stat(filepath.Join(dir, "dist"))
	assert.True(t, os.IsNotExist(err), "dir should be gone")

	info, err := mgr.GetFileInfo(ctx, "dist")
	require.NoError(t, err)
	assert.Equal(t, StatusDeleted, info.Status)

	require.NoError(t, mgr.RemoveAll(ctx, "dir", "missing"), "missing path is fine")
	_, err = mgr.GetFileInfo(ctx, "missing")
	assert.Error(t, err, "missing path should not be tracked")
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.svg"), []byte("<svg/>"), 0644))

	mgr := New(dir)
	st, err := mgr.CopyFile(context.Background(), "asset", "logo.svg", "dist/assets/logo.svg")
	require.NoError(t, err)
	assert.Equal(t, StatusNew, st)

	data, err := os.ReadFile(filepath.Join(dir, "dist", "assets", "logo.svg"))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	_, err = mgr.CopyFile(context.Background(), "asset", "nope.svg", "dist/nope.svg")
	assert.Error(t, err, "missing source should fail")
}

func TestListFilesAndSummary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.css"), []byte("b"), 0644))

	mgr := New(dir)
	ctx := context.Background()

	_, err := mgr.WriteFile(ctx, "style", "c.css", []byte("c"))
	require.NoError(t, err)
	_, err = mgr.WriteFile(ctx, "style", "b.css", []byte("b"))
	require.NoError(t, err)
	_, err = mgr.WriteFile(ctx, "style", "a.css", []byte("a"))
	require.NoError(t, err)

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 3)
	assert.Equal(t, "a.css", files[0].Path, "files should be sorted")
	assert.Equal(t, "b.css", files[1].Path)
	assert.Equal(t, "c.css", files[2].Path)

	counts := mgr.Counts()
	assert.Equal(t, 2, counts[StatusNew])
	assert.Equal(t, 1, counts[StatusUnchanged])
	assert.Equal(t, "✅ 2 created, 0 modified, 1 unchanged, 0 removed", mgr.Summary())
}

func TestAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	mgr := New(dir)
	target := filepath.Join(other, "out.js")
	st, err := mgr.WriteFile(context.Background(), "bundle", target, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, StatusNew, st)

	_, err = os.Stat(target)
	assert.NoError(t, err, "absolute paths should not be joined to the base dir")
}
