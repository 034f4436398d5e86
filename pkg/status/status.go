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
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/assetrc/pkg/log"
)

// 📊 FileStatus represents what a write did to a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // File didn't exist before the write
	StatusModified             // File existed with different content
	StatusUnchanged            // File existed with identical content
	StatusDeleted              // File was removed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains metadata about a tracked file
type FileInfo struct {
	Path     string     // Path as given to the manager
	Kind     string     // Asset kind (script/style/template/html/bundle)
	Status   FileStatus // Result of the last operation
	Size     int64      // Size in bytes after the operation
	Checksum string     // Content hash after the operation
}

// 🔧 Manager writes pipeline outputs and remembers what changed
type Manager struct {
	baseDir   string
	formatter FileFormatter

	mu    sync.RWMutex
	files map[string]FileInfo
}

// 🏭 New creates a new status manager. Relative paths are resolved
// against baseDir.
func New(baseDir string) *Manager {
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// Abs resolves path against the base directory
func (m *Manager) Abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

func checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// WriteFile writes content to path unless the file already holds exactly
// that content. The write goes through a temp file and a rename.
func (m *Manager) WriteFile(ctx context.Context, kind, path string, content []byte) (FileStatus, error) {
	absPath := m.Abs(path)

	st := StatusNew
	existing, err := os.ReadFile(absPath)
	switch {
	case err == nil && bytes.Equal(existing, content):
		st = StatusUnchanged
	case err == nil:
		st = StatusModified
	case !os.IsNotExist(err):
		return StatusUnknown, errors.Errorf("reading %s: %w", path, err)
	}

	if st != StatusUnchanged {
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return StatusUnknown, errors.Errorf("creating parent directories: %w", err)
		}
		if err := writeFileAtomic(absPath, content); err != nil {
			return StatusUnknown, err
		}
	}

	m.track(ctx, FileInfo{
		Path:     path,
		Kind:     kind,
		Status:   st,
		Size:     int64(len(content)),
		Checksum: checksum(content),
	})
	return st, nil
}

func writeFileAtomic(absPath string, content []byte) error {
	tempPath := absPath + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// ReadFile reads a file relative to the base directory
func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.Abs(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// RemoveAll deletes path and everything below it. A missing path is not an
// error and is not tracked.
func (m *Manager) RemoveAll(ctx context.Context, kind, path string) error {
	absPath := m.Abs(path)
	if _, err := os.Lstat(absPath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return errors.Errorf("checking %s: %w", path, err)
	}

	if err := os.RemoveAll(absPath); err != nil {
		return errors.Errorf("removing %s: %w", path, err)
	}

	m.track(ctx, FileInfo{Path: path, Kind: kind, Status: StatusDeleted})
	return nil
}

// CopyFile copies src to dst through WriteFile, creating parent directories
func (m *Manager) CopyFile(ctx context.Context, kind, src, dst string) (FileStatus, error) {
	f, err := os.Open(m.Abs(src))
	if err != nil {
		return StatusUnknown, errors.Errorf("opening source file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return StatusUnknown, errors.Errorf("reading source file: %w", err)
	}

	return m.WriteFile(ctx, kind, dst, content)
}

func (m *Manager) track(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	m.files[info.Path] = info
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Str("path", info.Path).
		Str("status", info.Status.String()).
		Msg(m.formatter.FormatFileOperation(info.Path, info.Kind, info.Status))

	log.FromContextOrDiscard(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:       info.Path,
		Kind:       info.Kind,
		Status:     info.Status.String(),
		IsNew:      info.Status == StatusNew,
		IsModified: info.Status == StatusModified,
		IsRemoved:  info.Status == StatusDeleted,
	})
}

// GetFileInfo returns what the manager knows about path
func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns every tracked file, sorted by path
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Counts tallies tracked files by status
func (m *Manager) Counts() map[FileStatus]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[FileStatus]int)
	for _, info := range m.files {
		out[info.Status]++
	}
	return out
}

// Summary renders the status counts with the manager's formatter
func (m *Manager) Summary() string {
	c := m.Counts()
	return m.formatter.FormatSummary(c[StatusNew], c[StatusModified], c[StatusUnchanged], c[StatusDeleted])
}
