//go:build linux || darwin

package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFileInfo(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "board1.kicad_pro")
	require.NoError(t, os.WriteFile(path, []byte(`{"meta":{}}`), 0644))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.Size)
	assert.NotZero(t, info.Inode)
	assert.NotZero(t, info.ModTime)
}

func TestGetFileInfoMissing(t *testing.T) {
	info, err := GetFileInfo(filepath.Join(t.TempDir(), "nope.kicad_pro"))
	assert.Error(t, err)
	assert.Nil(t, info)
}

func TestFileInfoModifiedSince(t *testing.T) {
	base := &FileInfo{ModTime: 1000, Size: 10, Inode: 77}

	tests := []struct {
		name     string
		current  *FileInfo
		prev     *FileInfo
		modified bool
	}{
		{name: "no baseline", current: base, prev: nil, modified: false},
		{name: "unchanged", current: &FileInfo{ModTime: 1000, Inode: 77}, prev: base, modified: false},
		{name: "mtime advanced", current: &FileInfo{ModTime: 1010, Inode: 77}, prev: base, modified: true},
		{name: "save by replace", current: &FileInfo{ModTime: 1000, Inode: 78}, prev: base, modified: true},
		{name: "mtime moved backwards", current: &FileInfo{ModTime: 990, Inode: 77}, prev: base, modified: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.modified, tt.current.ModifiedSince(tt.prev))
		})
	}
}

func TestGetFileInfoModTimeAdvances(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "board1.kicad_pcb")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	before, err := GetFileInfo(path)
	require.NoError(t, err)

	// Push the mtime forward explicitly instead of sleeping
	future := time.Unix(before.ModTime+5, 0)
	require.NoError(t, os.Chtimes(path, future, future))

	after, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.True(t, after.ModifiedSince(before))
}
