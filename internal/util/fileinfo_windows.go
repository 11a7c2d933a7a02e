//go:build windows

package util

import "os"

// GetFileInfo retrieves file metadata. Windows has no inode; modification
// time alone carries the write signal there.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
	}, nil
}
