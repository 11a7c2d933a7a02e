//go:build linux || darwin

package util

import (
	"fmt"
	"os"
	"syscall"
)

// GetFileInfo retrieves file metadata including the inode number.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("failed to get file system information: %s", filepath)
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
		Inode:   sysStat.Ino,
	}, nil
}
