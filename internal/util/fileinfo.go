package util

// FileInfo contains the file metadata used to detect that a project file
// changed on disk between two samples: modification time, size, and (on
// Unix-like systems) the inode, which catches save-by-replace.
type FileInfo struct {
	ModTime int64  // Last modification time, unix seconds
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number, 0 where the platform has none
}

// ModifiedSince reports whether this observation indicates a write relative
// to a previous one of the same path. A nil previous observation is not a
// write signal: the first sighting establishes the baseline.
func (fi *FileInfo) ModifiedSince(prev *FileInfo) bool {
	if fi == nil || prev == nil {
		return false
	}
	if fi.Inode != 0 && prev.Inode != 0 && fi.Inode != prev.Inode {
		return true
	}
	return fi.ModTime > prev.ModTime
}
