package model

import "time"

// FolderSnapshot describes a directory tree at one instant.
type FolderSnapshot struct {
	TotalSize     int64
	FileCount     int
	LatestModTime *time.Time
}

func (s FolderSnapshot) Equal(o FolderSnapshot) bool {
	if s.TotalSize != o.TotalSize || s.FileCount != o.FileCount {
		return false
	}
	if s.LatestModTime == nil || o.LatestModTime == nil {
		return s.LatestModTime == nil && o.LatestModTime == nil
	}
	return s.LatestModTime.Equal(*o.LatestModTime)
}

// IsEmpty reports the all-zero snapshot of a tree with no files.
func (s FolderSnapshot) IsEmpty() bool {
	return s.TotalSize == 0 && s.FileCount == 0 && s.LatestModTime == nil
}
