package file

import (
	"os"
	"strings"
	"time"
)

// Entry is one item of a directory listing.
type Entry struct {
	Name  string
	IsDir bool
}

// FormatListing renders entries as "[DIR] name" / "[FILE] name" lines.
func FormatListing(entries []Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			lines = append(lines, "[DIR] "+e.Name)
		} else {
			lines = append(lines, "[FILE] "+e.Name)
		}
	}
	return strings.Join(lines, "\n")
}

// FileInfo is the metadata returned by Info. Created is the birth time where
// the platform records one, the inode change time on Linux, and zero elsewhere.
type FileInfo struct {
	Size     int64       `json:"size"`
	Created  time.Time   `json:"created"`
	Modified time.Time   `json:"modified"`
	IsDir    bool        `json:"is_dir"`
	Mode     os.FileMode `json:"mode"`
}

// DeleteResult reports the outcome of a delete that reached the filesystem.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
