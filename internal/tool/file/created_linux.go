package file

import (
	"os"
	"syscall"
	"time"
)

// createdTime returns the inode change time, the closest Linux stat offers.
func createdTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}
	}
	return time.Unix(st.Ctim.Unix())
}
