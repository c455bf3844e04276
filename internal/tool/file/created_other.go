//go:build !linux && !darwin

package file

import (
	"os"
	"time"
)

func createdTime(os.FileInfo) time.Time { return time.Time{} }
