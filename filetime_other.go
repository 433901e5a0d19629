//go:build !linux

package mdpress

import (
	"os"
	"time"
)

// fileCreationTime falls back to the modification time on platforms where we
// do not query birth time.
func fileCreationTime(path string, info os.FileInfo) time.Time {
	return info.ModTime()
}
