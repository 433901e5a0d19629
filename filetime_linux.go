//go:build linux

package mdpress

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// fileCreationTime returns the file's birth time when the filesystem records
// one, falling back to the modification time. statx is best-effort: not every
// kernel or filesystem fills in the btime field.
func fileCreationTime(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 && stx.Btime.Sec > 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	return info.ModTime()
}
