package daemon

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// diskUsage reports free and total bytes for the filesystem containing path.
func diskUsage(path string) (free, total uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(filepath.Dir(path), &stat); err != nil {
		return 0, 0, err
	}
	blockSize := uint64(stat.Bsize)
	return stat.Bavail * blockSize, stat.Blocks * blockSize, nil
}
