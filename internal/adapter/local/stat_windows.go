//go:build windows

package local

import (
	"os"
	"strings"
)

type statFields struct {
	uid, gid uint32
	inode    uint64
	links    uint64
	blocks   int64
}

// sysStat has no POSIX stat record to read on Windows
func sysStat(info os.FileInfo) (statFields, bool) {
	return statFields{}, false
}

func isNotDirectory(err error) bool {
	return strings.Contains(err.Error(), "not a directory")
}
