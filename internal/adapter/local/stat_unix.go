//go:build !windows

package local

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

type statFields struct {
	uid, gid uint32
	inode    uint64
	links    uint64
	blocks   int64
}

// sysStat extracts owner, inode, link and block counts from the raw stat record
func sysStat(info os.FileInfo) (statFields, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return statFields{}, false
	}
	return statFields{
		uid:    st.Uid,
		gid:    st.Gid,
		inode:  uint64(st.Ino),
		links:  uint64(st.Nlink),
		blocks: int64(st.Blocks),
	}, true
}

func isNotDirectory(err error) bool {
	return errors.Is(err, unix.ENOTDIR)
}
