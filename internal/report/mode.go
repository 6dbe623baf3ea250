package report

import (
	"io/fs"

	"github.com/Ning0612/myfind/internal/domain"
)

// ModeString renders the ten-character permission column of a listing:
// type letter ('-' for regular files) then user, group and other triplets,
// with s/S for setuid and setgid and t/T for the sticky bit
func ModeString(meta domain.Metadata) string {
	buf := make([]byte, 10)

	buf[0] = meta.Type.Char()
	if meta.Type == domain.FileTypeRegular {
		buf[0] = '-'
	}

	mode := meta.Mode
	triplet(buf[1:4], mode>>6, mode&fs.ModeSetuid != 0, 's')
	triplet(buf[4:7], mode>>3, mode&fs.ModeSetgid != 0, 's')
	triplet(buf[7:10], mode, mode&fs.ModeSticky != 0, 't')

	return string(buf)
}

// triplet fills three rwx characters from the low three bits of bits
func triplet(dst []byte, bits fs.FileMode, special bool, specialChar byte) {
	dst[0] = flag(bits&04 != 0, 'r')
	dst[1] = flag(bits&02 != 0, 'w')

	exec := bits&01 != 0
	switch {
	case special && exec:
		dst[2] = specialChar
	case special:
		dst[2] = specialChar - ('a' - 'A')
	default:
		dst[2] = flag(exec, 'x')
	}
}

func flag(set bool, c byte) byte {
	if set {
		return c
	}
	return '-'
}
