package domain

import (
	"io/fs"
	"time"
)

// FileType represents the type of a filesystem entry
type FileType int

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
	FileTypeBlockDevice
	FileTypeCharDevice
	FileTypeFIFO
	FileTypeSymlink
	FileTypeSocket
)

// TypeChars lists the -type operands in the order the usage text shows them
const TypeChars = "bcdflps"

// Char returns the -type letter for this file type
func (t FileType) Char() byte {
	switch t {
	case FileTypeBlockDevice:
		return 'b'
	case FileTypeCharDevice:
		return 'c'
	case FileTypeDirectory:
		return 'd'
	case FileTypeFIFO:
		return 'p'
	case FileTypeSymlink:
		return 'l'
	case FileTypeSocket:
		return 's'
	default:
		return 'f'
	}
}

// FileTypeFromChar maps a -type letter back to its FileType
func FileTypeFromChar(c byte) (FileType, bool) {
	switch c {
	case 'b':
		return FileTypeBlockDevice, true
	case 'c':
		return FileTypeCharDevice, true
	case 'd':
		return FileTypeDirectory, true
	case 'f':
		return FileTypeRegular, true
	case 'l':
		return FileTypeSymlink, true
	case 'p':
		return FileTypeFIFO, true
	case 's':
		return FileTypeSocket, true
	}
	return 0, false
}

// FileTypeFromMode classifies an fs.FileMode. Every mode maps to exactly one type;
// irregular modes fall back to regular.
func FileTypeFromMode(mode fs.FileMode) FileType {
	switch {
	case mode&fs.ModeDir != 0:
		return FileTypeDirectory
	case mode&fs.ModeSymlink != 0:
		return FileTypeSymlink
	case mode&fs.ModeNamedPipe != 0:
		return FileTypeFIFO
	case mode&fs.ModeSocket != 0:
		return FileTypeSocket
	case mode&fs.ModeDevice != 0:
		if mode&fs.ModeCharDevice != 0 {
			return FileTypeCharDevice
		}
		return FileTypeBlockDevice
	default:
		return FileTypeRegular
	}
}

// UnknownID marks an owner or group that the accessor could not determine
const UnknownID = ^uint32(0)

// Metadata is what a non-following stat reports for one path
type Metadata struct {
	Type FileType

	// Mode keeps the permission, setuid, setgid and sticky bits
	Mode fs.FileMode

	UID   uint32
	GID   uint32
	Inode uint64
	Links uint64
	Size  int64

	// Blocks counts 512-byte units, as st_blocks does
	Blocks int64

	ModTime time.Time
}

// IsDir returns true if this is a directory
func (m Metadata) IsDir() bool {
	return m.Type == FileTypeDirectory
}

// Entry is one visited filesystem object
type Entry struct {
	// Path as built by the walker, never cleaned
	Path string

	Metadata Metadata
}
