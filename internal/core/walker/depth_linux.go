//go:build linux

package walker

import "golang.org/x/sys/unix"

// DefaultMaxDepth is the deepest nesting a valid path can reach: every
// level adds at least a one-character name and a separator
const DefaultMaxDepth = unix.PathMax / 2
