//go:build !linux

package walker

// DefaultMaxDepth assumes the 1024-byte PATH_MAX of the BSDs and macOS
const DefaultMaxDepth = 1024 / 2
