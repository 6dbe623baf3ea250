package adapter

import (
	"context"

	"github.com/Ning0612/myfind/internal/domain"
)

// Accessor defines how the walker obtains filesystem metadata.
// Implementations return *domain.PathError wrapping domain-level errors
// so callers can contain failures per entry.
type Accessor interface {
	// Lstat returns metadata for path without following a terminal symlink
	// Returns domain.ErrNotFound if path doesn't exist
	Lstat(ctx context.Context, path string) (domain.Metadata, error)

	// ReadDirNames returns the names of the entries in a directory
	// in the order the filesystem yields them, excluding "." and ".."
	// On a partial failure the names read so far are returned with the error
	ReadDirNames(ctx context.Context, path string) ([]string, error)

	// Readlink returns the target of a symbolic link
	Readlink(ctx context.Context, path string) (string, error)
}
