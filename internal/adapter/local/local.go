package local

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/afero"

	"github.com/Ning0612/myfind/internal/domain"
)

// Adapter implements the adapter.Accessor interface for the local filesystem
type Adapter struct {
	fs afero.Fs
}

// New creates a local adapter over the operating system filesystem
func New() *Adapter {
	return &Adapter{fs: afero.NewOsFs()}
}

// NewWithFs creates an adapter over any afero filesystem.
// Filesystems without Lstat support fall back to Stat; metadata
// they cannot supply (owner, inode, links) is reported as unknown.
func NewWithFs(fsys afero.Fs) *Adapter {
	return &Adapter{fs: fsys}
}

// Lstat returns metadata for a single path without following symlinks
func (a *Adapter) Lstat(ctx context.Context, path string) (domain.Metadata, error) {
	if err := ctx.Err(); err != nil {
		return domain.Metadata{}, err
	}

	var (
		info os.FileInfo
		err  error
	)
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err = lstater.LstatIfPossible(path)
	} else {
		info, err = a.fs.Stat(path)
	}
	if err != nil {
		return domain.Metadata{}, a.mapError("", path, err)
	}

	return metadataFromOS(info), nil
}

// ReadDirNames lists a directory in the order the filesystem returns it
func (a *Adapter) ReadDirNames(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := a.fs.Open(path)
	if err != nil {
		return nil, a.mapError("", path, err)
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	result := make([]string, 0, len(names))
	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		result = append(result, name)
	}
	if err != nil {
		return result, a.mapError("readdir", path, err)
	}

	return result, nil
}

// Readlink returns the target of a symbolic link
func (a *Adapter) Readlink(ctx context.Context, path string) (string, error) {
	reader, ok := a.fs.(afero.LinkReader)
	if !ok {
		return "", &domain.PathError{Op: "readlink", Path: path, Kind: afero.ErrNoReadlink}
	}
	target, err := reader.ReadlinkIfPossible(path)
	if err != nil {
		return "", a.mapError("readlink", path, err)
	}
	return target, nil
}

// metadataFromOS converts os.FileInfo to domain.Metadata
func metadataFromOS(info os.FileInfo) domain.Metadata {
	mode := info.Mode()
	meta := domain.Metadata{
		Type:    domain.FileTypeFromMode(mode),
		Mode:    mode & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky),
		UID:     domain.UnknownID,
		GID:     domain.UnknownID,
		Links:   1,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}

	if st, ok := sysStat(info); ok {
		meta.UID = st.uid
		meta.GID = st.gid
		meta.Inode = st.inode
		meta.Links = st.links
		meta.Blocks = st.blocks
	}

	return meta
}

// mapError converts OS errors to domain errors, keeping the OS reason text
func (a *Adapter) mapError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// Unwrap *fs.PathError so the message reads like strerror
	cause := err
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		cause = pathErr.Err
	}

	kind := err
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = domain.ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = domain.ErrPermissionDenied
	case isNotDirectory(err):
		kind = domain.ErrNotDirectory
	}

	return &domain.PathError{Op: op, Path: path, Kind: kind, Err: cause}
}
