package walker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/myfind/internal/adapter/local"
	"github.com/Ning0612/myfind/internal/core/expr"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/identity"
	"github.com/Ning0612/myfind/internal/report"
	"github.com/Ning0612/myfind/internal/testutil"
)

// fakeAccessor serves a fixed tree and injects failures
type fakeAccessor struct {
	meta     map[string]domain.Metadata
	children map[string][]string
	statErr  map[string]error
	listErr  map[string]error
}

func (f *fakeAccessor) Lstat(ctx context.Context, path string) (domain.Metadata, error) {
	if err := f.statErr[path]; err != nil {
		return domain.Metadata{}, err
	}
	m, ok := f.meta[path]
	if !ok {
		return domain.Metadata{}, &domain.PathError{Path: path, Kind: domain.ErrNotFound}
	}
	return m, nil
}

func (f *fakeAccessor) ReadDirNames(ctx context.Context, path string) ([]string, error) {
	return f.children[path], f.listErr[path]
}

func (f *fakeAccessor) Readlink(ctx context.Context, path string) (string, error) {
	return "", errors.New("no links here")
}

// collector records processed paths and reported errors
type collector struct {
	paths  []string
	errs   []error
	failOn string
}

func (c *collector) Process(e *expr.Expression, entry domain.Entry) error {
	c.paths = append(c.paths, entry.Path)
	if entry.Path == c.failOn {
		return domain.NewUsageError(domain.ErrUnknownUser, "`x' is not the name of a known user")
	}
	return nil
}

func (c *collector) Report(err error) {
	c.errs = append(c.errs, err)
}

var (
	dirMeta  = domain.Metadata{Type: domain.FileTypeDirectory, Mode: 0755}
	fileMeta = domain.Metadata{Type: domain.FileTypeRegular, Mode: 0644}
)

func mustParse(t *testing.T, args ...string) *expr.Expression {
	t.Helper()
	e, err := expr.Parse(args)
	require.NoError(t, err)
	return e
}

func TestWalk_PreOrderWithFakeTree(t *testing.T) {
	acc := &fakeAccessor{
		meta: map[string]domain.Metadata{
			"r":        dirMeta,
			"r/a":      dirMeta,
			"r/a/b":    dirMeta,
			"r/a/b/c":  fileMeta,
			"r/z":      fileMeta,
			"r/a/b2":   fileMeta,
			"r/a/b/c2": fileMeta,
		},
		children: map[string][]string{
			"r":     {"a", "z"},
			"r/a":   {"b", "b2"},
			"r/a/b": {"c", "c2"},
		},
	}
	c := &collector{}

	res, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "r"))
	require.NoError(t, err)

	assert.Equal(t, []string{"r", "r/a", "r/a/b", "r/a/b/c", "r/a/b/c2", "r/a/b2", "r/z"}, c.paths)
	assert.Equal(t, 7, res.Visited)
	assert.Equal(t, 0, res.Errors)
}

func TestWalk_StatFailureSkipsOnlyThatChild(t *testing.T) {
	acc := &fakeAccessor{
		meta: map[string]domain.Metadata{
			"r":   dirMeta,
			"r/a": fileMeta,
			"r/c": fileMeta,
		},
		children: map[string][]string{"r": {"a", "b", "c"}},
		statErr: map[string]error{
			"r/b": &domain.PathError{Path: "r/b", Kind: domain.ErrPermissionDenied},
		},
	}
	c := &collector{}

	res, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "r"))
	require.NoError(t, err)

	assert.Equal(t, []string{"r", "r/a", "r/c"}, c.paths)
	require.Len(t, c.errs, 1)
	assert.True(t, errors.Is(c.errs[0], domain.ErrPermissionDenied))
	assert.Equal(t, 1, res.Errors)
}

func TestWalk_UnreadableDirectoryIsSkipped(t *testing.T) {
	acc := &fakeAccessor{
		meta: map[string]domain.Metadata{
			"r":        dirMeta,
			"r/locked": dirMeta,
			"r/open":   dirMeta,
			"r/open/f": fileMeta,
		},
		children: map[string][]string{
			"r":      {"locked", "open"},
			"r/open": {"f"},
		},
		listErr: map[string]error{
			"r/locked": &domain.PathError{Path: "r/locked", Kind: domain.ErrPermissionDenied},
		},
	}
	c := &collector{}

	_, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "r"))
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "r/locked", "r/open", "r/open/f"}, c.paths)
	assert.Len(t, c.errs, 1)
}

func TestWalk_PartialEnumerationStillVisitsNames(t *testing.T) {
	acc := &fakeAccessor{
		meta: map[string]domain.Metadata{
			"r":   dirMeta,
			"r/a": fileMeta,
		},
		children: map[string][]string{"r": {"a"}},
		listErr: map[string]error{
			"r": &domain.PathError{Op: "readdir", Path: "r", Kind: errors.New("input/output error")},
		},
	}
	c := &collector{}

	_, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "r"))
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "r/a"}, c.paths)
	require.Len(t, c.errs, 1)
	assert.Equal(t, "`r': readdir() failed: input/output error.", c.errs[0].Error())
}

func TestWalk_FatalProcessorErrorAborts(t *testing.T) {
	acc := &fakeAccessor{
		meta: map[string]domain.Metadata{
			"r":   dirMeta,
			"r/a": fileMeta,
			"r/b": fileMeta,
		},
		children: map[string][]string{"r": {"a", "b"}},
	}
	c := &collector{failOn: "r/a"}

	_, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "r"))
	require.Error(t, err)
	assert.True(t, domain.IsUsageError(err))
	assert.Equal(t, []string{"r", "r/a"}, c.paths)
}

func TestWalk_DepthBound(t *testing.T) {
	acc := &fakeAccessor{
		meta:     map[string]domain.Metadata{"r": dirMeta},
		children: map[string][]string{},
	}
	// every directory contains another directory called "d"
	path := "r"
	for i := 0; i < 10; i++ {
		acc.children[path] = []string{"d"}
		path += "/d"
		acc.meta[path] = dirMeta
	}

	c := &collector{}
	w := New(acc, c, c)
	w.MaxDepth = 3

	res, err := w.Walk(context.Background(), mustParse(t, "r"))
	require.NoError(t, err)
	assert.Equal(t, []string{"r", "r/d", "r/d/d", "r/d/d/d"}, c.paths)
	require.Len(t, c.errs, 1)
	assert.True(t, errors.Is(c.errs[0], domain.ErrDepthExceeded))
	assert.Equal(t, 1, res.Errors)
}

func TestWalk_DefaultStartIsNotReported(t *testing.T) {
	acc := &fakeAccessor{
		meta:     map[string]domain.Metadata{".": dirMeta, "./a": fileMeta},
		children: map[string][]string{".": {"a"}},
	}
	c := &collector{}

	_, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "-print"))
	require.NoError(t, err)
	assert.Equal(t, []string{"./a"}, c.paths)
}

func TestWalk_MissingStartPath(t *testing.T) {
	acc := &fakeAccessor{meta: map[string]domain.Metadata{}}
	c := &collector{}

	_, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "nowhere"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Len(t, c.errs, 1)
	assert.Empty(t, c.paths)
}

func TestWalk_StartFileIsNotEnumerated(t *testing.T) {
	acc := &fakeAccessor{meta: map[string]domain.Metadata{"f": fileMeta}}
	c := &collector{}

	res, err := New(acc, c, c).Walk(context.Background(), mustParse(t, "f"))
	require.NoError(t, err)
	assert.Equal(t, []string{"f"}, c.paths)
	assert.Equal(t, 1, res.Visited)
}

func TestWalk_Cancelled(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	testutil.BuildTree(t, dir, "a/", "a/f")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &collector{}
	_, err := New(local.New(), c, c).Walk(ctx, mustParse(t, dir))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "./a", joinPath(".", "a"))
	assert.Equal(t, "dir/a", joinPath("dir/", "a"))
	assert.Equal(t, "/a", joinPath("/", "a"))
	assert.Equal(t, "x/y/a", joinPath("x/y", "a"))
}

// runFind walks dir on the real filesystem and returns stdout and stderr
func runFind(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	resolver := identity.NewSystem()
	sink := report.NewWriterSink(&out, resolver)
	diag := report.NewDiagnostics(&errOut, "myfind", report.ColorNever)

	w := New(local.New(), expr.NewProcessor(resolver, sink), diag)
	_, err := w.Walk(context.Background(), mustParse(t, args...))
	require.NoError(t, sink.Flush())
	return out.String(), errOut.String(), err
}

func TestWalk_RealTreeNestedPreOrder(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	testutil.BuildTree(t, dir, "l1/", "l1/l2/", "l1/l2/l3/", "l1/l2/l3/leaf", "l1/side", "top")

	out, errOut, err := runFind(t, dir)
	require.NoError(t, err)
	assert.Empty(t, errOut)

	lines := testutil.Lines(out)
	rel := make([]string, len(lines))
	pos := make(map[string]int)
	for i, l := range lines {
		rel[i] = strings.TrimPrefix(strings.TrimPrefix(l, dir), "/")
		pos[rel[i]] = i
	}

	assert.ElementsMatch(t, []string{"", "l1", "l1/l2", "l1/l2/l3", "l1/l2/l3/leaf", "l1/side", "top"}, rel)
	assert.Equal(t, 0, pos[""])
	for p, i := range pos {
		if p == "" {
			continue
		}
		parent := filepath.Dir(p)
		if parent == "." {
			parent = ""
		}
		assert.Less(t, pos[parent], i, "%s listed before its parent", p)
	}
}

func TestWalk_RealTreeTypeFilter(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()
	testutil.BuildTree(t, dir, "sub/", "sub/a.txt", "b.txt")
	require.NoError(t, os.Symlink("sub", filepath.Join(dir, "link")))

	out, _, err := runFind(t, dir, "-type", "d")
	require.NoError(t, err)
	assert.Equal(t, []string{dir, dir + "/sub"}, testutil.SortedLines(out))

	out, _, err = runFind(t, dir, "-type", "l")
	require.NoError(t, err)
	assert.Equal(t, []string{dir + "/link"}, testutil.Lines(out), "symlinks are reported, not followed")

	out, _, err = runFind(t, dir, "-name", "*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{dir + "/b.txt", dir + "/sub/a.txt"}, testutil.SortedLines(out))
}
