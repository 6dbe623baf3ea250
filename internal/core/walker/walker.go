// Package walker visits a directory tree in pre-order and hands every entry
// to the expression processor. Failures on one entry or one subtree are
// reported and skipped; only fatal processor errors end the walk.
package walker

import (
	"context"
	"errors"
	"strings"

	"github.com/Ning0612/myfind/internal/adapter"
	"github.com/Ning0612/myfind/internal/core/expr"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/logger"
)

// EntryProcessor evaluates one entry; an error aborts the walk
type EntryProcessor interface {
	Process(e *expr.Expression, entry domain.Entry) error
}

// ErrorReporter receives contained per-entry errors
type ErrorReporter interface {
	Report(err error)
}

// Result summarises a finished walk
type Result struct {
	Visited int
	Errors  int
}

// Walker drives the traversal
type Walker struct {
	Accessor  adapter.Accessor
	Processor EntryProcessor
	Errors    ErrorReporter
	Logger    logger.Logger

	// MaxDepth bounds recursion below the start path
	MaxDepth int
}

// New creates a walker with the platform depth bound
func New(accessor adapter.Accessor, processor EntryProcessor, errs ErrorReporter) *Walker {
	return &Walker{
		Accessor:  accessor,
		Processor: processor,
		Errors:    errs,
		Logger:    logger.Get(),
		MaxDepth:  DefaultMaxDepth,
	}
}

// Walk processes the start path of e and, if it is a directory, everything
// below it. A start path that cannot be stat'ed is returned as an error
// after being reported.
func (w *Walker) Walk(ctx context.Context, e *expr.Expression) (Result, error) {
	var res Result

	if !e.StartGiven {
		// the implicit "." is enumerated but never reported itself
		err := w.walkDir(ctx, e, e.Start, 0, &res)
		return res, err
	}

	meta, err := w.Accessor.Lstat(ctx, e.Start)
	if err != nil {
		if isFatal(err) {
			return res, err
		}
		w.report(err, &res)
		return res, err
	}

	res.Visited++
	if err := w.Processor.Process(e, domain.Entry{Path: e.Start, Metadata: meta}); err != nil {
		return res, err
	}

	if meta.IsDir() {
		err = w.walkDir(ctx, e, e.Start, 0, &res)
	}
	return res, err
}

// walkDir enumerates dir and processes each child before descending into it
func (w *Walker) walkDir(ctx context.Context, e *expr.Expression, dir string, depth int, res *Result) error {
	if depth >= w.MaxDepth {
		w.report(&domain.PathError{Path: dir, Kind: domain.ErrDepthExceeded}, res)
		return nil
	}

	w.log().Debug("entering directory", "path", dir, "depth", depth)

	names, err := w.Accessor.ReadDirNames(ctx, dir)
	if err != nil {
		if isFatal(err) {
			return err
		}
		// names read before a readdir failure are still visited
		w.report(err, res)
	}

	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}

		child := joinPath(dir, name)
		meta, err := w.Accessor.Lstat(ctx, child)
		if err != nil {
			if isFatal(err) {
				return err
			}
			w.report(err, res)
			continue
		}

		res.Visited++
		if err := w.Processor.Process(e, domain.Entry{Path: child, Metadata: meta}); err != nil {
			return err
		}

		if meta.IsDir() {
			if err := w.walkDir(ctx, e, child, depth+1, res); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *Walker) report(err error, res *Result) {
	res.Errors++
	w.log().Debug("skipping entry", "error", err)
	if w.Errors != nil {
		w.Errors.Report(err)
	}
}

func (w *Walker) log() logger.Logger {
	if w.Logger == nil {
		return &logger.NullLogger{}
	}
	return w.Logger
}

// isFatal separates cancellation from contained I/O failures
func isFatal(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// joinPath appends name to dir without cleaning, so "./x" stays "./x"
func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
