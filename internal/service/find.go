package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Ning0612/myfind/internal/adapter"
	"github.com/Ning0612/myfind/internal/adapter/local"
	"github.com/Ning0612/myfind/internal/config"
	"github.com/Ning0612/myfind/internal/core/expr"
	"github.com/Ning0612/myfind/internal/core/walker"
	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/identity"
	"github.com/Ning0612/myfind/internal/logger"
	"github.com/Ning0612/myfind/internal/report"
	"github.com/Ning0612/myfind/internal/state"
)

// ProgramName prefixes every diagnostic line
const ProgramName = "myfind"

// HistoryStore persists finished runs
type HistoryStore interface {
	SaveRun(ctx context.Context, record state.RunRecord) (string, error)
	GetHistory(ctx context.Context, limit int) ([]state.RunRecord, error)
	Close() error
}

// Options overrides the collaborators of a FindService (tests use this)
type Options struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Accessor adapter.Accessor
	Resolver identity.Resolver
	History  HistoryStore
	Location *time.Location
}

// Summary describes one finished run
type Summary struct {
	RunID   string
	Visited int
	Matched int
	Errors  int
}

// FindService wires the expression, walker and sinks for one invocation
type FindService struct {
	config   *config.Config
	stdout   io.Writer
	diag     *report.Diagnostics
	accessor adapter.Accessor
	resolver identity.Resolver
	history  HistoryStore
	location *time.Location
}

// NewFindService creates a find service. When history is enabled in cfg and
// opts.History is nil, the sqlite history in cfg.HistoryDir() is opened; a
// history that cannot be opened is logged and disabled for this run.
func NewFindService(cfg *config.Config, opts Options) (*FindService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Accessor == nil {
		opts.Accessor = local.New()
	}
	if opts.Resolver == nil {
		opts.Resolver = identity.NewSystem()
	}

	s := &FindService{
		config:   cfg,
		stdout:   opts.Stdout,
		diag:     report.NewDiagnostics(opts.Stderr, ProgramName, report.ColorMode(cfg.Color)),
		accessor: opts.Accessor,
		resolver: opts.Resolver,
		history:  opts.History,
		location: opts.Location,
	}

	if s.history == nil && cfg.History.Enabled {
		m, err := state.NewManager(cfg.HistoryDir())
		if err != nil {
			logger.Get().Warn("run history disabled", "dir", cfg.HistoryDir(), "error", err)
		} else {
			s.history = m
		}
	}

	return s, nil
}

// Diagnostics returns the writer used for "myfind: ..." lines
func (s *FindService) Diagnostics() *report.Diagnostics {
	return s.diag
}

// Run parses args as a find expression and walks the tree it names.
// Every fatal error is written to the diagnostics stream before it is
// returned, so callers only map it to an exit status.
func (s *FindService) Run(ctx context.Context, args []string) (Summary, error) {
	var summary Summary
	started := time.Now()

	e, err := expr.Parse(args)
	if err != nil {
		s.diag.Report(err)
		s.record(ctx, strings.Join(args, " "), "", started, &summary, err)
		return summary, err
	}

	log := logger.With("start", e.Start)
	log.Debug("expression parsed", "expression", e.String(), "filters", e.HasFilters())

	opts := []report.Option{
		report.WithTimeFormat(s.config.Listing.TimeFormat),
		report.WithLinkReader(s.accessor),
	}
	if s.location != nil {
		opts = append(opts, report.WithLocation(s.location))
	}
	sink := report.NewWriterSink(s.stdout, s.resolver, opts...)
	counter := report.NewCounter(sink)

	w := walker.New(s.accessor, expr.NewProcessor(s.resolver, counter), s.diag)
	w.Logger = log

	res, err := w.Walk(ctx, e)
	summary.Visited = res.Visited
	summary.Errors = res.Errors
	summary.Matched = counter.Count()

	// entries reported before a fatal error still reach stdout
	if ferr := sink.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("writing output: %w", ferr)
	}

	if err != nil && !alreadyReported(err) {
		s.diag.Report(err)
	}

	log.Info("walk finished",
		"visited", summary.Visited,
		"matched", summary.Matched,
		"errors", summary.Errors,
		"elapsed", time.Since(started),
	)

	s.record(ctx, e.String(), e.Start, started, &summary, err)
	return summary, err
}

// History returns the most recent runs
func (s *FindService) History(ctx context.Context, limit int) ([]state.RunRecord, error) {
	if s.history == nil {
		return nil, fmt.Errorf("run history is disabled (set history.enabled)")
	}
	return s.history.GetHistory(ctx, limit)
}

// Close releases the history database
func (s *FindService) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// record stores the run in the history; failures only get logged
func (s *FindService) record(ctx context.Context, expression, start string, started time.Time, summary *Summary, runErr error) {
	if s.history == nil {
		return
	}

	rec := state.RunRecord{
		StartPath:  start,
		Expression: expression,
		StartTime:  started,
		EndTime:    time.Now(),
		Status:     state.StatusSuccess,
		Matched:    summary.Matched,
		Errors:     summary.Errors,
	}
	if runErr != nil {
		rec.Status = state.StatusFailed
		rec.Error = runErr.Error()
	}

	// 中斷時仍要寫入紀錄
	id, err := s.history.SaveRun(context.WithoutCancel(ctx), rec)
	if err != nil {
		logger.Get().Warn("failed to save run history", "error", err)
		return
	}
	summary.RunID = id
}

// alreadyReported is true for errors the walker has written to the
// diagnostics stream itself (an unusable start path)
func alreadyReported(err error) bool {
	var pe *domain.PathError
	return errors.As(err, &pe)
}

var _ io.Closer = (*FindService)(nil)
