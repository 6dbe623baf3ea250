package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Ning0612/myfind/internal/domain"
	"github.com/Ning0612/myfind/internal/identity"
)

// DefaultTimeFormat mirrors strftime "%b %e %H:%M"
const DefaultTimeFormat = "Jan _2 15:04"

// Sink receives the entries an expression decided to report
type Sink interface {
	// Plain writes the bare path
	Plain(path string) error

	// Listing writes a detailed ls-style line
	Listing(entry domain.Entry) error
}

// LinkReader resolves symlink targets for listing lines
type LinkReader interface {
	Readlink(ctx context.Context, path string) (string, error)
}

// WriterSink renders entries as text lines on a writer
type WriterSink struct {
	mu         sync.Mutex
	w          *bufio.Writer
	resolver   identity.Resolver
	links      LinkReader
	timeFormat string
	location   *time.Location
}

// Option configures a WriterSink
type Option func(*WriterSink)

// WithTimeFormat sets the Go layout used for modification times
func WithTimeFormat(layout string) Option {
	return func(s *WriterSink) {
		if layout != "" {
			s.timeFormat = layout
		}
	}
}

// WithLocation sets the zone modification times are shown in
func WithLocation(loc *time.Location) Option {
	return func(s *WriterSink) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLinkReader enables " -> target" suffixes for symbolic links
func WithLinkReader(links LinkReader) Option {
	return func(s *WriterSink) {
		s.links = links
	}
}

// NewWriterSink creates a sink writing to w. Output is buffered; call Flush.
func NewWriterSink(w io.Writer, resolver identity.Resolver, opts ...Option) *WriterSink {
	s := &WriterSink{
		w:          bufio.NewWriter(w),
		resolver:   resolver,
		timeFormat: DefaultTimeFormat,
		location:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plain writes the path followed by a newline
func (s *WriterSink) Plain(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintln(s.w, path)
	return err
}

// Listing writes one ls-style line for entry
func (s *WriterSink) Listing(entry domain.Entry) error {
	line := s.FormatListing(entry)

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintln(s.w, line)
	return err
}

// FormatListing renders the detail line without the trailing newline:
// inode, 1K blocks, mode, links, owner, group, size, mtime, path
func (s *WriterSink) FormatListing(entry domain.Entry) string {
	meta := entry.Metadata
	var b strings.Builder

	fmt.Fprintf(&b, "%6d", meta.Inode)
	fmt.Fprintf(&b, "%5d ", meta.Blocks/2)
	b.WriteString(ModeString(meta))
	b.WriteString("  ")
	fmt.Fprintf(&b, "%2d", meta.Links)

	if name, ok := s.resolver.LookupUserID(meta.UID); ok {
		fmt.Fprintf(&b, "%5s", name)
	} else {
		fmt.Fprintf(&b, "%7d", int64(int32(meta.UID)))
	}
	if group, ok := s.resolver.LookupGroupID(meta.GID); ok {
		fmt.Fprintf(&b, "%9s", group)
	} else {
		fmt.Fprintf(&b, "%9d", int64(int32(meta.GID)))
	}

	fmt.Fprintf(&b, "%13d ", meta.Size)
	b.WriteString(meta.ModTime.In(s.location).Format(s.timeFormat))
	b.WriteByte(' ')
	b.WriteString(entry.Path)

	if meta.Type == domain.FileTypeSymlink && s.links != nil {
		if target, err := s.links.Readlink(context.Background(), entry.Path); err == nil {
			b.WriteString(" -> ")
			b.WriteString(target)
		}
	}

	return b.String()
}

// Flush writes any buffered output
func (s *WriterSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Counter decorates a Sink and counts reported lines
type Counter struct {
	Sink Sink

	mu    sync.Mutex
	count int
}

// NewCounter wraps sink
func NewCounter(sink Sink) *Counter {
	return &Counter{Sink: sink}
}

// Plain forwards to the wrapped sink
func (c *Counter) Plain(path string) error {
	c.inc()
	return c.Sink.Plain(path)
}

// Listing forwards to the wrapped sink
func (c *Counter) Listing(entry domain.Entry) error {
	c.inc()
	return c.Sink.Listing(entry)
}

// Count returns how many lines were reported
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func (c *Counter) inc() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}
