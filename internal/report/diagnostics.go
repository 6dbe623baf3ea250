package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorMode selects when the diagnostics prefix is coloured
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid checks if the colour mode is a known value
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	}
	return false
}

// Diagnostics writes "<program>: <message>" lines to the error stream.
// It never touches the stream matched entries go to.
type Diagnostics struct {
	mu      sync.Mutex
	w       io.Writer
	program string
	prefix  *color.Color
	count   int
}

// NewDiagnostics creates a diagnostics writer for program on w
func NewDiagnostics(w io.Writer, program string, mode ColorMode) *Diagnostics {
	prefix := color.New(color.FgRed, color.Bold)
	if useColor(w, mode) {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}

	return &Diagnostics{
		w:       w,
		program: program,
		prefix:  prefix,
	}
}

// useColor decides colouring; auto colours only a terminal
func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Report writes err as one diagnostic line
func (d *Diagnostics) Report(err error) {
	d.Printf("%v", err)
}

// Printf writes one formatted diagnostic line
func (d *Diagnostics) Printf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.count++
	msg := fmt.Sprintf(format, args...)
	// nothing sensible left to do if stderr itself fails
	_, _ = fmt.Fprintf(d.w, "%s %s\n", d.prefix.Sprintf("%s:", d.program), msg)
}

// Count returns how many lines have been written
func (d *Diagnostics) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}
