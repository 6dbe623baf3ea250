package domain

import (
	"errors"
	"fmt"
)

// Accessor errors - 檔案中繼資料存取層錯誤
var (
	// ErrNotFound indicates the requested path does not exist
	ErrNotFound = errors.New("no such file or directory")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotDirectory indicates expected a directory but got something else
	ErrNotDirectory = errors.New("not a directory")

	// ErrDepthExceeded indicates a subtree is nested deeper than any valid path allows
	ErrDepthExceeded = errors.New("directory nesting too deep")
)

// Usage errors - 參數錯誤，一律終止整次執行
var (
	// ErrUsage is the common parent of every usage error
	ErrUsage = errors.New("usage error")

	// ErrMissingArgument indicates a predicate without its operand
	ErrMissingArgument = fmt.Errorf("%w: missing argument", ErrUsage)

	// ErrInvalidPredicate indicates an unknown token in the expression
	ErrInvalidPredicate = fmt.Errorf("%w: invalid predicate", ErrUsage)

	// ErrInvalidType indicates a bad -type operand
	ErrInvalidType = fmt.Errorf("%w: invalid type", ErrUsage)

	// ErrInvalidPattern indicates a glob that cannot be compiled
	ErrInvalidPattern = fmt.Errorf("%w: invalid pattern", ErrUsage)

	// ErrUnknownUser indicates a -user operand that is neither a known name nor a numeric id
	ErrUnknownUser = fmt.Errorf("%w: unknown user", ErrUsage)
)

// Config errors - 設定檔錯誤
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)

// UsageError carries the user-facing message of a fatal usage problem.
// Is() matches both the wrapped sentinel and ErrUsage.
type UsageError struct {
	Kind    error
	Message string
}

// NewUsageError creates a UsageError of the given kind
func NewUsageError(kind error, format string, args ...any) *UsageError {
	return &UsageError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *UsageError) Error() string {
	return e.Message
}

func (e *UsageError) Unwrap() error {
	return e.Kind
}

// IsUsageError reports whether err terminates the run as a usage error
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUsage)
}

// PathError records a per-entry failure. Kind is one of the accessor
// sentinels; Err keeps the operating system's own description.
type PathError struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *PathError) Error() string {
	reason := e.Kind.Error()
	if e.Err != nil {
		reason = e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("`%s': %s() failed: %s.", e.Path, e.Op, reason)
	}
	return fmt.Sprintf("`%s': %s", e.Path, reason)
}

func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
