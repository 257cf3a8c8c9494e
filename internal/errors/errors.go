package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Category classifies an error against the analysis failure taxonomy.
type Category int

const (
	// CategoryMalformedHunk - structural violation of the unified-diff format.
	// Fatal for the whole run: ledger state downstream of a bad hunk is unreliable.
	CategoryMalformedHunk Category = iota
	// CategoryInvalidRange - the range expression could not be resolved
	CategoryInvalidRange
	// CategoryCommitNotFound - a commit identifier is not present in the repository
	CategoryCommitNotFound
	// CategoryUnknownCommit - a graph query referenced a commit outside the analyzed range
	CategoryUnknownCommit
	// CategoryUnknownFile - a hunk referenced a file with no known provenance (non-fatal)
	CategoryUnknownFile
	// CategoryRepo - repository access failures
	CategoryRepo
	// CategoryConfig - missing or invalid configuration
	CategoryConfig
	// CategoryInternal - unexpected internal state
	CategoryInternal
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - expected condition, analysis continues
	SeverityLow Severity = iota
	// SeverityMedium - should be surfaced but not fatal
	SeverityMedium
	// SeverityCritical - aborts the run, no partial-result recovery
	SeverityCritical
)

// Error is a structured error with category, severity and context
type Error struct {
	Category Category
	Severity Severity
	Message  string
	Cause    error
	Context  map[string]any
	Stack    string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Is matches errors by category
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Category == t.Category
}

// IsFatal reports whether this error should abort the run
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// DetailedString renders the error with context and stack for diagnostics
func (e *Error) DetailedString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s\n", categoryString(e.Category), e.Message))
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %v\n", e.Cause))
	}
	if len(e.Context) > 0 {
		sb.WriteString("Context:\n")
		for k, v := range e.Context {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
		}
	}
	if e.Stack != "" {
		sb.WriteString(fmt.Sprintf("Stack trace:\n%s", e.Stack))
	}
	return sb.String()
}

func categoryString(c Category) string {
	switch c {
	case CategoryMalformedHunk:
		return "MALFORMED_HUNK"
	case CategoryInvalidRange:
		return "INVALID_RANGE"
	case CategoryCommitNotFound:
		return "COMMIT_NOT_FOUND"
	case CategoryUnknownCommit:
		return "UNKNOWN_COMMIT"
	case CategoryUnknownFile:
		return "UNKNOWN_FILE"
	case CategoryRepo:
		return "REPO"
	case CategoryConfig:
		return "CONFIG"
	case CategoryInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

func captureStack(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		sb.WriteString(fmt.Sprintf("  %s:%d %s\n", file, line, fn.Name()))
	}
	return sb.String()
}

// New creates an error with the given category, severity and message
func New(category Category, severity Severity, message string) *Error {
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
		Stack:    captureStack(2),
	}
}

// Wrap wraps an existing error with a category and severity
func Wrap(err error, category Category, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
		Stack:    captureStack(2),
	}
}

// Constructors for the taxonomy

// MalformedHunkf creates a fatal diff-format error
func MalformedHunkf(format string, args ...any) *Error {
	return New(CategoryMalformedHunk, SeverityCritical, fmt.Sprintf(format, args...))
}

// InvalidRangef creates a fatal range-resolution error
func InvalidRangef(format string, args ...any) *Error {
	return New(CategoryInvalidRange, SeverityCritical, fmt.Sprintf(format, args...))
}

// CommitNotFound wraps a commit-lookup failure
func CommitNotFound(err error, commit string) *Error {
	e := Wrap(err, CategoryCommitNotFound, SeverityCritical, fmt.Sprintf("commit not found: %s", commit))
	if e == nil {
		e = New(CategoryCommitNotFound, SeverityCritical, fmt.Sprintf("commit not found: %s", commit))
	}
	return e.WithContext("commit", commit)
}

// UnknownCommitf creates a graph-query error for an out-of-range commit
func UnknownCommitf(format string, args ...any) *Error {
	return New(CategoryUnknownCommit, SeverityCritical, fmt.Sprintf(format, args...))
}

// UnknownFilef creates a non-fatal unknown-provenance diagnostic
func UnknownFilef(format string, args ...any) *Error {
	return New(CategoryUnknownFile, SeverityLow, fmt.Sprintf(format, args...))
}

// RepoError wraps a repository access failure
func RepoError(err error, message string) *Error {
	return Wrap(err, CategoryRepo, SeverityCritical, message)
}

// ConfigErrorf creates a configuration error
func ConfigErrorf(format string, args ...any) *Error {
	return New(CategoryConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// Internalf creates an internal error
func Internalf(format string, args ...any) *Error {
	return New(CategoryInternal, SeverityCritical, fmt.Sprintf(format, args...))
}

// Category predicates

func is(err error, c Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == c
	}
	return false
}

// IsMalformedHunk reports whether err is a diff-format violation
func IsMalformedHunk(err error) bool { return is(err, CategoryMalformedHunk) }

// IsInvalidRange reports whether err is a range-resolution failure
func IsInvalidRange(err error) bool { return is(err, CategoryInvalidRange) }

// IsCommitNotFound reports whether err is a missing-commit failure
func IsCommitNotFound(err error) bool { return is(err, CategoryCommitNotFound) }

// IsUnknownCommit reports whether err is an out-of-range graph query
func IsUnknownCommit(err error) bool { return is(err, CategoryUnknownCommit) }

// IsFatal checks if an error should stop the run
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.IsFatal()
	}
	return false
}
