// Package cli maps analysis errors to user-facing messages and exit codes.
package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/patchdeps/patchdeps/internal/errors"
)

// Exit codes surfaced to shells and hooks
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitBadDiff  = 4
)

// ExitCode selects the process exit code for an error
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return ExitFailure
	}
	switch e.Category {
	case errors.CategoryInvalidRange, errors.CategoryConfig:
		return ExitUsage
	case errors.CategoryCommitNotFound, errors.CategoryUnknownCommit:
		return ExitNotFound
	case errors.CategoryMalformedHunk:
		return ExitBadDiff
	default:
		return ExitFailure
	}
}

// UserMessage renders an error with a hint about what to do next
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return fmt.Sprintf("Error: %v", err)
	}
	switch e.Category {
	case errors.CategoryInvalidRange:
		return fmt.Sprintf("Error: %v\nUse a revision range such as HEAD~5..HEAD, or a single revision.", e)
	case errors.CategoryCommitNotFound:
		return fmt.Sprintf("Error: %v\nThe commit does not exist in this repository.", e)
	case errors.CategoryUnknownCommit:
		return fmt.Sprintf("Error: %v\nThe commit is not part of the analyzed range.", e)
	case errors.CategoryMalformedHunk:
		return fmt.Sprintf("Error: %v\nThe diff output could not be parsed; the analysis was aborted.", e)
	case errors.CategoryRepo:
		return fmt.Sprintf("Error: %v\nRun patchdeps inside a git repository or pass --repo.", e)
	case errors.CategoryConfig:
		return fmt.Sprintf("Error: %v", e)
	default:
		return fmt.Sprintf("Error: %v", e)
	}
}
