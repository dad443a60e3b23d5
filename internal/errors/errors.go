package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/flashnote/internal/logger"
	"github.com/julianstephens/flashnote/internal/storage"
)

const (
	ExitFailure     = 1
	ExitInterrupted = 130
)

// Format formats an error message with a consistent "Error: " prefix and,
// where one is known, a hint on how to recover.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if hint := Hint(err); hint != "" {
		return fmt.Sprintf("Error: %v\n       %s", err, hint)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a short recovery suggestion for well-known errors.
func Hint(err error) string {
	switch {
	case stderrors.Is(err, storage.ErrNotInitialized):
		return "Run 'flashnote init' first."
	case stderrors.Is(err, storage.ErrEmbeddedCredentials):
		return "Store the connection string with 'flashnote keyring set' or export FLASHNOTE_DB_CONNECTION instead."
	default:
		return ""
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	return ExitFailure
}

// Fatal logs an error and exits the program
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(ExitFailure)
}
