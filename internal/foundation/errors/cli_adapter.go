package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// CLIErrorAdapter turns errors into exit codes, log records and a message for
// the terminal.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates an adapter that prints to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr}
}

// ExitCodeFor returns 0 for nil, the category's code for classified errors
// and 1 otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return classified.Category().ExitCode()
	}
	return 1
}

// FormatError renders err for the terminal. Errors the user can act on show
// the full diagnostic and hint; tool bugs are summarized unless verbose.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return "Error: " + err.Error()
	}
	if a.verbose {
		return classified.Error()
	}

	var b strings.Builder
	if classified.Category().Audience() == AudienceTool {
		b.WriteString("Internal error occurred (use -v for details)")
	} else {
		b.WriteString("Error: ")
		b.WriteString(classified.Summary())
	}
	if hint := classified.Hint(); hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(hint)
	}
	return b.String()
}

// Report logs and prints err and returns the exit code to use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	a.log(err)
	fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError reports err and exits with its code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Report(err))
}

// log records fatal and unclassified errors, and everything when verbose.
func (a *CLIErrorAdapter) log(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", slog.Any("error", err))
		return
	}
	if !a.verbose && !classified.IsFatal() {
		return
	}
	attrs := append([]slog.Attr{
		slog.String("category", string(classified.Category())),
		slog.String("audience", string(classified.Category().Audience())),
	}, classified.Context().Attrs()...)
	a.logger.LogAttrs(context.Background(), classified.Severity().Level(), classified.Message(), attrs...)
}
