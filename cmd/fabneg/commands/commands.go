// Package commands implements the fabneg subcommands. Every command takes
// its arguments and output streams and returns a process exit code.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/log"
)

// Exit codes shared by all commands.
const (
	ExitSuccess      = 0
	ExitCommandError = 1
	ExitMismatch     = 2
)

// globals are the flags every command accepts.
type globals struct {
	logLevel   string
	diagFile   string
	profileDir string
}

func (g *globals) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.logLevel, "log-level", "warn", "Diagnostics shown on stderr: warn, trace, info, debug")
	fs.StringVar(&g.diagFile, "diag-file", "", "Append CBOR diagnostics to this file")
	fs.StringVar(&g.profileDir, "profile-dir", "", "Directory searched for provider profiles before the built-ins")
}

// openLogger builds the diagnostics sink described by the global flags.
// The returned close function must be called once the command is done.
func (g *globals) openLogger(stderr io.Writer) (log.Logger, func(), error) {
	level, ok := log.ParseLevel(g.logLevel)
	if !ok {
		return nil, nil, fmt.Errorf("unknown log level %q", g.logLevel)
	}

	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: log.SlogLevel(level)})
	console := log.NewSlogAdapter(slog.New(handler))

	if g.diagFile == "" {
		return console, func() {}, nil
	}

	file, err := log.NewFileLogger(g.diagFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening diagnostics file: %w", err)
	}
	closeFn := func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(stderr, "Warning: closing %s: %v\n", file.Path(), err)
		}
		if _, dropped := file.Counts(); dropped > 0 {
			fmt.Fprintf(stderr, "Warning: %d diagnostic events not written to %s\n", dropped, file.Path())
		}
	}
	return log.NewMultiLogger(console, file), closeFn, nil
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	return fs
}

// parseFlags parses args and reports whether the command should continue.
// Help requests end the command successfully.
func parseFlags(fs *pflag.FlagSet, args []string, stderr io.Writer) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitSuccess, false
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError, false
	}
	return ExitSuccess, true
}

// exitCode maps a negotiation error onto an exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, fabric.ErrMismatch):
		return ExitMismatch
	default:
		return ExitCommandError
	}
}

// reportFailure prints a mismatch as a result on stdout and any other error
// on stderr, and returns the matching exit code.
func reportFailure(stdout, stderr io.Writer, label string, err error) int {
	code := exitCode(err)
	if code == ExitMismatch {
		fmt.Fprintf(stdout, "%s: %v\n", label, err)
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return code
}
