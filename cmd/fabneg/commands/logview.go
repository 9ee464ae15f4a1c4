package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/layerfab/layerfab-go/pkg/log"
)

const logUsage = `fabneg log - View a diagnostics file

Usage:
  fabneg log [flags] FILE

Diagnostics files are written by any command run with --diag-file.
`

// LogOptions configures the log command.
type LogOptions struct {
	NegotiationID string
	Level         string
	Subsystem     string
	Provider      string
	MismatchOnly  bool
	Stats         bool
}

// RunLog runs the log command.
func RunLog(args []string, stdout, stderr io.Writer) int {
	var opts LogOptions

	fs := newFlagSet("log", stderr, logUsage)
	fs.StringVar(&opts.NegotiationID, "negotiation", "", "Show only events of this negotiation ID")
	fs.StringVar(&opts.Level, "level", "", "Show events at or below this level (warn, trace, info, debug)")
	fs.StringVar(&opts.Subsystem, "subsystem", "", "Show only events of this subsystem")
	fs.StringVar(&opts.Provider, "provider", "", "Show only events about this provider")
	fs.BoolVar(&opts.MismatchOnly, "mismatch-only", false, "Show only attribute mismatches")
	fs.BoolVar(&opts.Stats, "stats", false, "Print counts instead of events")

	if code, ok := parseFlags(fs, args, stderr); !ok {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: diagnostics file required")
		fs.Usage()
		return ExitCommandError
	}

	filter, err := buildLogFilter(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}

	r, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	defer r.Close()

	var stats logStats
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitCommandError
		}
		if opts.Stats {
			stats.add(event)
			continue
		}
		formatEvent(stdout, event)
	}

	if opts.Stats {
		stats.print(stdout)
	}
	return ExitSuccess
}

func buildLogFilter(opts LogOptions) (log.Filter, error) {
	f := log.Filter{
		NegotiationID: opts.NegotiationID,
		Provider:      opts.Provider,
		MismatchOnly:  opts.MismatchOnly,
	}
	if opts.Level != "" {
		l, ok := log.ParseLevel(opts.Level)
		if !ok {
			return f, fmt.Errorf("unknown level %q", opts.Level)
		}
		f.MaxLevel = &l
	}
	if opts.Subsystem != "" {
		s, ok := log.ParseSubsystem(opts.Subsystem)
		if !ok {
			return f, fmt.Errorf("unknown subsystem %q", opts.Subsystem)
		}
		f.Subsystem = &s
	}
	return f, nil
}

// formatEvent writes one event as a header line plus mismatch detail.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [neg:%s] %-5s %-7s %s: %s\n",
		ts, shortID(event.NegotiationID), event.Level, event.Subsystem, providerLabel(event.Provider), event.Message)

	if m := event.Mismatch; m != nil {
		fmt.Fprintf(w, "  %s.%s supported=%s requested=%s\n", m.Group, m.Field, m.Supported, m.Requested)
	}
}

// shortID returns the first 8 characters of a negotiation ID.
func shortID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func providerLabel(p string) string {
	if p == "" {
		return "core"
	}
	return p
}

// logStats counts events by level and mismatches by field.
type logStats struct {
	total      int
	first      time.Time
	last       time.Time
	byLevel    map[log.Level]int
	byMismatch map[string]int
}

func (s *logStats) add(event log.Event) {
	if s.byLevel == nil {
		s.byLevel = make(map[log.Level]int)
		s.byMismatch = make(map[string]int)
	}
	if s.total == 0 || event.Timestamp.Before(s.first) {
		s.first = event.Timestamp
	}
	if event.Timestamp.After(s.last) {
		s.last = event.Timestamp
	}
	s.total++
	s.byLevel[event.Level]++
	if m := event.Mismatch; m != nil {
		s.byMismatch[m.Group+"."+m.Field]++
	}
}

func (s *logStats) print(w io.Writer) {
	fmt.Fprintf(w, "Events: %d\n", s.total)
	if s.total == 0 {
		return
	}
	fmt.Fprintf(w, "Span:   %s\n", s.last.Sub(s.first))

	fmt.Fprintln(w, "\nBy level:")
	for _, l := range []log.Level{log.LevelWarn, log.LevelTrace, log.LevelInfo, log.LevelDebug} {
		if n := s.byLevel[l]; n > 0 {
			fmt.Fprintf(w, "  %-5s %d\n", l, n)
		}
	}

	if len(s.byMismatch) == 0 {
		return
	}
	fields := make([]string, 0, len(s.byMismatch))
	for f := range s.byMismatch {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	fmt.Fprintln(w, "\nMismatches:")
	for _, f := range fields {
		fmt.Fprintf(w, "  %-28s %d\n", f, s.byMismatch[f])
	}
}
