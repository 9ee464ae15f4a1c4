package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/layerfab/layerfab-go/pkg/check"
	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/log"
	"github.com/layerfab/layerfab-go/pkg/profile"
)

const checkUsage = `fabneg check - Check hints against a provider profile

Usage:
  fabneg check --provider NAME [--layered] [--legacy-op-flags] HINTS.yaml

The hints are accepted when at least one declared info of the provider
accepts them. Exits 2 when none does.
`

// errNoInfoAccepted is returned when a profile declares no info at all.
var errNoInfoAccepted = errors.New("no declared info accepted the hints")

// CheckOptions configures the check command.
type CheckOptions struct {
	Provider      string
	Layered       bool
	LegacyOpFlags bool
	HintsFile     string
}

// RunCheck runs the check command.
func RunCheck(args []string, stdout, stderr io.Writer) int {
	var g globals
	var opts CheckOptions

	fs := newFlagSet("check", stderr, checkUsage)
	g.register(fs)
	fs.StringVarP(&opts.Provider, "provider", "p", "", "Provider profile to check against (required)")
	fs.BoolVar(&opts.Layered, "layered", false, "Match names in layered mode (prefix only)")
	fs.BoolVar(&opts.LegacyOpFlags, "legacy-op-flags", false, "Skip the rx/tx op_flags comparison")

	if code, ok := parseFlags(fs, args, stderr); !ok {
		return code
	}
	if opts.Provider == "" {
		fmt.Fprintln(stderr, "Error: --provider is required")
		fs.Usage()
		return ExitCommandError
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: hints file required")
		fs.Usage()
		return ExitCommandError
	}
	opts.HintsFile = fs.Arg(0)

	logger, closeLogger, err := g.openLogger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	defer closeLogger()

	p, err := profile.Resolve(opts.Provider, g.profileDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	hints, err := profile.LoadHints(opts.HintsFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}

	idx, err := checkProfile(p, hints, opts, logger)
	if err != nil {
		return reportFailure(stdout, stderr, "REJECTED by "+p.Provider, err)
	}
	fmt.Fprintf(stdout, "ACCEPTED by %s info %d\n", p.Provider, idx)
	return ExitSuccess
}

// checkProfile returns the index of the first declared info of p that
// accepts hints, or the mismatch of the last one tried.
func checkProfile(p *profile.Profile, hints *fabric.Info, opts CheckOptions, logger log.Logger) (int, error) {
	infos, err := p.FabricInfos()
	if err != nil {
		return -1, err
	}

	mode := check.Default
	if opts.Layered {
		mode = check.Layered
	}
	c := check.Checker{
		Provider:      p.Provider,
		Logger:        logger,
		NegotiationID: uuid.NewString(),
		Options:       check.Options{LegacyOpFlags: opts.LegacyOpFlags},
	}

	lastErr := errNoInfoAccepted
	for i, info := range infos {
		if err := c.Info(info, hints, mode); err != nil {
			lastErr = err
			continue
		}
		return i, nil
	}
	return -1, lastErr
}
