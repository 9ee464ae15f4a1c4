package commands

import (
	"fmt"
	"io"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/names"
)

const nameUsage = `fabneg name - Parse or compose layered names

Usage:
  fabneg name parse NAME [-k N] [--prefix-only]
  fabneg name compose --prefix P [--prov PROV] BASE

parse splits NAME on '_' into N segments, the last running to the end of
the name unless --prefix-only is set. compose builds a domain name, or a
fabric name when --prov is given.
`

// RunName runs the name command.
func RunName(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, nameUsage)
		return ExitCommandError
	}

	switch args[0] {
	case "parse":
		return runNameParse(args[1:], stdout, stderr)
	case "compose":
		return runNameCompose(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, nameUsage)
		return ExitSuccess
	default:
		fmt.Fprintf(stderr, "Unknown name command: %s\n", args[0])
		fmt.Fprint(stderr, nameUsage)
		return ExitCommandError
	}
}

func runNameParse(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("name parse", stderr, nameUsage)
	k := fs.IntP("segments", "k", 1, "Number of segments to extract")
	prefixOnly := fs.Bool("prefix-only", false, "Cut the last segment at the next delimiter")

	if code, ok := parseFlags(fs, args, stderr); !ok {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: name required")
		return ExitCommandError
	}

	segs, err := parseName(fs.Arg(0), *k, *prefixOnly)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	for i, s := range segs {
		fmt.Fprintf(stdout, "%d: %s\n", i, s)
	}
	return ExitSuccess
}

func runNameCompose(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("name compose", stderr, nameUsage)
	prefix := fs.String("prefix", "", "Layer prefix (required)")
	prov := fs.String("prov", "", "Base provider name; composes a fabric name")

	if code, ok := parseFlags(fs, args, stderr); !ok {
		return code
	}
	if *prefix == "" || fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: --prefix and a base name are required")
		return ExitCommandError
	}

	name, err := composeName(*prefix, *prov, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	fmt.Fprintln(stdout, name)
	return ExitSuccess
}

func parseName(name string, k int, prefixOnly bool) ([]string, error) {
	toks, err := names.Parse(name, k, prefixOnly)
	if err != nil {
		return nil, err
	}
	defer toks.Release()
	return toks.Strings(), nil
}

func composeName(prefix, prov, base string) (string, error) {
	if prov != "" {
		return names.ComposeFabric(prefix, &fabric.FabricAttr{Name: base, ProvName: prov})
	}
	return names.ComposeDomain(prefix, &fabric.DomainAttr{Name: base})
}
