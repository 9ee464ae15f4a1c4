package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/layerfab/layerfab-go/pkg/wire"
)

const showUsage = `fabneg show - Display CBOR info records

Usage:
  fabneg show [--format yaml|json] FILE.cbor
`

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("show", stderr, showUsage)
	format := fs.String("format", "yaml", "Output format: yaml, json")

	if code, ok := parseFlags(fs, args, stderr); !ok {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: record file required")
		fs.Usage()
		return ExitCommandError
	}
	if *format != "yaml" && *format != "json" {
		fmt.Fprintf(stderr, "Error: unknown format %q\n", *format)
		return ExitCommandError
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	defer f.Close()

	recs, err := wire.ReadRecords(f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}

	if *format == "json" {
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitCommandError
		}
		fmt.Fprintln(stdout, string(data))
		return ExitSuccess
	}

	for i, rec := range recs {
		if i > 0 {
			fmt.Fprintln(stdout, "---")
		}
		if err := printRecord(stdout, rec); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitCommandError
		}
	}
	return ExitSuccess
}
