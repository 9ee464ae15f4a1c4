// Command fabneg negotiates fabric attributes against provider profiles.
//
// Usage:
//
//	fabneg <command> [flags] [args]
//
// Commands:
//
//	check    Check hints against a provider profile
//	getinfo  Negotiate an info through a (layered) provider stack
//	name     Parse or compose layered names
//	show     Display CBOR info records
//	log      View a diagnostics file
//	shell    Interactive negotiation shell
//
// Examples:
//
//	# Check hints against the tcp profile
//	fabneg check --provider tcp hints.yaml
//
//	# Negotiate through rxm layered over verbs and save the result
//	fabneg getinfo --layer rxm --base verbs -o rxm.cbor hints.yaml
//
//	# Split a layered fabric name
//	fabneg name parse -k 3 rxm_verbs_IB-1234
//
//	# Show mismatches recorded during a negotiation
//	fabneg log --mismatch-only diag.cbor
package main

import (
	"fmt"
	"os"

	"github.com/layerfab/layerfab-go/cmd/fabneg/commands"
	"github.com/layerfab/layerfab-go/pkg/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(commands.ExitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "check":
		exitCode = commands.RunCheck(args, os.Stdout, os.Stderr)
	case "getinfo":
		exitCode = commands.RunGetInfo(args, os.Stdout, os.Stderr)
	case "name":
		exitCode = commands.RunName(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "log":
		exitCode = commands.RunLog(args, os.Stdout, os.Stderr)
	case "shell":
		exitCode = commands.RunShell(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = commands.ExitSuccess
	case "version", "-v", "--version":
		fmt.Printf("fabneg (API %s)\n", version.Current)
		exitCode = commands.ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = commands.ExitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`fabneg - fabric attribute negotiation tool

Usage:
  fabneg <command> [flags] [args]

Commands:
  check      Check hints against a provider profile
  getinfo    Negotiate an info through a (layered) provider stack
  name       Parse or compose layered names
  show       Display CBOR info records
  log        View a diagnostics file
  shell      Interactive negotiation shell

Global flags (check, getinfo, shell):
  --log-level LEVEL   Diagnostics shown on stderr (warn, trace, info, debug)
  --diag-file FILE    Append CBOR diagnostics to FILE
  --profile-dir DIR   Search DIR for provider profiles before the built-ins

Exit codes:
  0  success
  1  command error
  2  attributes not supported

For command-specific help, run:
  fabneg <command> --help`)
}
