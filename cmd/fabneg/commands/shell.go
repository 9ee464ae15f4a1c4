package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/log"
	"github.com/layerfab/layerfab-go/pkg/profile"
)

const shellUsage = `fabneg shell - Interactive negotiation shell

Usage:
  fabneg shell [--profile-dir DIR] [--log-level LEVEL] [--diag-file FILE]
`

const shellHelp = `
Negotiation:
  use <base> [layer]       - Select the provider stack
  hints <file>|clear|show  - Load, drop or print the current hints
  set <option> on|off      - Toggle legacy-op-flags or return-base
  getinfo                  - Negotiate through the current stack
  check <provider> [layered] - Check the current hints against one profile

Names:
  parse <name> <k> [prefix] - Split a name into k segments
  compose <prefix> [prov] <base> - Compose a domain (or fabric) name

General:
  providers                - List built-in profiles
  status                   - Show the current stack and options
  help                     - Show this help
  quit                     - Exit`

// Shell holds the state of an interactive session.
type Shell struct {
	out        io.Writer
	profileDir string
	logger     log.Logger

	base       string
	layer      string
	hints      *fabric.Info
	legacy     bool
	returnBase bool
}

// NewShell creates a shell writing to out.
func NewShell(out io.Writer, profileDir string, logger log.Logger) *Shell {
	return &Shell{out: out, profileDir: profileDir, logger: logger}
}

// RunShell runs the shell command.
func RunShell(args []string, stdout, stderr io.Writer) int {
	var g globals

	fs := newFlagSet("shell", stderr, shellUsage)
	g.register(fs)
	if code, ok := parseFlags(fs, args, stderr); !ok {
		return code
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "fabneg> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    shellCompleter(),
		Stdout:          stdout,
		Stderr:          stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create readline: %v\n", err)
		return ExitCommandError
	}
	defer rl.Close()

	// Diagnostics go through readline so they do not garble the prompt.
	logger, closeLogger, err := g.openLogger(rl.Stderr())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}
	defer closeLogger()

	NewShell(rl.Stdout(), g.profileDir, logger).Run(rl)
	return ExitSuccess
}

func shellCompleter() *readline.PrefixCompleter {
	profiles := func(string) []string {
		names, _ := profile.Available()
		return names
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("use", readline.PcItemDynamic(profiles, readline.PcItemDynamic(profiles))),
		readline.PcItem("hints", readline.PcItem("clear"), readline.PcItem("show")),
		readline.PcItem("set",
			readline.PcItem("legacy-op-flags", readline.PcItem("on"), readline.PcItem("off")),
			readline.PcItem("return-base", readline.PcItem("on"), readline.PcItem("off")),
		),
		readline.PcItem("getinfo"),
		readline.PcItem("check", readline.PcItemDynamic(profiles, readline.PcItem("layered"))),
		readline.PcItem("parse"),
		readline.PcItem("compose"),
		readline.PcItem("providers"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Run reads commands until EOF or quit.
func (s *Shell) Run(rl *readline.Instance) {
	fmt.Fprintln(s.out, shellHelp)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}
		if !s.Exec(line) {
			return
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "use":
		s.cmdUse(args)
	case "hints":
		s.cmdHints(args)
	case "set":
		s.cmdSet(args)
	case "getinfo", "gi":
		s.cmdGetInfo()
	case "check":
		s.cmdCheck(args)
	case "parse":
		s.cmdParse(args)
	case "compose":
		s.cmdCompose(args)
	case "providers":
		s.cmdProviders()
	case "status":
		s.cmdStatus()
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) cmdUse(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(s.out, "Usage: use <base> [layer]")
		return
	}
	s.base = args[0]
	s.layer = ""
	if len(args) == 2 {
		s.layer = args[1]
	}
	s.cmdStatus()
}

func (s *Shell) cmdHints(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: hints <file>|clear|show")
		return
	}
	switch args[0] {
	case "clear":
		s.hints = nil
		fmt.Fprintln(s.out, "Hints cleared")
	case "show":
		if s.hints == nil {
			fmt.Fprintln(s.out, "No hints")
			return
		}
		data, err := profile.Marshal(s.hints)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		s.out.Write(data)
	default:
		hints, err := profile.LoadHints(args[0])
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		s.hints = hints
		fmt.Fprintf(s.out, "Hints loaded from %s\n", args[0])
	}
}

func (s *Shell) cmdSet(args []string) {
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		fmt.Fprintln(s.out, "Usage: set legacy-op-flags|return-base on|off")
		return
	}
	on := args[1] == "on"
	switch args[0] {
	case "legacy-op-flags":
		s.legacy = on
	case "return-base":
		s.returnBase = on
	default:
		fmt.Fprintf(s.out, "Unknown option: %s\n", args[0])
		return
	}
	fmt.Fprintf(s.out, "%s = %s\n", args[0], args[1])
}

func (s *Shell) cmdGetInfo() {
	if s.base == "" {
		fmt.Fprintln(s.out, "No provider stack selected (use <base> [layer])")
		return
	}
	opts := GetInfoOptions{
		Base:          s.base,
		Layer:         s.layer,
		ReturnBase:    s.returnBase,
		LegacyOpFlags: s.legacy,
	}
	neg, err := negotiate(opts, s.profileDir, s.hints, s.logger)
	if err != nil {
		fmt.Fprintf(s.out, "REJECTED: %v\n", err)
		return
	}
	defer neg.release()

	if err := printRecord(s.out, neg.record); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) cmdCheck(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: check <provider> [layered]")
		return
	}
	p, err := profile.Resolve(args[0], s.profileDir)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	opts := CheckOptions{
		Provider:      args[0],
		Layered:       len(args) > 1 && args[1] == "layered",
		LegacyOpFlags: s.legacy,
	}
	idx, err := checkProfile(p, s.hints, opts, s.logger)
	if err != nil {
		fmt.Fprintf(s.out, "REJECTED by %s: %v\n", p.Provider, err)
		return
	}
	fmt.Fprintf(s.out, "ACCEPTED by %s info %d\n", p.Provider, idx)
}

func (s *Shell) cmdParse(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: parse <name> <k> [prefix]")
		return
	}
	k, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Invalid segment count: %s\n", args[1])
		return
	}
	segs, err := parseName(args[0], k, len(args) > 2 && args[2] == "prefix")
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	for i, seg := range segs {
		fmt.Fprintf(s.out, "%d: %s\n", i, seg)
	}
}

func (s *Shell) cmdCompose(args []string) {
	var prefix, prov, base string
	switch len(args) {
	case 2:
		prefix, base = args[0], args[1]
	case 3:
		prefix, prov, base = args[0], args[1], args[2]
	default:
		fmt.Fprintln(s.out, "Usage: compose <prefix> [prov] <base>")
		return
	}
	name, err := composeName(prefix, prov, base)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, name)
}

func (s *Shell) cmdProviders() {
	names, err := profile.Available()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	for _, name := range names {
		p, err := profile.Load(name)
		if err != nil {
			fmt.Fprintf(s.out, "  %-8s (error: %v)\n", name, err)
			continue
		}
		kind := "core"
		if p.IsLayer() {
			kind = "layer"
		}
		fmt.Fprintf(s.out, "  %-8s %-5s %s\n", name, kind, p.Description)
	}
}

func (s *Shell) cmdStatus() {
	stack := "(none)"
	switch {
	case s.base != "" && s.layer != "":
		stack = s.layer + " over " + s.base
	case s.base != "":
		stack = s.base
	}
	fmt.Fprintf(s.out, "Stack:           %s\n", stack)
	fmt.Fprintf(s.out, "Hints:           %t\n", s.hints != nil)
	fmt.Fprintf(s.out, "legacy-op-flags: %t\n", s.legacy)
	fmt.Fprintf(s.out, "return-base:     %t\n", s.returnBase)
}
