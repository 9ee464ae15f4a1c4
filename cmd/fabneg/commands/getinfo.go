package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/layerfab/layerfab-go/pkg/check"
	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/layer"
	"github.com/layerfab/layerfab-go/pkg/log"
	"github.com/layerfab/layerfab-go/pkg/profile"
	"github.com/layerfab/layerfab-go/pkg/provider"
	"github.com/layerfab/layerfab-go/pkg/version"
	"github.com/layerfab/layerfab-go/pkg/wire"
)

const getinfoUsage = `fabneg getinfo - Negotiate an info through a provider stack

Usage:
  fabneg getinfo --base NAME [--layer NAME] [--return-base] [-o OUT.cbor] [HINTS.yaml]

The base profile is served as a static provider. With --layer, the request
goes through the named layered profile first. The negotiated info is printed
as YAML and, with -o, written as a CBOR record. Exits 2 on mismatch.
`

// GetInfoOptions configures a negotiation.
type GetInfoOptions struct {
	Layer         string
	Base          string
	ReturnBase    bool
	LegacyOpFlags bool
	APIVersion    string
	Node          string
	Service       string
	HintsFile     string
	Output        string
}

// negotiation is the outcome of one GetInfo call. release must be called
// exactly once.
type negotiation struct {
	record  *wire.Record
	release func()
}

// RunGetInfo runs the getinfo command.
func RunGetInfo(args []string, stdout, stderr io.Writer) int {
	var g globals
	var opts GetInfoOptions

	fs := newFlagSet("getinfo", stderr, getinfoUsage)
	g.register(fs)
	fs.StringVar(&opts.Base, "base", "", "Base provider profile (required)")
	fs.StringVar(&opts.Layer, "layer", "", "Layered provider profile stacked over the base")
	fs.BoolVar(&opts.ReturnBase, "return-base", false, "Return the base provider's info untranslated")
	fs.BoolVar(&opts.LegacyOpFlags, "legacy-op-flags", false, "Skip the rx/tx op_flags comparison")
	fs.StringVar(&opts.APIVersion, "api-version", version.Current, "API version of the request")
	fs.StringVar(&opts.Node, "node", "", "Target node passed to the base provider")
	fs.StringVar(&opts.Service, "service", "", "Target service passed to the base provider")
	fs.StringVarP(&opts.Output, "output", "o", "", "Write the negotiated info as a CBOR record")

	if code, ok := parseFlags(fs, args, stderr); !ok {
		return code
	}
	if opts.Base == "" {
		fmt.Fprintln(stderr, "Error: --base is required")
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

	var hints *fabric.Info
	if opts.HintsFile != "" {
		if hints, err = profile.LoadHints(opts.HintsFile); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitCommandError
		}
	}

	neg, err := negotiate(opts, g.profileDir, hints, logger)
	if err != nil {
		return reportFailure(stdout, stderr, "REJECTED", err)
	}
	defer neg.release()

	if err := printRecord(stdout, neg.record); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCommandError
	}

	if opts.Output != "" {
		if err := writeRecordFile(opts.Output, neg.record); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitCommandError
		}
	}
	return ExitSuccess
}

// negotiate builds the provider stack described by opts and runs one
// GetInfo call against it.
func negotiate(opts GetInfoOptions, profileDir string, hints *fabric.Info, logger log.Logger) (*negotiation, error) {
	checkOpts := check.Options{LegacyOpFlags: opts.LegacyOpFlags}

	req := layer.Request{
		Node:          opts.Node,
		Service:       opts.Service,
		ReturnBase:    opts.ReturnBase,
		NegotiationID: uuid.NewString(),
	}
	if opts.APIVersion != "" {
		v, err := version.Parse(opts.APIVersion)
		if err != nil {
			return nil, fmt.Errorf("api version: %w", err)
		}
		req.Version = v.Uint32()
	}

	base, err := staticProvider(opts.Base, profileDir, checkOpts, logger)
	if err != nil {
		return nil, err
	}
	if opts.Layer == "" {
		info, err := base.GetInfo(req, hints)
		if err != nil {
			return nil, err
		}
		rec := wire.NewRecord(base.Name(), info)
		rec.NegotiationID = req.NegotiationID
		return &negotiation{record: rec, release: func() { base.FreeInfo(info) }}, nil
	}

	l, err := layeredProvider(opts.Layer, profileDir, base, checkOpts, logger)
	if err != nil {
		return nil, err
	}
	info, err := l.GetInfo(req, hints)
	if err != nil {
		return nil, err
	}

	if opts.ReturnBase {
		rec := wire.NewRecord(base.Name(), info)
		rec.NegotiationID = req.NegotiationID
		return &negotiation{record: rec, release: func() { l.Base().FreeInfo(info) }}, nil
	}
	rec := wire.NewRecord(l.Name(), info)
	rec.Layered = true
	rec.NegotiationID = req.NegotiationID
	return &negotiation{record: rec, release: func() { l.FreeInfo(info) }}, nil
}

// staticProvider serves a non-layered profile.
func staticProvider(name, profileDir string, opts check.Options, logger log.Logger) (*provider.Static, error) {
	p, err := profile.Resolve(name, profileDir)
	if err != nil {
		return nil, err
	}
	if p.IsLayer() {
		return nil, fmt.Errorf("%s is a layered provider and cannot serve as a base", p.Provider)
	}
	ver, err := p.PackedVersion()
	if err != nil {
		return nil, err
	}
	infos, err := p.FabricInfos()
	if err != nil {
		return nil, err
	}
	return provider.NewStatic(provider.Config{
		Name:         p.Provider,
		Version:      ver,
		Infos:        infos,
		Logger:       logger,
		CheckOptions: opts,
	})
}

// layeredProvider stacks a layered profile over base. The layer presents
// its first declared info.
func layeredProvider(name, profileDir string, base layer.Provider, opts check.Options, logger log.Logger) (*layer.Layer, error) {
	p, err := profile.Resolve(name, profileDir)
	if err != nil {
		return nil, err
	}
	if !p.IsLayer() {
		return nil, fmt.Errorf("%s is not a layered provider", p.Provider)
	}
	ver, err := p.PackedVersion()
	if err != nil {
		return nil, err
	}
	infos, err := p.FabricInfos()
	if err != nil {
		return nil, err
	}
	tr, err := p.Translator()
	if err != nil {
		return nil, err
	}
	return layer.New(layer.Config{
		Name:         p.Provider,
		Version:      ver,
		Info:         infos[0],
		Base:         base,
		Translator:   tr,
		Logger:       logger,
		CheckOptions: opts,
	})
}

// printRecord renders a record as a commented YAML document.
func printRecord(w io.Writer, rec *wire.Record) error {
	data, err := profile.Marshal(rec.Info)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# provider: %s\n", rec.Provider)
	if rec.Layered {
		fmt.Fprintln(w, "# layered: true")
	}
	if rec.NegotiationID != "" {
		fmt.Fprintf(w, "# negotiation: %s\n", rec.NegotiationID)
	}
	_, err = w.Write(data)
	return err
}

// writeRecordFile writes rec to path, replacing any previous content.
func writeRecordFile(path string, rec *wire.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wire.WriteRecord(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
