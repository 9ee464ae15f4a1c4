// Package provider contains an in-memory base provider that serves a fixed
// set of declared attribute records.
package provider

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/layerfab/layerfab-go/pkg/alter"
	"github.com/layerfab/layerfab-go/pkg/check"
	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/layer"
	"github.com/layerfab/layerfab-go/pkg/log"
	"github.com/layerfab/layerfab-go/pkg/version"
)

// Configuration errors.
var (
	ErrNoName  = errors.New("provider name is required")
	ErrNoInfos = errors.New("provider declares no infos")
)

// Config describes a static provider.
type Config struct {
	// Name is the provider name, matched against hint fabric prov_name.
	Name string

	// Version is the packed provider version stamped into every record.
	Version uint32

	// Infos are the declared records, tried in order.
	Infos []*fabric.Info

	// Logger receives diagnostics. Nil discards.
	Logger log.Logger

	// CheckOptions tunes the checker.
	CheckOptions check.Options
}

// Static answers GetInfo from declared records: the first record that
// accepts the hints is copied and altered by them.
type Static struct {
	name   string
	ver    uint32
	infos  []*fabric.Info
	logger log.Logger
	opts   check.Options

	outstanding atomic.Int64
}

// NewStatic validates cfg and returns a Static provider. Declared records
// are copied and stamped with the provider name and version.
func NewStatic(cfg Config) (*Static, error) {
	if cfg.Name == "" {
		return nil, ErrNoName
	}
	if len(cfg.Infos) == 0 {
		return nil, ErrNoInfos
	}

	infos := make([]*fabric.Info, 0, len(cfg.Infos))
	for i, in := range cfg.Infos {
		if in == nil {
			return nil, fmt.Errorf("%s: info %d is nil", cfg.Name, i)
		}
		info := in.Clone()
		if info.Fabric == nil {
			info.Fabric = &fabric.FabricAttr{}
		}
		info.Fabric.ProvName = cfg.Name
		info.Fabric.ProvVersion = cfg.Version
		infos = append(infos, info)
	}

	return &Static{
		name:   cfg.Name,
		ver:    cfg.Version,
		infos:  infos,
		logger: cfg.Logger,
		opts:   cfg.CheckOptions,
	}, nil
}

// Name returns the provider name.
func (s *Static) Name() string {
	return s.name
}

// Infos returns copies of the declared records.
func (s *Static) Infos() []*fabric.Info {
	out := make([]*fabric.Info, len(s.infos))
	for i, info := range s.infos {
		out[i] = info.Clone()
	}
	return out
}

// GetInfo returns a copy of the first declared record that accepts hints.
// When none does, the mismatch of the last record tried is returned.
func (s *Static) GetInfo(req layer.Request, hints *fabric.Info) (*fabric.Info, error) {
	c := check.Checker{
		Provider:      s.name,
		Logger:        s.logger,
		NegotiationID: req.NegotiationID,
		Options:       s.opts,
	}

	if hints != nil && hints.Fabric != nil && hints.Fabric.ProvName != "" &&
		!strings.EqualFold(hints.Fabric.ProvName, s.name) {
		return nil, s.rejectProvider(req.NegotiationID, hints.Fabric.ProvName)
	}
	if req.Version != 0 && !version.FromUint32(req.Version).Compatible(version.MustParse(version.Current)) {
		log.Emit(s.logger, log.Event{
			NegotiationID: req.NegotiationID,
			Level:         log.LevelWarn,
			Subsystem:     log.SubsystemCore,
			Provider:      s.name,
			Message:       "unsupported API version " + version.Format(req.Version),
		})
		return nil, &fabric.MismatchError{
			Group:     "info",
			Field:     "api_version",
			Supported: version.Current,
			Requested: version.Format(req.Version),
		}
	}

	var lastErr error
	for _, declared := range s.infos {
		if err := c.Info(declared, hints, check.Default); err != nil {
			lastErr = err
			continue
		}
		info := declared.Clone()
		alter.Apply(info, hints)
		s.outstanding.Add(1)
		return info, nil
	}
	return nil, fmt.Errorf("%s: %w", s.name, lastErr)
}

// FreeInfo releases a record returned by GetInfo.
func (s *Static) FreeInfo(info *fabric.Info) {
	if info != nil {
		s.outstanding.Add(-1)
	}
}

// Outstanding returns the number of records handed out and not yet freed.
func (s *Static) Outstanding() int64 {
	return s.outstanding.Load()
}

func (s *Static) rejectProvider(id, requested string) error {
	err := &fabric.MismatchError{
		Group:     "fabric",
		Field:     "prov_name",
		Supported: s.name,
		Requested: requested,
	}
	log.Emit(s.logger, log.Event{
		NegotiationID: id,
		Level:         log.LevelDebug,
		Subsystem:     log.SubsystemFabric,
		Provider:      s.name,
		Message:       "provider name does not match",
		Mismatch: &log.MismatchEvent{
			Group:     err.Group,
			Field:     err.Field,
			Supported: err.Supported,
			Requested: err.Requested,
		},
	})
	return err
}

// Compile-time interface satisfaction check.
var _ layer.Provider = (*Static)(nil)
