package layer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/layerfab/layerfab-go/pkg/alter"
	"github.com/layerfab/layerfab-go/pkg/check"
	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/log"
)

// Configuration errors.
var (
	ErrNoName = errors.New("layer name is required")
	ErrNoInfo = errors.New("layer info is required")
	ErrNoBase = errors.New("base provider is required")
)

// Config describes a layered provider.
type Config struct {
	// Name is the layer's provider name and the prefix of the names it
	// presents.
	Name string

	// Version is the layer's packed provider version.
	Version uint32

	// Info lists the attributes the layer itself supports. Requests are
	// checked against it in layered mode before reaching the base.
	Info *fabric.Info

	// Base is the provider being layered over.
	Base Provider

	// Translator rewrites records between namespaces. Defaults to a
	// NameTranslator for Name and Version.
	Translator Translator

	// Logger receives diagnostics. Nil discards.
	Logger log.Logger

	// CheckOptions tunes the layered check.
	CheckOptions check.Options
}

// Layer is a Provider that negotiates through a base provider.
// It holds no per-call state and is safe for concurrent use.
type Layer struct {
	name   string
	info   *fabric.Info
	base   Provider
	tr     Translator
	logger log.Logger
	opts   check.Options
}

// New validates cfg and returns a Layer.
func New(cfg Config) (*Layer, error) {
	if cfg.Name == "" {
		return nil, ErrNoName
	}
	if cfg.Info == nil {
		return nil, ErrNoInfo
	}
	if cfg.Base == nil {
		return nil, ErrNoBase
	}

	tr := cfg.Translator
	if tr == nil {
		tr = &NameTranslator{Prefix: cfg.Name, Version: cfg.Version}
	}

	// Requests are checked against the identity the layer stamps on its
	// own records, so those records are accepted back as hints.
	info := cfg.Info.Clone()
	if info.Fabric == nil {
		info.Fabric = &fabric.FabricAttr{}
	}
	info.Fabric.ProvName = cfg.Name
	info.Fabric.ProvVersion = cfg.Version

	return &Layer{
		name:   cfg.Name,
		info:   info,
		base:   cfg.Base,
		tr:     tr,
		logger: cfg.Logger,
		opts:   cfg.CheckOptions,
	}, nil
}

// Name returns the layer's provider name.
func (l *Layer) Name() string {
	return l.name
}

// Base returns the provider the layer delegates to. Records obtained with
// Request.ReturnBase are released through it.
func (l *Layer) Base() Provider {
	return l.base
}

// GetInfo negotiates hints through the base provider.
//
// On success the caller owns the returned record: a new layer record, or
// with req.ReturnBase the base provider's own record.
func (l *Layer) GetInfo(req Request, hints *fabric.Info) (*fabric.Info, error) {
	id := req.NegotiationID
	if id == "" {
		id = uuid.NewString()
	}

	c := check.Checker{
		Provider:      l.name,
		Logger:        l.logger,
		NegotiationID: id,
		Options:       l.opts,
	}
	if err := c.Info(l.info, hints, check.Layered); err != nil {
		return nil, err
	}

	baseHints, err := l.tr.LayerToBase(hints)
	if err != nil {
		l.emit(id, log.LevelWarn, "hints translation failed: "+err.Error())
		return nil, fmt.Errorf("translate hints: %w", err)
	}
	defer l.tr.Release(baseHints)

	baseReq := req
	baseReq.ReturnBase = false
	baseReq.NegotiationID = id

	l.emit(id, log.LevelDebug, "delegating to base provider")
	baseInfo, err := l.base.GetInfo(baseReq, baseHints)
	if err != nil {
		return nil, err
	}

	if req.ReturnBase {
		return baseInfo, nil
	}

	info, err := l.tr.BaseToLayer(baseInfo)
	l.base.FreeInfo(baseInfo)
	if err != nil {
		l.emit(id, log.LevelWarn, "base info translation failed: "+err.Error())
		return nil, fmt.Errorf("translate base info: %w", err)
	}

	alter.Apply(info, hints)
	return info, nil
}

// FreeInfo releases a record returned by GetInfo without ReturnBase.
// Layer records are garbage collected, so this is a no-op.
func (l *Layer) FreeInfo(*fabric.Info) {}

func (l *Layer) emit(id string, level log.Level, msg string) {
	log.Emit(l.logger, log.Event{
		NegotiationID: id,
		Level:         level,
		Subsystem:     log.SubsystemCore,
		Provider:      l.name,
		Message:       msg,
	})
}

// Compile-time interface satisfaction check.
var _ Provider = (*Layer)(nil)
