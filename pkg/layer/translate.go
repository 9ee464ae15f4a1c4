package layer

import (
	"fmt"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/names"
)

// NameTranslator rewrites fabric and domain names between a layer and its
// base provider.
//
//	layer hints   rxm_verbs_IB-1234 / rxm_mlx5_0
//	base hints    fabric IB-1234 from provider verbs / domain mlx5_0
type NameTranslator struct {
	// Prefix is the layer's provider name.
	Prefix string

	// Version is the layer's packed provider version, stamped into
	// translated results.
	Version uint32

	// Mode lists the mode bits the layer satisfies on the consumer's
	// behalf. They are added to base hints and hidden from results.
	Mode fabric.Mode

	// BaseCaps, when set, limits the capabilities requested from the base
	// provider. The layer emulates the rest.
	BaseCaps fabric.Caps

	// BaseEndpointType, when set, replaces the endpoint type requested from
	// the base provider. The requested protocol is then left open.
	BaseEndpointType fabric.EndpointType

	// EndpointType and Protocol, when set, are what the layer presents in
	// place of the base provider's endpoint.
	EndpointType fabric.EndpointType
	Protocol     fabric.Protocol

	// Codec parses and composes names. The zero value uses the heap.
	Codec names.Codec
}

// LayerToBase copies hints and rewrites their names into the base namespace.
// Nil hints produce a record carrying only Mode. A hint name with too few segments
// fails with fabric.ErrMalformed.
func (t *NameTranslator) LayerToBase(hints *fabric.Info) (*fabric.Info, error) {
	base := hints.Clone()
	if base == nil {
		base = &fabric.Info{}
	}
	base.Mode |= t.Mode

	if t.BaseCaps != 0 {
		base.Caps &= t.BaseCaps
		if base.Rx != nil {
			base.Rx.Caps &= t.BaseCaps
		}
		if base.Tx != nil {
			base.Tx.Caps &= t.BaseCaps
		}
	}
	if t.BaseEndpointType != fabric.EPUnspec && base.Endpoint != nil {
		base.Endpoint.Type = t.BaseEndpointType
		base.Endpoint.Protocol = fabric.ProtoUnspec
		base.Endpoint.ProtocolVersion = 0
	}

	if base.Fabric != nil {
		base.Fabric.ProvName = ""
		base.Fabric.ProvVersion = 0
		if name := hints.Fabric.Name; name != "" {
			toks, err := t.Codec.Parse(name, 3, false)
			if err != nil {
				return nil, fmt.Errorf("fabric name: %w", err)
			}
			base.Fabric.ProvName = toks.Token(1)
			base.Fabric.Name = toks.Token(2)
			toks.Release()
		}
	}

	if base.Domain != nil && base.Domain.Name != "" {
		toks, err := t.Codec.Parse(base.Domain.Name, 2, false)
		if err != nil {
			return nil, fmt.Errorf("domain name: %w", err)
		}
		base.Domain.Name = toks.Token(1)
		toks.Release()
	}

	return base, nil
}

// BaseToLayer copies a base record and composes layer names from it.
func (t *NameTranslator) BaseToLayer(base *fabric.Info) (*fabric.Info, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: no base info", fabric.ErrMalformed)
	}
	info := base.Clone()
	info.Mode &^= t.Mode

	if info.Endpoint != nil {
		if t.EndpointType != fabric.EPUnspec {
			info.Endpoint.Type = t.EndpointType
		}
		if t.Protocol != fabric.ProtoUnspec {
			info.Endpoint.Protocol = t.Protocol
		}
	}

	if base.Fabric != nil {
		name, err := t.Codec.ComposeFabric(t.Prefix, base.Fabric)
		if err != nil {
			return nil, err
		}
		info.Fabric.Name = name
		info.Fabric.ProvName = t.Prefix
		info.Fabric.ProvVersion = t.Version
	}

	if base.Domain != nil {
		name, err := t.Codec.ComposeDomain(t.Prefix, base.Domain)
		if err != nil {
			return nil, err
		}
		info.Domain.Name = name
	}

	return info, nil
}

// Release does nothing; translated records are garbage collected.
func (t *NameTranslator) Release(*fabric.Info) {}

// Compile-time interface satisfaction check.
var _ Translator = (*NameTranslator)(nil)
