package layer

import "github.com/layerfab/layerfab-go/pkg/fabric"

// Request carries the call parameters of a negotiation other than hints.
// Version, Node, Service and Flags are passed to the base provider
// untouched.
type Request struct {
	// Version is the packed API version the consumer was built against.
	Version uint32

	// Node and Service optionally name the target address.
	Node    string
	Service string

	// Flags are opaque to the layer.
	Flags uint64

	// NegotiationID correlates the diagnostics of one negotiation across
	// every provider in a stack. A layer assigns one when it is empty and
	// forwards it to its base.
	NegotiationID string

	// ReturnBase asks for the base provider's result without translation.
	ReturnBase bool
}

// Provider negotiates attribute records. GetInfo returns a record owned by
// the caller, who releases it with the same provider's FreeInfo.
type Provider interface {
	GetInfo(req Request, hints *fabric.Info) (*fabric.Info, error)
	FreeInfo(info *fabric.Info)
}

// Translator converts records between a layer's namespace and its base
// provider's namespace.
type Translator interface {
	// LayerToBase builds base hints from layer hints. hints may be nil.
	// The result is released with Release.
	LayerToBase(hints *fabric.Info) (*fabric.Info, error)

	// BaseToLayer builds a new layer record from a base record without
	// modifying it. The result is owned by the caller.
	BaseToLayer(base *fabric.Info) (*fabric.Info, error)

	// Release frees a record returned by LayerToBase.
	Release(baseHints *fabric.Info)
}
