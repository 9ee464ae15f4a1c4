// Package alter overlays the consumer-adjustable fields of a hints record
// onto an accepted provider record.
//
// Only fields that a consumer may choose at bind time are touched:
// primary capability bits, context counts, op flags and queue sizing.
// Secondary capability bits are always kept from the provider.
package alter

import "github.com/layerfab/layerfab-go/pkg/fabric"

// Apply narrows info in place using hints. It assumes hints already passed
// the checker against info. A nil hints record leaves info unchanged.
func Apply(info, hints *fabric.Info) {
	if info == nil || hints == nil {
		return
	}

	info.Caps = hints.Caps.Primary() | info.Caps.Secondary()

	if info.Endpoint != nil {
		endpoint(info.Endpoint, hints.Endpoint)
	}
	if info.Rx != nil {
		rx(info.Rx, hints.Rx, info.Caps)
	}
	if info.Tx != nil {
		tx(info.Tx, hints.Tx, info.Caps)
	}
}

func endpoint(attr, hints *fabric.EndpointAttr) {
	if hints == nil {
		return
	}
	if hints.TxCtxCnt != 0 {
		attr.TxCtxCnt = hints.TxCtxCnt
	}
	if hints.RxCtxCnt != 0 {
		attr.RxCtxCnt = hints.RxCtxCnt
	}
}

// narrowCaps keeps the primary bits also accepted at the top level along
// with all secondary bits.
func narrowCaps(attr, accepted fabric.Caps) fabric.Caps {
	return accepted.Intersect(attr).Primary() | attr.Secondary()
}

func rx(attr *fabric.RxAttr, hints *fabric.RxAttr, accepted fabric.Caps) {
	if hints == nil {
		attr.Caps = narrowCaps(attr.Caps, accepted)
		return
	}

	attr.OpFlags = hints.OpFlags
	attr.Caps = hints.Caps.Primary() | attr.Caps.Secondary()
	attr.TotalBufferedRecv = hints.TotalBufferedRecv
	if hints.Size != 0 {
		attr.Size = hints.Size
	}
	if hints.IOVLimit != 0 {
		attr.IOVLimit = hints.IOVLimit
	}
}

func tx(attr *fabric.TxAttr, hints *fabric.TxAttr, accepted fabric.Caps) {
	if hints == nil {
		attr.Caps = narrowCaps(attr.Caps, accepted)
		return
	}

	attr.OpFlags = hints.OpFlags
	attr.Caps = hints.Caps.Primary() | attr.Caps.Secondary()
	if hints.InjectSize != 0 {
		attr.InjectSize = hints.InjectSize
	}
	if hints.Size != 0 {
		attr.Size = hints.Size
	}
	if hints.IOVLimit != 0 {
		attr.IOVLimit = hints.IOVLimit
	}
	if hints.RMAIOVLimit != 0 {
		attr.RMAIOVLimit = hints.RMAIOVLimit
	}
}
