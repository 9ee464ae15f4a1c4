// Package fabric defines the attribute records exchanged during capability
// negotiation between a consumer and a fabric provider.
//
// An Info record aggregates the top-level capability and mode bits, the
// address format, and five optional attribute groups (fabric, domain,
// endpoint, receive and transmit). A nil group means the requester expressed
// no constraint for it.
//
// # Flag Sets
//
// Capability, mode, operation and ordering bits are carried by named flag-set
// types (Caps, Mode, OpFlags, Order). Compatibility is always expressed through
// their set operations rather than raw bit arithmetic:
//
//	if !requested.Caps.IsSubsetOf(offered.Caps) {
//	    // provider cannot satisfy the request
//	}
//
// Capability bits are split into primary bits, which a consumer selects per
// call, and secondary bits, which a provider fixes.
//
// # Errors
//
// Negotiation failures are reported with three error kinds: ErrMismatch (a
// requested attribute is incompatible, see MismatchError), ErrNoMemory (an
// allocation failed) and ErrMalformed (a name did not have the expected
// number of segments).
package fabric
