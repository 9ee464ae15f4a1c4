package fabric

import (
	"fmt"
	"strings"
)

// Caps is a set of capability bits.
type Caps uint64

const (
	CapMsg              Caps = 1 << 1
	CapRMA              Caps = 1 << 2
	CapTagged           Caps = 1 << 3
	CapAtomic           Caps = 1 << 4
	CapMulticast        Caps = 1 << 5
	CapRead             Caps = 1 << 8
	CapWrite            Caps = 1 << 9
	CapRecv             Caps = 1 << 10
	CapSend             Caps = 1 << 11
	CapRemoteRead       Caps = 1 << 12
	CapRemoteWrite      Caps = 1 << 13
	CapMultiRecv        Caps = 1 << 16
	CapRemoteCQData     Caps = 1 << 17
	CapMore             Caps = 1 << 18
	CapPeek             Caps = 1 << 19
	CapTrigger          Caps = 1 << 20
	CapFence            Caps = 1 << 21
	CapCompletion       Caps = 1 << 24
	CapInject           Caps = 1 << 25
	CapInjectComplete   Caps = 1 << 26
	CapTransmitComplete Caps = 1 << 27
	CapDeliveryComplete Caps = 1 << 28
	CapLocalComm        Caps = 1 << 51
	CapRemoteComm       Caps = 1 << 52
	CapSharedAV         Caps = 1 << 53
	CapRMAEvent         Caps = 1 << 56
	CapSource           Caps = 1 << 57
	CapNamedRxCtx       Caps = 1 << 58
	CapDirectedRecv     Caps = 1 << 59
)

// PrimaryCaps are the capability bits a consumer negotiates per call.
const PrimaryCaps = CapMsg | CapRMA | CapTagged | CapAtomic | CapMulticast |
	CapNamedRxCtx | CapDirectedRecv | CapRead | CapWrite | CapRecv | CapSend |
	CapRemoteRead | CapRemoteWrite

// SecondaryCaps are the capability bits fixed by the provider.
const SecondaryCaps = CapMultiRecv | CapSource | CapRMAEvent | CapSharedAV |
	CapTrigger | CapFence | CapLocalComm | CapRemoteComm

var capNames = []flagName{
	{uint64(CapMsg), "MSG"},
	{uint64(CapRMA), "RMA"},
	{uint64(CapTagged), "TAGGED"},
	{uint64(CapAtomic), "ATOMIC"},
	{uint64(CapMulticast), "MULTICAST"},
	{uint64(CapRead), "READ"},
	{uint64(CapWrite), "WRITE"},
	{uint64(CapRecv), "RECV"},
	{uint64(CapSend), "SEND"},
	{uint64(CapRemoteRead), "REMOTE_READ"},
	{uint64(CapRemoteWrite), "REMOTE_WRITE"},
	{uint64(CapMultiRecv), "MULTI_RECV"},
	{uint64(CapRemoteCQData), "REMOTE_CQ_DATA"},
	{uint64(CapMore), "MORE"},
	{uint64(CapPeek), "PEEK"},
	{uint64(CapTrigger), "TRIGGER"},
	{uint64(CapFence), "FENCE"},
	{uint64(CapCompletion), "COMPLETION"},
	{uint64(CapInject), "INJECT"},
	{uint64(CapInjectComplete), "INJECT_COMPLETE"},
	{uint64(CapTransmitComplete), "TRANSMIT_COMPLETE"},
	{uint64(CapDeliveryComplete), "DELIVERY_COMPLETE"},
	{uint64(CapLocalComm), "LOCAL_COMM"},
	{uint64(CapRemoteComm), "REMOTE_COMM"},
	{uint64(CapSharedAV), "SHARED_AV"},
	{uint64(CapRMAEvent), "RMA_EVENT"},
	{uint64(CapSource), "SOURCE"},
	{uint64(CapNamedRxCtx), "NAMED_RX_CTX"},
	{uint64(CapDirectedRecv), "DIRECTED_RECV"},
}

// IsSubsetOf reports whether every bit of c is also set in other.
func (c Caps) IsSubsetOf(other Caps) bool { return c&^other == 0 }

// IsSupersetOf reports whether c contains every bit of other.
func (c Caps) IsSupersetOf(other Caps) bool { return c&other == other }

// Has reports whether every bit of bits is set in c.
func (c Caps) Has(bits Caps) bool { return c&bits == bits }

// Intersect returns the bits set in both c and other.
func (c Caps) Intersect(other Caps) Caps { return c & other }

// Union returns the bits set in either c or other.
func (c Caps) Union(other Caps) Caps { return c | other }

// Primary returns the primary bits of c.
func (c Caps) Primary() Caps { return c & PrimaryCaps }

// Secondary returns the secondary bits of c.
func (c Caps) Secondary() Caps { return c & SecondaryCaps }

// String returns the bit names joined by " | ".
func (c Caps) String() string { return formatFlags(uint64(c), capNames) }

// MarshalText implements encoding.TextMarshaler.
func (c Caps) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// ParseCaps builds a capability set from bit names. The "FI_" prefix is optional.
func ParseCaps(names []string) (Caps, error) {
	v, err := parseFlags(names, capNames, "capability")
	return Caps(v), err
}

// Mode is a set of obligations a consumer must satisfy to use a provider.
type Mode uint64

const (
	ModeContext2        Mode = 1 << 52
	ModeRestrictedComp  Mode = 1 << 53
	ModeNotifyFlagsOnly Mode = 1 << 54
	ModeLocalMR         Mode = 1 << 55
	ModeRxCQData        Mode = 1 << 56
	ModeAsyncIOV        Mode = 1 << 57
	ModeMsgPrefix       Mode = 1 << 58
	ModeContext         Mode = 1 << 59
)

var modeNames = []flagName{
	{uint64(ModeContext2), "CONTEXT2"},
	{uint64(ModeRestrictedComp), "RESTRICTED_COMP"},
	{uint64(ModeNotifyFlagsOnly), "NOTIFY_FLAGS_ONLY"},
	{uint64(ModeLocalMR), "LOCAL_MR"},
	{uint64(ModeRxCQData), "RX_CQ_DATA"},
	{uint64(ModeAsyncIOV), "ASYNC_IOV"},
	{uint64(ModeMsgPrefix), "MSG_PREFIX"},
	{uint64(ModeContext), "CONTEXT"},
}

// IsSubsetOf reports whether every bit of m is also set in other.
func (m Mode) IsSubsetOf(other Mode) bool { return m&^other == 0 }

// IsSupersetOf reports whether m contains every bit of other.
func (m Mode) IsSupersetOf(other Mode) bool { return m&other == other }

// Has reports whether every bit of bits is set in m.
func (m Mode) Has(bits Mode) bool { return m&bits == bits }

// Intersect returns the bits set in both m and other.
func (m Mode) Intersect(other Mode) Mode { return m & other }

// String returns the bit names joined by " | ".
func (m Mode) String() string { return formatFlags(uint64(m), modeNames) }

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMode builds a mode set from bit names.
func ParseMode(names []string) (Mode, error) {
	v, err := parseFlags(names, modeNames, "mode")
	return Mode(v), err
}

// OpFlags is a set of default operation flags for a transmit or receive context.
// The bits share their positions with the matching capability bits.
type OpFlags uint64

const (
	OpMultiRecv        = OpFlags(CapMultiRecv)
	OpRemoteCQData     = OpFlags(CapRemoteCQData)
	OpMore             = OpFlags(CapMore)
	OpPeek             = OpFlags(CapPeek)
	OpTrigger          = OpFlags(CapTrigger)
	OpFence            = OpFlags(CapFence)
	OpCompletion       = OpFlags(CapCompletion)
	OpInject           = OpFlags(CapInject)
	OpInjectComplete   = OpFlags(CapInjectComplete)
	OpTransmitComplete = OpFlags(CapTransmitComplete)
	OpDeliveryComplete = OpFlags(CapDeliveryComplete)
)

var opFlagNames = []flagName{
	{uint64(OpMultiRecv), "MULTI_RECV"},
	{uint64(OpRemoteCQData), "REMOTE_CQ_DATA"},
	{uint64(OpMore), "MORE"},
	{uint64(OpPeek), "PEEK"},
	{uint64(OpTrigger), "TRIGGER"},
	{uint64(OpFence), "FENCE"},
	{uint64(OpCompletion), "COMPLETION"},
	{uint64(OpInject), "INJECT"},
	{uint64(OpInjectComplete), "INJECT_COMPLETE"},
	{uint64(OpTransmitComplete), "TRANSMIT_COMPLETE"},
	{uint64(OpDeliveryComplete), "DELIVERY_COMPLETE"},
}

// IsSubsetOf reports whether every bit of f is also set in other.
func (f OpFlags) IsSubsetOf(other OpFlags) bool { return f&^other == 0 }

// IsSupersetOf reports whether f contains every bit of other.
func (f OpFlags) IsSupersetOf(other OpFlags) bool { return f&other == other }

// Has reports whether every bit of bits is set in f.
func (f OpFlags) Has(bits OpFlags) bool { return f&bits == bits }

// Intersect returns the bits set in both f and other.
func (f OpFlags) Intersect(other OpFlags) OpFlags { return f & other }

// String returns the bit names joined by " | ".
func (f OpFlags) String() string { return formatFlags(uint64(f), opFlagNames) }

// MarshalText implements encoding.TextMarshaler.
func (f OpFlags) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// ParseOpFlags builds an op-flag set from bit names.
func ParseOpFlags(names []string) (OpFlags, error) {
	v, err := parseFlags(names, opFlagNames, "op flag")
	return OpFlags(v), err
}

// Order is a set of message or completion ordering guarantees.
// The zero value means no ordering is guaranteed.
type Order uint64

const (
	OrderNone Order = 0
	OrderRAR  Order = 1 << 0
	OrderRAW  Order = 1 << 1
	OrderRAS  Order = 1 << 2
	OrderWAR  Order = 1 << 3
	OrderWAW  Order = 1 << 4
	OrderWAS  Order = 1 << 5
	OrderSAR  Order = 1 << 6
	OrderSAW  Order = 1 << 7
	OrderSAS  Order = 1 << 8
	OrderData Order = 1 << 16
)

var orderNames = []flagName{
	{uint64(OrderRAR), "RAR"},
	{uint64(OrderRAW), "RAW"},
	{uint64(OrderRAS), "RAS"},
	{uint64(OrderWAR), "WAR"},
	{uint64(OrderWAW), "WAW"},
	{uint64(OrderWAS), "WAS"},
	{uint64(OrderSAR), "SAR"},
	{uint64(OrderSAW), "SAW"},
	{uint64(OrderSAS), "SAS"},
	{uint64(OrderData), "DATA"},
}

// IsSubsetOf reports whether every bit of o is also set in other.
func (o Order) IsSubsetOf(other Order) bool { return o&^other == 0 }

// IsSupersetOf reports whether o contains every bit of other.
func (o Order) IsSupersetOf(other Order) bool { return o&other == other }

// Has reports whether every bit of bits is set in o.
func (o Order) Has(bits Order) bool { return o&bits == bits }

// Intersect returns the bits set in both o and other.
func (o Order) Intersect(other Order) Order { return o & other }

// String returns the ordering names joined by " | ", or "NONE".
func (o Order) String() string {
	if o == OrderNone {
		return "NONE"
	}
	return formatFlags(uint64(o), orderNames)
}

// MarshalText implements encoding.TextMarshaler.
func (o Order) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// ParseOrder builds an ordering set from names. "NONE" contributes no bits.
func ParseOrder(names []string) (Order, error) {
	filtered := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimPrefix(normalizeName(n), "ORDER_")
		if n != "NONE" {
			filtered = append(filtered, n)
		}
	}
	v, err := parseFlags(filtered, orderNames, "order")
	return Order(v), err
}

type flagName struct {
	bit  uint64
	name string
}

// formatFlags renders known bits by name; leftover bits are rendered in hex.
func formatFlags(v uint64, names []flagName) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	rest := v
	for _, fn := range names {
		if v&fn.bit != 0 {
			parts = append(parts, fn.name)
			rest &^= fn.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", rest))
	}
	return strings.Join(parts, " | ")
}

func parseFlags(in []string, names []flagName, kind string) (uint64, error) {
	var v uint64
	for _, raw := range in {
		name := normalizeName(raw)
		if name == "" {
			continue
		}
		found := false
		for _, fn := range names {
			if fn.name == name {
				v |= fn.bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown %s %q", kind, raw)
		}
	}
	return v, nil
}

func normalizeName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "FI_")
}
