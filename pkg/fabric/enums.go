package fabric

import (
	"fmt"
	"strings"
)

// Threading is the threading model a domain guarantees.
type Threading uint8

const (
	ThreadUnspec     Threading = 0
	ThreadSafe       Threading = 1
	ThreadFID        Threading = 2
	ThreadDomain     Threading = 3
	ThreadCompletion Threading = 4
	ThreadEndpoint   Threading = 5
)

// String returns the threading model name.
func (t Threading) String() string {
	switch t {
	case ThreadUnspec:
		return "THREAD_UNSPEC"
	case ThreadSafe:
		return "THREAD_SAFE"
	case ThreadFID:
		return "THREAD_FID"
	case ThreadDomain:
		return "THREAD_DOMAIN"
	case ThreadCompletion:
		return "THREAD_COMPLETION"
	case ThreadEndpoint:
		return "THREAD_ENDPOINT"
	default:
		return fmt.Sprintf("THREAD_UNKNOWN(%d)", uint8(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Threading) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ParseThreading parses a threading model name such as "THREAD_SAFE" or "safe".
func ParseThreading(s string) (Threading, error) {
	return parseEnum(s, "THREAD_", "threading model",
		ThreadUnspec, ThreadSafe, ThreadFID, ThreadDomain, ThreadCompletion, ThreadEndpoint)
}

// Progress is a control or data progress model.
type Progress uint8

const (
	ProgressUnspec Progress = 0
	ProgressAuto   Progress = 1
	ProgressManual Progress = 2
)

// String returns the progress model name.
func (p Progress) String() string {
	switch p {
	case ProgressUnspec:
		return "PROGRESS_UNSPEC"
	case ProgressAuto:
		return "PROGRESS_AUTO"
	case ProgressManual:
		return "PROGRESS_MANUAL"
	default:
		return fmt.Sprintf("PROGRESS_UNKNOWN(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Progress) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ParseProgress parses a progress model name.
func ParseProgress(s string) (Progress, error) {
	return parseEnum(s, "PROGRESS_", "progress model", ProgressUnspec, ProgressAuto, ProgressManual)
}

// ResourceMgmt is the resource management model of a domain.
type ResourceMgmt uint8

const (
	RMUnspec   ResourceMgmt = 0
	RMDisabled ResourceMgmt = 1
	RMEnabled  ResourceMgmt = 2
)

// String returns the resource management model name.
func (r ResourceMgmt) String() string {
	switch r {
	case RMUnspec:
		return "RM_UNSPEC"
	case RMDisabled:
		return "RM_DISABLED"
	case RMEnabled:
		return "RM_ENABLED"
	default:
		return fmt.Sprintf("RM_UNKNOWN(%d)", uint8(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r ResourceMgmt) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// ParseResourceMgmt parses a resource management model name.
func ParseResourceMgmt(s string) (ResourceMgmt, error) {
	return parseEnum(s, "RM_", "resource management model", RMUnspec, RMDisabled, RMEnabled)
}

// AVType is the address vector type of a domain.
type AVType uint8

const (
	AVUnspec AVType = 0
	AVMap    AVType = 1
	AVTable  AVType = 2
)

// String returns the address vector type name.
func (a AVType) String() string {
	switch a {
	case AVUnspec:
		return "AV_UNSPEC"
	case AVMap:
		return "AV_MAP"
	case AVTable:
		return "AV_TABLE"
	default:
		return fmt.Sprintf("AV_UNKNOWN(%d)", uint8(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AVType) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAVType parses an address vector type name.
func ParseAVType(s string) (AVType, error) {
	return parseEnum(s, "AV_", "address vector type", AVUnspec, AVMap, AVTable)
}

// MRMode is the memory registration mode of a domain.
type MRMode uint8

const (
	MRUnspec   MRMode = 0
	MRBasic    MRMode = 1
	MRScalable MRMode = 2
)

// String returns the memory registration mode name.
func (m MRMode) String() string {
	switch m {
	case MRUnspec:
		return "MR_UNSPEC"
	case MRBasic:
		return "MR_BASIC"
	case MRScalable:
		return "MR_SCALABLE"
	default:
		return fmt.Sprintf("MR_UNKNOWN(%d)", uint8(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m MRMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMRMode parses a memory registration mode name.
func ParseMRMode(s string) (MRMode, error) {
	return parseEnum(s, "MR_", "memory registration mode", MRUnspec, MRBasic, MRScalable)
}

// EndpointType is the transport semantics of an endpoint.
type EndpointType uint8

const (
	EPUnspec EndpointType = 0
	EPMsg    EndpointType = 1
	EPDgram  EndpointType = 2
	EPRDM    EndpointType = 3
)

// String returns the endpoint type name.
func (e EndpointType) String() string {
	switch e {
	case EPUnspec:
		return "EP_UNSPEC"
	case EPMsg:
		return "EP_MSG"
	case EPDgram:
		return "EP_DGRAM"
	case EPRDM:
		return "EP_RDM"
	default:
		return fmt.Sprintf("EP_UNKNOWN(%d)", uint8(e))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e EndpointType) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// ParseEndpointType parses an endpoint type name.
func ParseEndpointType(s string) (EndpointType, error) {
	return parseEnum(s, "EP_", "endpoint type", EPUnspec, EPMsg, EPDgram, EPRDM)
}

// Protocol is the wire protocol an endpoint speaks.
type Protocol uint32

const (
	ProtoUnspec     Protocol = 0
	ProtoRDMACMIBRC Protocol = 1
	ProtoIWARP      Protocol = 2
	ProtoIBUD       Protocol = 3
	ProtoPSMX       Protocol = 4
	ProtoUDP        Protocol = 5
	ProtoSockTCP    Protocol = 6
	ProtoMXM        Protocol = 7
	ProtoIWARPRDM   Protocol = 8
	ProtoIBRDM      Protocol = 9
	ProtoGNI        Protocol = 10
	ProtoRXM        Protocol = 11
	ProtoRXD        Protocol = 12
)

// String returns the protocol name.
func (p Protocol) String() string {
	switch p {
	case ProtoUnspec:
		return "PROTO_UNSPEC"
	case ProtoRDMACMIBRC:
		return "PROTO_RDMA_CM_IB_RC"
	case ProtoIWARP:
		return "PROTO_IWARP"
	case ProtoIBUD:
		return "PROTO_IB_UD"
	case ProtoPSMX:
		return "PROTO_PSMX"
	case ProtoUDP:
		return "PROTO_UDP"
	case ProtoSockTCP:
		return "PROTO_SOCK_TCP"
	case ProtoMXM:
		return "PROTO_MXM"
	case ProtoIWARPRDM:
		return "PROTO_IWARP_RDM"
	case ProtoIBRDM:
		return "PROTO_IB_RDM"
	case ProtoGNI:
		return "PROTO_GNI"
	case ProtoRXM:
		return "PROTO_RXM"
	case ProtoRXD:
		return "PROTO_RXD"
	default:
		return fmt.Sprintf("PROTO_UNKNOWN(%d)", uint32(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Protocol) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ParseProtocol parses a protocol name.
func ParseProtocol(s string) (Protocol, error) {
	return parseEnum(s, "PROTO_", "protocol",
		ProtoUnspec, ProtoRDMACMIBRC, ProtoIWARP, ProtoIBUD, ProtoPSMX, ProtoUDP,
		ProtoSockTCP, ProtoMXM, ProtoIWARPRDM, ProtoIBRDM, ProtoGNI, ProtoRXM, ProtoRXD)
}

// AddrFormat is the address format tag of an Info record.
type AddrFormat uint32

const (
	FormatUnspec AddrFormat = 0
	SockAddr     AddrFormat = 1
	SockAddrIn   AddrFormat = 2
	SockAddrIn6  AddrFormat = 3
	SockAddrIB   AddrFormat = 4
	AddrPSMX     AddrFormat = 5
	AddrGNI      AddrFormat = 6
	AddrBGQ      AddrFormat = 7
	AddrMLX      AddrFormat = 8
	AddrStr      AddrFormat = 9
)

// String returns the address format name.
func (a AddrFormat) String() string {
	switch a {
	case FormatUnspec:
		return "FORMAT_UNSPEC"
	case SockAddr:
		return "SOCKADDR"
	case SockAddrIn:
		return "SOCKADDR_IN"
	case SockAddrIn6:
		return "SOCKADDR_IN6"
	case SockAddrIB:
		return "SOCKADDR_IB"
	case AddrPSMX:
		return "ADDR_PSMX"
	case AddrGNI:
		return "ADDR_GNI"
	case AddrBGQ:
		return "ADDR_BGQ"
	case AddrMLX:
		return "ADDR_MLX"
	case AddrStr:
		return "ADDR_STR"
	default:
		return fmt.Sprintf("FORMAT_UNKNOWN(%d)", uint32(a))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AddrFormat) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// ParseAddrFormat parses an address format name.
func ParseAddrFormat(s string) (AddrFormat, error) {
	return parseEnum(s, "", "address format",
		FormatUnspec, SockAddr, SockAddrIn, SockAddrIn6, SockAddrIB,
		AddrPSMX, AddrGNI, AddrBGQ, AddrMLX, AddrStr)
}

// parseEnum matches s against the String form of each candidate. The family
// prefix (e.g. "THREAD_") and the "FI_" prefix may be omitted. An empty
// string yields the zero (unspecified) value.
func parseEnum[T interface{ ~uint8 | ~uint32 }](s, prefix, kind string, values ...T) (T, error) {
	name := normalizeName(s)
	if name == "" {
		return 0, nil
	}
	for _, v := range values {
		full := fmt.Sprint(v)
		if full == name || strings.TrimPrefix(full, prefix) == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
