package log

import (
	"strings"
	"time"
)

// Event is a single diagnostic emitted during negotiation.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// NegotiationID correlates all events of one negotiation call (UUID).
	NegotiationID string `cbor:"2,keyasint,omitempty"`

	// Level is the severity of the event.
	Level Level `cbor:"3,keyasint"`

	// Subsystem is the area that emitted the event.
	Subsystem Subsystem `cbor:"4,keyasint"`

	// Provider is the name of the provider whose attributes were checked.
	Provider string `cbor:"5,keyasint,omitempty"`

	// Message is a short human-readable description.
	Message string `cbor:"6,keyasint"`

	// Mismatch is set when the event reports an incompatible attribute.
	Mismatch *MismatchEvent `cbor:"7,keyasint,omitempty"`
}

// MismatchEvent carries the field-level detail of a rejected request.
type MismatchEvent struct {
	Group     string `cbor:"1,keyasint"`
	Field     string `cbor:"2,keyasint"`
	Supported string `cbor:"3,keyasint,omitempty"`
	Requested string `cbor:"4,keyasint,omitempty"`
}

// Level is the severity of a diagnostic.
type Level uint8

const (
	// LevelWarn reports conditions the consumer should act on.
	LevelWarn Level = 0
	// LevelTrace reports call flow.
	LevelTrace Level = 1
	// LevelInfo reports negotiation outcomes, including mismatches.
	LevelInfo Level = 2
	// LevelDebug reports detail useful only when debugging a provider.
	LevelDebug Level = 3
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "WARN"
	case LevelTrace:
		return "TRACE"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name (case-insensitive).
func ParseLevel(s string) (Level, bool) {
	for _, l := range []Level{LevelWarn, LevelTrace, LevelInfo, LevelDebug} {
		if strings.EqualFold(l.String(), s) {
			return l, true
		}
	}
	return 0, false
}

// Subsystem identifies the area of the framework that emitted an event.
type Subsystem uint8

const (
	SubsystemCore   Subsystem = 0
	SubsystemFabric Subsystem = 1
	SubsystemDomain Subsystem = 2
	SubsystemEPCtrl Subsystem = 3
	SubsystemEPData Subsystem = 4
	SubsystemAV     Subsystem = 5
	SubsystemCQ     Subsystem = 6
	SubsystemEQ     Subsystem = 7
	SubsystemMR     Subsystem = 8
)

// String returns the subsystem name.
func (s Subsystem) String() string {
	switch s {
	case SubsystemCore:
		return "CORE"
	case SubsystemFabric:
		return "FABRIC"
	case SubsystemDomain:
		return "DOMAIN"
	case SubsystemEPCtrl:
		return "EP_CTRL"
	case SubsystemEPData:
		return "EP_DATA"
	case SubsystemAV:
		return "AV"
	case SubsystemCQ:
		return "CQ"
	case SubsystemEQ:
		return "EQ"
	case SubsystemMR:
		return "MR"
	default:
		return "UNKNOWN"
	}
}

// ParseSubsystem parses a subsystem name (case-insensitive).
func ParseSubsystem(s string) (Subsystem, bool) {
	for sub := SubsystemCore; sub <= SubsystemMR; sub++ {
		if strings.EqualFold(sub.String(), s) {
			return sub, true
		}
	}
	return 0, false
}
