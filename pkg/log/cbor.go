package log

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// A diagnostics file is a bare sequence of CBOR-encoded events with no
// header or framing. Timestamps are tagged RFC 3339 strings so nanoseconds
// survive and generic CBOR tools can show them.
var (
	eventEncMode cbor.EncMode
	eventDecMode cbor.DecMode
)

// ErrInvalidEvent is returned for events whose level or subsystem is not
// one this package defines, or whose mismatch detail is incomplete.
var ErrInvalidEvent = errors.New("invalid diagnostic event")

func init() {
	var err error

	eventEncMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
		Time:        cbor.TimeRFC3339Nano,
		TimeTag:     cbor.EncTagRequired,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("diagnostics encoder mode: %v", err))
	}

	// Files are appended by one writer, so a duplicate key or an
	// indefinite length item means the file is corrupt.
	eventDecMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		MaxNestedLevels:   8,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("diagnostics decoder mode: %v", err))
	}
}

func (e Event) validate() error {
	if e.Level > LevelDebug {
		return fmt.Errorf("%w: level %d", ErrInvalidEvent, e.Level)
	}
	if e.Subsystem > SubsystemMR {
		return fmt.Errorf("%w: subsystem %d", ErrInvalidEvent, e.Subsystem)
	}
	if e.Mismatch != nil && (e.Mismatch.Group == "" || e.Mismatch.Field == "") {
		return fmt.Errorf("%w: mismatch without group or field", ErrInvalidEvent)
	}
	return nil
}

// EncodeEvent encodes a single event.
func EncodeEvent(event Event) ([]byte, error) {
	if err := event.validate(); err != nil {
		return nil, err
	}
	return eventEncMode.Marshal(event)
}

// DecodeEvent decodes a single event. Trailing bytes are an error.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := eventDecMode.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if err := event.validate(); err != nil {
		return Event{}, err
	}
	return event, nil
}
