package wire

import (
	"errors"
	"fmt"

	"github.com/layerfab/layerfab-go/pkg/fabric"
)

// FormatVersion is the record layout written by this package.
const FormatVersion uint8 = 1

// Record errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported record format")
	ErrNoInfo            = errors.New("record has no info")
)

// Record is one negotiated attribute record and where it came from.
type Record struct {
	Format        uint8        `cbor:"1,keyasint" json:"format"`
	Provider      string       `cbor:"2,keyasint,omitempty" json:"provider,omitempty"`
	NegotiationID string       `cbor:"3,keyasint,omitempty" json:"negotiation_id,omitempty"`
	Layered       bool         `cbor:"4,keyasint,omitempty" json:"layered,omitempty"`
	Info          *fabric.Info `cbor:"5,keyasint" json:"info"`
}

// NewRecord wraps info in a record of the current format.
func NewRecord(provider string, info *fabric.Info) *Record {
	return &Record{Format: FormatVersion, Provider: provider, Info: info}
}

// Validate checks the format version and that an info is present.
func (r *Record) Validate() error {
	if r.Format != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, r.Format)
	}
	if r.Info == nil {
		return ErrNoInfo
	}
	return nil
}

// EncodeInfo wraps info in a record and encodes it.
func EncodeInfo(provider string, info *fabric.Info) ([]byte, error) {
	return EncodeRecord(NewRecord(provider, info))
}

// DecodeInfo decodes a record and returns its info.
func DecodeInfo(data []byte) (*fabric.Info, error) {
	rec, err := DecodeRecord(data)
	if err != nil {
		return nil, err
	}
	return rec.Info, nil
}
