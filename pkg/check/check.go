package check

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/log"
	"github.com/layerfab/layerfab-go/pkg/names"
	"github.com/layerfab/layerfab-go/pkg/version"
)

// Mode selects how fabric and domain names are compared.
type Mode uint8

const (
	// Default compares names case-insensitively in full.
	Default Mode = iota
	// Layered compares only the first segment of the requested name, the
	// layer prefix, against the provider's name.
	Layered
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Default:
		return "DEFAULT"
	case Layered:
		return "LAYERED"
	default:
		return "UNKNOWN"
	}
}

// Options tunes individual comparisons.
type Options struct {
	// LegacyOpFlags skips the receive and transmit op-flags comparison,
	// matching providers that never enforced it. By default requested op
	// flags must be a subset of the provider's.
	LegacyOpFlags bool
}

// Checker validates requests against one provider's declared attributes.
// The zero value is ready to use and discards diagnostics.
type Checker struct {
	// Provider names the provider in diagnostics.
	Provider string

	// Logger receives one event per mismatch. Nil discards.
	Logger log.Logger

	// NegotiationID correlates the diagnostics of one negotiation.
	NegotiationID string

	Options Options
}

// Info validates user against prov with a zero Checker.
func Info(prov, user *fabric.Info, mode Mode) error {
	var c Checker
	return c.Info(prov, user, mode)
}

// Info validates the whole request and returns the first mismatch.
// A nil request always passes. Groups absent from the request are not
// checked; groups absent from prov are treated as zero-valued.
func (c *Checker) Info(prov, user *fabric.Info, mode Mode) error {
	if user == nil {
		return nil
	}
	if prov == nil {
		prov = &fabric.Info{}
	}

	if !user.Caps.IsSubsetOf(prov.Caps) {
		return c.mismatch("info", "caps", "Unsupported capabilities", prov.Caps, user.Caps)
	}
	if !user.Mode.IsSupersetOf(prov.Mode) {
		return c.mismatch("info", "mode", "needed mode not set", prov.Mode, user.Mode)
	}
	if !AddrFormatCompatible(prov.AddrFormat, user.AddrFormat) {
		return c.mismatch("info", "addr_format", "address format not supported", prov.AddrFormat, user.AddrFormat)
	}

	if user.Fabric != nil {
		if err := c.Fabric(orZero(prov.Fabric), user.Fabric, mode); err != nil {
			return err
		}
	}
	if user.Domain != nil {
		if err := c.Domain(orZero(prov.Domain), user.Domain, mode); err != nil {
			return err
		}
	}
	if user.Endpoint != nil {
		if err := c.Endpoint(orZero(prov.Endpoint), user.Endpoint); err != nil {
			return err
		}
	}
	if user.Rx != nil {
		if err := c.Rx(orZero(prov.Rx), user.Rx); err != nil {
			return err
		}
	}
	if user.Tx != nil {
		if err := c.Tx(orZero(prov.Tx), user.Tx); err != nil {
			return err
		}
	}
	return nil
}

// Fabric validates the fabric name and provider version.
func (c *Checker) Fabric(prov, user *fabric.FabricAttr, mode Mode) error {
	if user.Name != "" && !NameMatches(user.Name, prov.Name, mode) {
		return c.mismatch("fabric", "name", "Unknown fabric name", prov.Name, user.Name)
	}
	if user.ProvVersion > prov.ProvVersion {
		return c.mismatch("fabric", "prov_version", "Unsupported provider version",
			version.Format(prov.ProvVersion), version.Format(user.ProvVersion))
	}
	return nil
}

// Domain validates the domain name, the ranked models and the domain limits.
func (c *Checker) Domain(prov, user *fabric.DomainAttr, mode Mode) error {
	if user.Name != "" && !NameMatches(user.Name, prov.Name, mode) {
		return c.mismatch("domain", "name", "Unknown domain name", prov.Name, user.Name)
	}
	if !ThreadingCompatible(prov.Threading, user.Threading) {
		return c.mismatch("domain", "threading", "Invalid threading model", prov.Threading, user.Threading)
	}
	if !ProgressCompatible(prov.ControlProgress, user.ControlProgress) {
		return c.mismatch("domain", "control_progress", "Invalid control progress model",
			prov.ControlProgress, user.ControlProgress)
	}
	if !ProgressCompatible(prov.DataProgress, user.DataProgress) {
		return c.mismatch("domain", "data_progress", "Invalid data progress model",
			prov.DataProgress, user.DataProgress)
	}
	if !ResourceMgmtCompatible(prov.ResourceMgmt, user.ResourceMgmt) {
		return c.mismatch("domain", "resource_mgmt", "Invalid resource mgmt model",
			prov.ResourceMgmt, user.ResourceMgmt)
	}
	if prov.AVType != fabric.AVUnspec && user.AVType != fabric.AVUnspec && prov.AVType != user.AVType {
		return c.mismatch("domain", "av_type", "Invalid AV type", prov.AVType, user.AVType)
	}
	if user.MRMode != fabric.MRUnspec && user.MRMode != prov.MRMode {
		return c.mismatch("domain", "mr_mode", "Invalid memory registration mode", prov.MRMode, user.MRMode)
	}
	if user.CQDataSize > prov.CQDataSize {
		return c.mismatch("domain", "cq_data_size", "CQ data size too large", num(prov.CQDataSize), num(user.CQDataSize))
	}
	return nil
}

// Endpoint validates the endpoint type, protocol and message size.
func (c *Checker) Endpoint(prov, user *fabric.EndpointAttr) error {
	if user.Type != fabric.EPUnspec && user.Type != prov.Type {
		return c.mismatch("ep", "type", "Unsupported endpoint type", prov.Type, user.Type)
	}
	if user.Protocol != fabric.ProtoUnspec && user.Protocol != prov.Protocol {
		return c.mismatch("ep", "protocol", "Unsupported protocol", prov.Protocol, user.Protocol)
	}
	if user.ProtocolVersion != 0 && user.ProtocolVersion > prov.ProtocolVersion {
		return c.mismatch("ep", "protocol_version", "Unsupported protocol version",
			num(uint64(prov.ProtocolVersion)), num(uint64(user.ProtocolVersion)))
	}
	if user.MaxMsgSize > prov.MaxMsgSize {
		return c.mismatch("ep", "max_msg_size", "Max message size too large", num(prov.MaxMsgSize), num(user.MaxMsgSize))
	}
	return nil
}

// Rx validates a receive context request.
func (c *Checker) Rx(prov, user *fabric.RxAttr) error {
	if !user.Caps.IsSubsetOf(prov.Caps) {
		return c.mismatch("rx", "caps", "caps not supported", prov.Caps, user.Caps)
	}
	if !user.Mode.IsSupersetOf(prov.Mode) {
		return c.mismatch("rx", "mode", "needed mode not set", prov.Mode, user.Mode)
	}
	if !c.Options.LegacyOpFlags && !user.OpFlags.IsSubsetOf(prov.OpFlags) {
		return c.mismatch("rx", "op_flags", "op_flags not supported", prov.OpFlags, user.OpFlags)
	}
	if !user.MsgOrder.IsSubsetOf(prov.MsgOrder) {
		return c.mismatch("rx", "msg_order", "msg_order not supported", prov.MsgOrder, user.MsgOrder)
	}
	if !user.CompOrder.IsSubsetOf(prov.CompOrder) {
		return c.mismatch("rx", "comp_order", "comp_order not supported", prov.CompOrder, user.CompOrder)
	}
	if user.TotalBufferedRecv > prov.TotalBufferedRecv {
		return c.mismatch("rx", "total_buffered_recv", "total_buffered_recv too large",
			num(prov.TotalBufferedRecv), num(user.TotalBufferedRecv))
	}
	if user.Size > prov.Size {
		return c.mismatch("rx", "size", "size is greater than supported", num(prov.Size), num(user.Size))
	}
	if user.IOVLimit > prov.IOVLimit {
		return c.mismatch("rx", "iov_limit", "iov_limit too large", num(prov.IOVLimit), num(user.IOVLimit))
	}
	return nil
}

// Tx validates a transmit context request.
func (c *Checker) Tx(prov, user *fabric.TxAttr) error {
	if !user.Caps.IsSubsetOf(prov.Caps) {
		return c.mismatch("tx", "caps", "caps not supported", prov.Caps, user.Caps)
	}
	if !user.Mode.IsSupersetOf(prov.Mode) {
		return c.mismatch("tx", "mode", "needed mode not set", prov.Mode, user.Mode)
	}
	if !c.Options.LegacyOpFlags && !user.OpFlags.IsSubsetOf(prov.OpFlags) {
		return c.mismatch("tx", "op_flags", "op_flags not supported", prov.OpFlags, user.OpFlags)
	}
	if !user.MsgOrder.IsSubsetOf(prov.MsgOrder) {
		return c.mismatch("tx", "msg_order", "msg_order not supported", prov.MsgOrder, user.MsgOrder)
	}
	if !user.CompOrder.IsSubsetOf(prov.CompOrder) {
		return c.mismatch("tx", "comp_order", "comp_order not supported", prov.CompOrder, user.CompOrder)
	}
	if user.InjectSize > prov.InjectSize {
		return c.mismatch("tx", "inject_size", "inject_size too large", num(prov.InjectSize), num(user.InjectSize))
	}
	if user.Size > prov.Size {
		return c.mismatch("tx", "size", "size is greater than supported", num(prov.Size), num(user.Size))
	}
	if user.IOVLimit > prov.IOVLimit {
		return c.mismatch("tx", "iov_limit", "iov_limit too large", num(prov.IOVLimit), num(user.IOVLimit))
	}
	if user.RMAIOVLimit > prov.RMAIOVLimit {
		return c.mismatch("tx", "rma_iov_limit", "rma_iov_limit too large", num(prov.RMAIOVLimit), num(user.RMAIOVLimit))
	}
	return nil
}

// NameMatches compares a requested name with a provider's declared name.
// In Layered mode only the requested name's first segment is compared.
// A requested name with no segments never matches.
func NameMatches(requested, declared string, mode Mode) bool {
	if mode != Layered {
		return strings.EqualFold(requested, declared)
	}

	toks, err := names.Parse(requested, 1, true)
	if err != nil {
		return false
	}
	defer toks.Release()
	return strings.EqualFold(string(toks.Bytes(0)), declared)
}

func (c *Checker) mismatch(group, field, msg string, supported, requested any) error {
	err := &fabric.MismatchError{
		Group:     group,
		Field:     field,
		Supported: fmt.Sprint(supported),
		Requested: fmt.Sprint(requested),
	}
	log.Emit(c.Logger, log.Event{
		NegotiationID: c.NegotiationID,
		Level:         log.LevelInfo,
		Subsystem:     log.SubsystemCore,
		Provider:      c.Provider,
		Message:       msg,
		Mismatch: &log.MismatchEvent{
			Group:     err.Group,
			Field:     err.Field,
			Supported: err.Supported,
			Requested: err.Requested,
		},
	})
	return err
}

func orZero[T any](p *T) *T {
	if p == nil {
		return new(T)
	}
	return p
}

func num(v uint64) string {
	return strconv.FormatUint(v, 10)
}
