package profile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/version"
)

// InfoSpec is the YAML form of a fabric.Info. Absent groups stay absent.
type InfoSpec struct {
	Caps       []string      `yaml:"caps,omitempty"`
	Mode       []string      `yaml:"mode,omitempty"`
	AddrFormat string        `yaml:"addr_format,omitempty"`
	Fabric     *FabricSpec   `yaml:"fabric,omitempty"`
	Domain     *DomainSpec   `yaml:"domain,omitempty"`
	Endpoint   *EndpointSpec `yaml:"ep,omitempty"`
	Rx         *RxSpec       `yaml:"rx,omitempty"`
	Tx         *TxSpec       `yaml:"tx,omitempty"`
}

// FabricSpec is the YAML form of fabric.FabricAttr.
type FabricSpec struct {
	Name        string `yaml:"name,omitempty"`
	ProvName    string `yaml:"prov_name,omitempty"`
	ProvVersion string `yaml:"prov_version,omitempty"`
}

// DomainSpec is the YAML form of fabric.DomainAttr.
type DomainSpec struct {
	Name            string `yaml:"name,omitempty"`
	Threading       string `yaml:"threading,omitempty"`
	ControlProgress string `yaml:"control_progress,omitempty"`
	DataProgress    string `yaml:"data_progress,omitempty"`
	ResourceMgmt    string `yaml:"resource_mgmt,omitempty"`
	AVType          string `yaml:"av_type,omitempty"`
	MRMode          string `yaml:"mr_mode,omitempty"`
	CQDataSize      uint64 `yaml:"cq_data_size,omitempty"`
}

// EndpointSpec is the YAML form of fabric.EndpointAttr.
type EndpointSpec struct {
	Type            string `yaml:"type,omitempty"`
	Protocol        string `yaml:"protocol,omitempty"`
	ProtocolVersion uint32 `yaml:"protocol_version,omitempty"`
	MaxMsgSize      uint64 `yaml:"max_msg_size,omitempty"`
	MsgPrefixSize   uint64 `yaml:"msg_prefix_size,omitempty"`
	TxCtxCnt        uint64 `yaml:"tx_ctx_cnt,omitempty"`
	RxCtxCnt        uint64 `yaml:"rx_ctx_cnt,omitempty"`
}

// RxSpec is the YAML form of fabric.RxAttr.
type RxSpec struct {
	Caps              []string `yaml:"caps,omitempty"`
	Mode              []string `yaml:"mode,omitempty"`
	OpFlags           []string `yaml:"op_flags,omitempty"`
	MsgOrder          []string `yaml:"msg_order,omitempty"`
	CompOrder         []string `yaml:"comp_order,omitempty"`
	TotalBufferedRecv uint64   `yaml:"total_buffered_recv,omitempty"`
	Size              uint64   `yaml:"size,omitempty"`
	IOVLimit          uint64   `yaml:"iov_limit,omitempty"`
}

// TxSpec is the YAML form of fabric.TxAttr.
type TxSpec struct {
	Caps        []string `yaml:"caps,omitempty"`
	Mode        []string `yaml:"mode,omitempty"`
	OpFlags     []string `yaml:"op_flags,omitempty"`
	MsgOrder    []string `yaml:"msg_order,omitempty"`
	CompOrder   []string `yaml:"comp_order,omitempty"`
	InjectSize  uint64   `yaml:"inject_size,omitempty"`
	Size        uint64   `yaml:"size,omitempty"`
	IOVLimit    uint64   `yaml:"iov_limit,omitempty"`
	RMAIOVLimit uint64   `yaml:"rma_iov_limit,omitempty"`
}

// Info converts the YAML form into a fabric.Info.
func (s *InfoSpec) Info() (*fabric.Info, error) {
	var (
		info fabric.Info
		err  error
	)
	if info.Caps, err = fabric.ParseCaps(s.Caps); err != nil {
		return nil, err
	}
	if info.Mode, err = fabric.ParseMode(s.Mode); err != nil {
		return nil, err
	}
	if info.AddrFormat, err = fabric.ParseAddrFormat(s.AddrFormat); err != nil {
		return nil, err
	}

	if s.Fabric != nil {
		if info.Fabric, err = s.Fabric.attr(); err != nil {
			return nil, fmt.Errorf("fabric: %w", err)
		}
	}
	if s.Domain != nil {
		if info.Domain, err = s.Domain.attr(); err != nil {
			return nil, fmt.Errorf("domain: %w", err)
		}
	}
	if s.Endpoint != nil {
		if info.Endpoint, err = s.Endpoint.attr(); err != nil {
			return nil, fmt.Errorf("ep: %w", err)
		}
	}
	if s.Rx != nil {
		if info.Rx, err = s.Rx.attr(); err != nil {
			return nil, fmt.Errorf("rx: %w", err)
		}
	}
	if s.Tx != nil {
		if info.Tx, err = s.Tx.attr(); err != nil {
			return nil, fmt.Errorf("tx: %w", err)
		}
	}
	return &info, nil
}

func (s *FabricSpec) attr() (*fabric.FabricAttr, error) {
	attr := &fabric.FabricAttr{Name: s.Name, ProvName: s.ProvName}
	if s.ProvVersion != "" {
		v, err := version.Parse(s.ProvVersion)
		if err != nil {
			return nil, err
		}
		attr.ProvVersion = v.Uint32()
	}
	return attr, nil
}

func (s *DomainSpec) attr() (*fabric.DomainAttr, error) {
	attr := &fabric.DomainAttr{Name: s.Name, CQDataSize: s.CQDataSize}
	var err error
	if attr.Threading, err = fabric.ParseThreading(s.Threading); err != nil {
		return nil, err
	}
	if attr.ControlProgress, err = fabric.ParseProgress(s.ControlProgress); err != nil {
		return nil, err
	}
	if attr.DataProgress, err = fabric.ParseProgress(s.DataProgress); err != nil {
		return nil, err
	}
	if attr.ResourceMgmt, err = fabric.ParseResourceMgmt(s.ResourceMgmt); err != nil {
		return nil, err
	}
	if attr.AVType, err = fabric.ParseAVType(s.AVType); err != nil {
		return nil, err
	}
	if attr.MRMode, err = fabric.ParseMRMode(s.MRMode); err != nil {
		return nil, err
	}
	return attr, nil
}

func (s *EndpointSpec) attr() (*fabric.EndpointAttr, error) {
	attr := &fabric.EndpointAttr{
		ProtocolVersion: s.ProtocolVersion,
		MaxMsgSize:      s.MaxMsgSize,
		MsgPrefixSize:   s.MsgPrefixSize,
		TxCtxCnt:        s.TxCtxCnt,
		RxCtxCnt:        s.RxCtxCnt,
	}
	var err error
	if attr.Type, err = fabric.ParseEndpointType(s.Type); err != nil {
		return nil, err
	}
	if attr.Protocol, err = fabric.ParseProtocol(s.Protocol); err != nil {
		return nil, err
	}
	return attr, nil
}

func (s *RxSpec) attr() (*fabric.RxAttr, error) {
	attr := &fabric.RxAttr{
		TotalBufferedRecv: s.TotalBufferedRecv,
		Size:              s.Size,
		IOVLimit:          s.IOVLimit,
	}
	var err error
	if attr.Caps, err = fabric.ParseCaps(s.Caps); err != nil {
		return nil, err
	}
	if attr.Mode, err = fabric.ParseMode(s.Mode); err != nil {
		return nil, err
	}
	if attr.OpFlags, err = fabric.ParseOpFlags(s.OpFlags); err != nil {
		return nil, err
	}
	if attr.MsgOrder, err = fabric.ParseOrder(s.MsgOrder); err != nil {
		return nil, err
	}
	if attr.CompOrder, err = fabric.ParseOrder(s.CompOrder); err != nil {
		return nil, err
	}
	return attr, nil
}

func (s *TxSpec) attr() (*fabric.TxAttr, error) {
	attr := &fabric.TxAttr{
		InjectSize:  s.InjectSize,
		Size:        s.Size,
		IOVLimit:    s.IOVLimit,
		RMAIOVLimit: s.RMAIOVLimit,
	}
	var err error
	if attr.Caps, err = fabric.ParseCaps(s.Caps); err != nil {
		return nil, err
	}
	if attr.Mode, err = fabric.ParseMode(s.Mode); err != nil {
		return nil, err
	}
	if attr.OpFlags, err = fabric.ParseOpFlags(s.OpFlags); err != nil {
		return nil, err
	}
	if attr.MsgOrder, err = fabric.ParseOrder(s.MsgOrder); err != nil {
		return nil, err
	}
	if attr.CompOrder, err = fabric.ParseOrder(s.CompOrder); err != nil {
		return nil, err
	}
	return attr, nil
}

// ---------------------------------------------------------------------------
// Hints
// ---------------------------------------------------------------------------

// ParseHints decodes a hints document. An empty document means no hints
// and yields nil.
func ParseHints(data []byte) (*fabric.Info, error) {
	var spec *InfoSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing hints: %w", err)
	}
	if spec == nil {
		return nil, nil
	}
	return spec.Info()
}

// LoadHints reads a hints document from disk.
func LoadHints(path string) (*fabric.Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := ParseHints(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// ---------------------------------------------------------------------------
// Rendering
// ---------------------------------------------------------------------------

// FromInfo converts a fabric.Info back into its YAML form.
func FromInfo(info *fabric.Info) *InfoSpec {
	if info == nil {
		return nil
	}
	s := &InfoSpec{
		Caps:       flagList(info.Caps.String()),
		Mode:       flagList(info.Mode.String()),
		AddrFormat: enumName(info.AddrFormat.String(), "FORMAT_UNSPEC"),
	}
	if f := info.Fabric; f != nil {
		s.Fabric = &FabricSpec{Name: f.Name, ProvName: f.ProvName}
		if f.ProvVersion != 0 {
			s.Fabric.ProvVersion = version.FromUint32(f.ProvVersion).String()
		}
	}
	if d := info.Domain; d != nil {
		s.Domain = &DomainSpec{
			Name:            d.Name,
			Threading:       enumName(d.Threading.String(), "THREAD_UNSPEC"),
			ControlProgress: enumName(d.ControlProgress.String(), "PROGRESS_UNSPEC"),
			DataProgress:    enumName(d.DataProgress.String(), "PROGRESS_UNSPEC"),
			ResourceMgmt:    enumName(d.ResourceMgmt.String(), "RM_UNSPEC"),
			AVType:          enumName(d.AVType.String(), "AV_UNSPEC"),
			MRMode:          enumName(d.MRMode.String(), "MR_UNSPEC"),
			CQDataSize:      d.CQDataSize,
		}
	}
	if e := info.Endpoint; e != nil {
		s.Endpoint = &EndpointSpec{
			Type:            enumName(e.Type.String(), "EP_UNSPEC"),
			Protocol:        enumName(e.Protocol.String(), "PROTO_UNSPEC"),
			ProtocolVersion: e.ProtocolVersion,
			MaxMsgSize:      e.MaxMsgSize,
			MsgPrefixSize:   e.MsgPrefixSize,
			TxCtxCnt:        e.TxCtxCnt,
			RxCtxCnt:        e.RxCtxCnt,
		}
	}
	if r := info.Rx; r != nil {
		s.Rx = &RxSpec{
			Caps:              flagList(r.Caps.String()),
			Mode:              flagList(r.Mode.String()),
			OpFlags:           flagList(r.OpFlags.String()),
			MsgOrder:          flagList(r.MsgOrder.String()),
			CompOrder:         flagList(r.CompOrder.String()),
			TotalBufferedRecv: r.TotalBufferedRecv,
			Size:              r.Size,
			IOVLimit:          r.IOVLimit,
		}
	}
	if t := info.Tx; t != nil {
		s.Tx = &TxSpec{
			Caps:        flagList(t.Caps.String()),
			Mode:        flagList(t.Mode.String()),
			OpFlags:     flagList(t.OpFlags.String()),
			MsgOrder:    flagList(t.MsgOrder.String()),
			CompOrder:   flagList(t.CompOrder.String()),
			InjectSize:  t.InjectSize,
			Size:        t.Size,
			IOVLimit:    t.IOVLimit,
			RMAIOVLimit: t.RMAIOVLimit,
		}
	}
	return s
}

// Marshal renders info as a YAML document.
func Marshal(info *fabric.Info) ([]byte, error) {
	return yaml.Marshal(FromInfo(info))
}

// flagList splits a rendered flag set. Empty sets render as nil.
func flagList(s string) []string {
	if s == "0" || s == "NONE" || s == "" {
		return nil
	}
	return strings.Split(s, " | ")
}

// enumName omits the unspecified variant.
func enumName(s, unspec string) string {
	if s == unspec {
		return ""
	}
	return s
}
