package fabric

// FabricAttr describes the fabric a provider exposes.
type FabricAttr struct {
	Name        string `cbor:"1,keyasint,omitempty" json:"name,omitempty"`
	ProvName    string `cbor:"2,keyasint,omitempty" json:"prov_name,omitempty"`
	ProvVersion uint32 `cbor:"3,keyasint,omitempty" json:"prov_version,omitempty"`
}

// DomainAttr describes a resource domain within a fabric.
type DomainAttr struct {
	Name            string       `cbor:"1,keyasint,omitempty" json:"name,omitempty"`
	Threading       Threading    `cbor:"2,keyasint,omitempty" json:"threading"`
	ControlProgress Progress     `cbor:"3,keyasint,omitempty" json:"control_progress"`
	DataProgress    Progress     `cbor:"4,keyasint,omitempty" json:"data_progress"`
	ResourceMgmt    ResourceMgmt `cbor:"5,keyasint,omitempty" json:"resource_mgmt"`
	AVType          AVType       `cbor:"6,keyasint,omitempty" json:"av_type"`
	MRMode          MRMode       `cbor:"7,keyasint,omitempty" json:"mr_mode"`
	CQDataSize      uint64       `cbor:"8,keyasint,omitempty" json:"cq_data_size,omitempty"`
}

// EndpointAttr describes the endpoints a provider can open.
type EndpointAttr struct {
	Type            EndpointType `cbor:"1,keyasint,omitempty" json:"type"`
	Protocol        Protocol     `cbor:"2,keyasint,omitempty" json:"protocol"`
	ProtocolVersion uint32       `cbor:"3,keyasint,omitempty" json:"protocol_version,omitempty"`
	MaxMsgSize      uint64       `cbor:"4,keyasint,omitempty" json:"max_msg_size,omitempty"`
	MsgPrefixSize   uint64       `cbor:"5,keyasint,omitempty" json:"msg_prefix_size,omitempty"`
	TxCtxCnt        uint64       `cbor:"6,keyasint,omitempty" json:"tx_ctx_cnt,omitempty"`
	RxCtxCnt        uint64       `cbor:"7,keyasint,omitempty" json:"rx_ctx_cnt,omitempty"`
}

// RxAttr describes a receive context.
type RxAttr struct {
	Caps              Caps    `cbor:"1,keyasint,omitempty" json:"caps"`
	Mode              Mode    `cbor:"2,keyasint,omitempty" json:"mode"`
	OpFlags           OpFlags `cbor:"3,keyasint,omitempty" json:"op_flags"`
	MsgOrder          Order   `cbor:"4,keyasint,omitempty" json:"msg_order"`
	CompOrder         Order   `cbor:"5,keyasint,omitempty" json:"comp_order"`
	TotalBufferedRecv uint64  `cbor:"6,keyasint,omitempty" json:"total_buffered_recv,omitempty"`
	Size              uint64  `cbor:"7,keyasint,omitempty" json:"size,omitempty"`
	IOVLimit          uint64  `cbor:"8,keyasint,omitempty" json:"iov_limit,omitempty"`
}

// TxAttr describes a transmit context.
type TxAttr struct {
	Caps        Caps    `cbor:"1,keyasint,omitempty" json:"caps"`
	Mode        Mode    `cbor:"2,keyasint,omitempty" json:"mode"`
	OpFlags     OpFlags `cbor:"3,keyasint,omitempty" json:"op_flags"`
	MsgOrder    Order   `cbor:"4,keyasint,omitempty" json:"msg_order"`
	CompOrder   Order   `cbor:"5,keyasint,omitempty" json:"comp_order"`
	InjectSize  uint64  `cbor:"6,keyasint,omitempty" json:"inject_size,omitempty"`
	Size        uint64  `cbor:"7,keyasint,omitempty" json:"size,omitempty"`
	IOVLimit    uint64  `cbor:"8,keyasint,omitempty" json:"iov_limit,omitempty"`
	RMAIOVLimit uint64  `cbor:"9,keyasint,omitempty" json:"rma_iov_limit,omitempty"`
}

// Info aggregates everything a provider offers, or everything a consumer
// requests, for one fabric/domain/endpoint combination.
type Info struct {
	Caps       Caps       `cbor:"1,keyasint,omitempty" json:"caps"`
	Mode       Mode       `cbor:"2,keyasint,omitempty" json:"mode"`
	AddrFormat AddrFormat `cbor:"3,keyasint,omitempty" json:"addr_format"`

	Tx       *TxAttr       `cbor:"4,keyasint,omitempty" json:"tx_attr,omitempty"`
	Rx       *RxAttr       `cbor:"5,keyasint,omitempty" json:"rx_attr,omitempty"`
	Endpoint *EndpointAttr `cbor:"6,keyasint,omitempty" json:"ep_attr,omitempty"`
	Domain   *DomainAttr   `cbor:"7,keyasint,omitempty" json:"domain_attr,omitempty"`
	Fabric   *FabricAttr   `cbor:"8,keyasint,omitempty" json:"fabric_attr,omitempty"`
}

// NewInfo returns an Info with every attribute group allocated and zeroed.
func NewInfo() *Info {
	return &Info{
		Tx:       &TxAttr{},
		Rx:       &RxAttr{},
		Endpoint: &EndpointAttr{},
		Domain:   &DomainAttr{},
		Fabric:   &FabricAttr{},
	}
}

// Clone returns a deep copy of info. Absent groups stay absent.
// Clone of a nil Info is nil.
func (info *Info) Clone() *Info {
	if info == nil {
		return nil
	}
	dup := *info
	if info.Tx != nil {
		tx := *info.Tx
		dup.Tx = &tx
	}
	if info.Rx != nil {
		rx := *info.Rx
		dup.Rx = &rx
	}
	if info.Endpoint != nil {
		ep := *info.Endpoint
		dup.Endpoint = &ep
	}
	if info.Domain != nil {
		dom := *info.Domain
		dup.Domain = &dom
	}
	if info.Fabric != nil {
		fab := *info.Fabric
		dup.Fabric = &fab
	}
	return &dup
}

// FabricName returns the fabric name, or "" when the fabric group is absent.
func (info *Info) FabricName() string {
	if info == nil || info.Fabric == nil {
		return ""
	}
	return info.Fabric.Name
}

// DomainName returns the domain name, or "" when the domain group is absent.
func (info *Info) DomainName() string {
	if info == nil || info.Domain == nil {
		return ""
	}
	return info.Domain.Name
}
