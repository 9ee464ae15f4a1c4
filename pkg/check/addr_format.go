package check

import "github.com/layerfab/layerfab-go/pkg/fabric"

// addrFormatAccepts lists, per provider format family, the requested
// formats that family can serve. Families absent from the table require an
// exact match.
var addrFormatAccepts = map[fabric.AddrFormat][]fabric.AddrFormat{
	fabric.SockAddr:    {fabric.SockAddr, fabric.SockAddrIn, fabric.SockAddrIn6},
	fabric.SockAddrIn:  {fabric.SockAddrIn},
	fabric.SockAddrIn6: {fabric.SockAddrIn6},
	fabric.SockAddrIB:  {fabric.SockAddrIB},
}

// AddrFormatCompatible reports whether a provider declaring offered can serve
// a request for requested. An unspecified request always passes.
func AddrFormatCompatible(offered, requested fabric.AddrFormat) bool {
	if requested == fabric.FormatUnspec {
		return true
	}
	accepts, ok := addrFormatAccepts[offered]
	if !ok {
		return offered == requested
	}
	for _, f := range accepts {
		if f == requested {
			return true
		}
	}
	return false
}
