package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerfab/layerfab-go/pkg/check"
	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/layer"
	"github.com/layerfab/layerfab-go/pkg/log"
	"github.com/layerfab/layerfab-go/pkg/version"
)

func tcpInfos() []*fabric.Info {
	msg := &fabric.Info{
		Caps:       fabric.CapMsg | fabric.CapSend | fabric.CapRecv | fabric.CapSource,
		AddrFormat: fabric.SockAddr,
		Fabric:     &fabric.FabricAttr{Name: "eth0"},
		Domain:     &fabric.DomainAttr{Name: "eth0", Threading: fabric.ThreadSafe},
		Endpoint:   &fabric.EndpointAttr{Type: fabric.EPMsg, Protocol: fabric.ProtoSockTCP, MaxMsgSize: 1 << 24},
		Rx:         &fabric.RxAttr{Caps: fabric.CapMsg | fabric.CapRecv | fabric.CapSource, Size: 1024, IOVLimit: 4},
		Tx:         &fabric.TxAttr{Caps: fabric.CapMsg | fabric.CapSend, Size: 1024, IOVLimit: 4, InjectSize: 64},
	}
	rdm := msg.Clone()
	rdm.Endpoint.Type = fabric.EPRDM
	rdm.Caps |= fabric.CapTagged
	rdm.Fabric.Name = "lo"
	rdm.Domain.Name = "lo"
	return []*fabric.Info{msg, rdm}
}

func newTCP(t *testing.T) *Static {
	t.Helper()
	s, err := NewStatic(Config{
		Name:    "tcp",
		Version: version.MustParse("1.2").Uint32(),
		Infos:   tcpInfos(),
	})
	require.NoError(t, err)
	return s
}

func TestNewStaticValidation(t *testing.T) {
	_, err := NewStatic(Config{Infos: tcpInfos()})
	assert.ErrorIs(t, err, ErrNoName)

	_, err = NewStatic(Config{Name: "tcp"})
	assert.ErrorIs(t, err, ErrNoInfos)

	_, err = NewStatic(Config{Name: "tcp", Infos: []*fabric.Info{nil}})
	assert.Error(t, err)
}

func TestNewStaticStampsProvider(t *testing.T) {
	s := newTCP(t)
	for _, info := range s.Infos() {
		assert.Equal(t, "tcp", info.Fabric.ProvName)
		assert.Equal(t, uint32(0x00010002), info.Fabric.ProvVersion)
	}
}

func TestNewStaticCopiesInfos(t *testing.T) {
	infos := tcpInfos()
	s, err := NewStatic(Config{Name: "tcp", Infos: infos})
	require.NoError(t, err)

	infos[0].Fabric.Name = "changed"
	assert.Equal(t, "eth0", s.Infos()[0].Fabric.Name)
}

func TestGetInfoNilHintsReturnsFirst(t *testing.T) {
	s := newTCP(t)

	info, err := s.GetInfo(layer.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "eth0", info.FabricName())
	assert.Equal(t, int64(1), s.Outstanding())

	s.FreeInfo(info)
	assert.Zero(t, s.Outstanding())
}

func TestGetInfoSelectsMatchingInfo(t *testing.T) {
	s := newTCP(t)

	info, err := s.GetInfo(layer.Request{}, &fabric.Info{
		Caps:     fabric.CapTagged,
		Endpoint: &fabric.EndpointAttr{Type: fabric.EPRDM},
	})
	require.NoError(t, err)
	defer s.FreeInfo(info)

	assert.Equal(t, "lo", info.FabricName())
	// Hints narrow primary caps; the secondary SOURCE bit stays.
	assert.Equal(t, fabric.CapTagged|fabric.CapSource, info.Caps)
}

func TestGetInfoReturnsCopies(t *testing.T) {
	s := newTCP(t)

	a, err := s.GetInfo(layer.Request{}, nil)
	require.NoError(t, err)
	a.Domain.Name = "mutated"

	b, err := s.GetInfo(layer.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "eth0", b.DomainName())
}

func TestGetInfoNoMatch(t *testing.T) {
	s := newTCP(t)

	_, err := s.GetInfo(layer.Request{}, &fabric.Info{Caps: fabric.CapAtomic})
	require.Error(t, err)
	assert.ErrorIs(t, err, fabric.ErrMismatch)

	var me *fabric.MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "caps", me.Field)
	assert.Zero(t, s.Outstanding())
}

func TestGetInfoProviderNameFilter(t *testing.T) {
	s := newTCP(t)

	_, err := s.GetInfo(layer.Request{}, &fabric.Info{Fabric: &fabric.FabricAttr{ProvName: "verbs"}})
	var me *fabric.MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "prov_name", me.Field)

	info, err := s.GetInfo(layer.Request{}, &fabric.Info{Fabric: &fabric.FabricAttr{ProvName: "TCP", Name: "lo"}})
	require.NoError(t, err)
	assert.Equal(t, "lo", info.FabricName())
}

func TestGetInfoAPIVersion(t *testing.T) {
	s := newTCP(t)

	_, err := s.GetInfo(layer.Request{Version: version.MustParse("2.0").Uint32()}, nil)
	assert.ErrorIs(t, err, fabric.ErrMismatch)

	info, err := s.GetInfo(layer.Request{Version: version.MustParse("1.3").Uint32()}, nil)
	require.NoError(t, err)
	assert.NotNil(t, info)
}

type eventSink struct{ events []log.Event }

func (s *eventSink) Log(e log.Event) { s.events = append(s.events, e) }

func TestGetInfoTagsDiagnosticsWithNegotiationID(t *testing.T) {
	sink := &eventSink{}
	s, err := NewStatic(Config{
		Name:    "tcp",
		Version: version.MustParse("1.2").Uint32(),
		Infos:   tcpInfos(),
		Logger:  sink,
	})
	require.NoError(t, err)

	req := layer.Request{NegotiationID: "neg-9"}
	_, err = s.GetInfo(req, &fabric.Info{Caps: fabric.CapAtomic})
	require.Error(t, err)
	_, err = s.GetInfo(req, &fabric.Info{Fabric: &fabric.FabricAttr{ProvName: "verbs"}})
	require.Error(t, err)
	req.Version = version.MustParse("2.0").Uint32()
	_, err = s.GetInfo(req, nil)
	require.Error(t, err)

	require.GreaterOrEqual(t, len(sink.events), 3)
	for _, ev := range sink.events {
		assert.Equal(t, "neg-9", ev.NegotiationID, ev.Message)
	}
}

func TestGetInfoLegacyOpFlags(t *testing.T) {
	hints := &fabric.Info{Tx: &fabric.TxAttr{OpFlags: fabric.OpInject}}

	_, err := newTCP(t).GetInfo(layer.Request{}, hints)
	assert.ErrorIs(t, err, fabric.ErrMismatch)

	legacy, err := NewStatic(Config{Name: "tcp", Infos: tcpInfos(), CheckOptions: check.Options{LegacyOpFlags: true}})
	require.NoError(t, err)
	info, err := legacy.GetInfo(layer.Request{}, hints)
	require.NoError(t, err)
	assert.Equal(t, fabric.OpInject, info.Tx.OpFlags)
}

func TestFreeInfoNil(t *testing.T) {
	s := newTCP(t)
	s.FreeInfo(nil)
	assert.Zero(t, s.Outstanding())
}
