package layer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/layerfab/layerfab-go/pkg/fabric"
	"github.com/layerfab/layerfab-go/pkg/log"
)

// ---------------------------------------------------------------------------
// stubProvider
// ---------------------------------------------------------------------------

type stubProvider struct{ mock.Mock }

func (p *stubProvider) GetInfo(req Request, hints *fabric.Info) (*fabric.Info, error) {
	ret := p.Called(req, hints)
	var info *fabric.Info
	if ret.Get(0) != nil {
		info = ret.Get(0).(*fabric.Info)
	}
	return info, ret.Error(1)
}
func (p *stubProvider) FreeInfo(info *fabric.Info) { p.Called(info) }

// ---------------------------------------------------------------------------
// stubTranslator
// ---------------------------------------------------------------------------

type stubTranslator struct{ mock.Mock }

func (t *stubTranslator) LayerToBase(hints *fabric.Info) (*fabric.Info, error) {
	ret := t.Called(hints)
	var info *fabric.Info
	if ret.Get(0) != nil {
		info = ret.Get(0).(*fabric.Info)
	}
	return info, ret.Error(1)
}
func (t *stubTranslator) BaseToLayer(base *fabric.Info) (*fabric.Info, error) {
	ret := t.Called(base)
	var info *fabric.Info
	if ret.Get(0) != nil {
		info = ret.Get(0).(*fabric.Info)
	}
	return info, ret.Error(1)
}
func (t *stubTranslator) Release(baseHints *fabric.Info) { t.Called(baseHints) }

type recordingLogger struct{ events []log.Event }

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func rxmInfo() *fabric.Info {
	return &fabric.Info{
		Caps:     fabric.CapMsg | fabric.CapTagged | fabric.CapSend | fabric.CapRecv,
		Fabric:   &fabric.FabricAttr{Name: "rxm"},
		Domain:   &fabric.DomainAttr{Name: "rxm"},
		Endpoint: &fabric.EndpointAttr{Type: fabric.EPRDM, Protocol: fabric.ProtoRXM, MaxMsgSize: 1 << 30},
	}
}

func verbsResult() *fabric.Info {
	return &fabric.Info{
		Caps:     fabric.CapMsg | fabric.CapTagged,
		Fabric:   &fabric.FabricAttr{Name: "IB-1234", ProvName: "verbs", ProvVersion: 0x00010000},
		Domain:   &fabric.DomainAttr{Name: "mlx5_0"},
		Endpoint: &fabric.EndpointAttr{Type: fabric.EPMsg},
	}
}

func newStubLayer(t *testing.T, base Provider, tr Translator, logger log.Logger) *Layer {
	t.Helper()
	l, err := New(Config{
		Name:       "rxm",
		Version:    0x00010001,
		Info:       rxmInfo(),
		Base:       base,
		Translator: tr,
		Logger:     logger,
	})
	require.NoError(t, err)
	return l
}

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestNewValidation(t *testing.T) {
	base := &stubProvider{}

	_, err := New(Config{Info: rxmInfo(), Base: base})
	assert.ErrorIs(t, err, ErrNoName)

	_, err = New(Config{Name: "rxm", Base: base})
	assert.ErrorIs(t, err, ErrNoInfo)

	_, err = New(Config{Name: "rxm", Info: rxmInfo()})
	assert.ErrorIs(t, err, ErrNoBase)

	l, err := New(Config{Name: "rxm", Info: rxmInfo(), Base: base})
	require.NoError(t, err)
	assert.IsType(t, &NameTranslator{}, l.tr)
	assert.Equal(t, "rxm", l.Name())
	assert.Same(t, base, l.Base())
}

func TestGetInfoCheckFailureAllocatesNothing(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	logger := &recordingLogger{}
	l := newStubLayer(t, base, tr, logger)

	_, err := l.GetInfo(Request{}, &fabric.Info{Caps: fabric.CapAtomic})
	assert.ErrorIs(t, err, fabric.ErrMismatch)

	tr.AssertNotCalled(t, "LayerToBase", mock.Anything)
	base.AssertNotCalled(t, "GetInfo", mock.Anything, mock.Anything)

	require.Len(t, logger.events, 1)
	assert.NotEmpty(t, logger.events[0].NegotiationID)
	assert.Equal(t, "rxm", logger.events[0].Provider)
}

func TestGetInfoLayeredNameCheck(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)

	_, err := l.GetInfo(Request{}, &fabric.Info{Fabric: &fabric.FabricAttr{Name: "tcp_sockets_eth0"}})
	var me *fabric.MismatchError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, "fabric", me.Group)
	assert.Equal(t, "name", me.Field)
}

func TestGetInfoTranslationFailure(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)

	tr.On("LayerToBase", mock.Anything).Return(nil, fabric.ErrNoMemory)

	_, err := l.GetInfo(Request{}, nil)
	assert.ErrorIs(t, err, fabric.ErrNoMemory)

	tr.AssertNotCalled(t, "Release", mock.Anything)
	base.AssertNotCalled(t, "GetInfo", mock.Anything, mock.Anything)
}

func TestGetInfoBaseFailureReleasesHints(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)

	baseHints := &fabric.Info{}
	tr.On("LayerToBase", mock.Anything).Return(baseHints, nil)
	tr.On("Release", baseHints).Return().Once()
	base.On("GetInfo", mock.Anything, baseHints).Return(nil, fabric.ErrMismatch)

	_, err := l.GetInfo(Request{}, nil)
	assert.ErrorIs(t, err, fabric.ErrMismatch)

	tr.AssertExpectations(t)
	tr.AssertNumberOfCalls(t, "Release", 1)
	base.AssertNotCalled(t, "FreeInfo", mock.Anything)
}

func TestGetInfoReturnBaseTransfersOwnership(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)

	baseHints := &fabric.Info{}
	baseInfo := verbsResult()
	tr.On("LayerToBase", mock.Anything).Return(baseHints, nil)
	tr.On("Release", baseHints).Return().Once()
	base.On("GetInfo", mock.Anything, baseHints).Return(baseInfo, nil)

	info, err := l.GetInfo(Request{ReturnBase: true}, nil)
	require.NoError(t, err)
	assert.Same(t, baseInfo, info)

	base.AssertNotCalled(t, "FreeInfo", mock.Anything)
	tr.AssertNotCalled(t, "BaseToLayer", mock.Anything)
	tr.AssertNumberOfCalls(t, "Release", 1)
}

func TestGetInfoTranslatesAndFreesBase(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)

	baseHints := &fabric.Info{}
	baseInfo := verbsResult()
	layered := &fabric.Info{Fabric: &fabric.FabricAttr{Name: "rxm_verbs_IB-1234"}}

	tr.On("LayerToBase", mock.Anything).Return(baseHints, nil)
	tr.On("Release", baseHints).Return().Once()
	base.On("GetInfo", mock.Anything, baseHints).Return(baseInfo, nil)
	tr.On("BaseToLayer", baseInfo).Return(layered, nil)
	base.On("FreeInfo", baseInfo).Return().Once()

	info, err := l.GetInfo(Request{}, nil)
	require.NoError(t, err)
	assert.Same(t, layered, info)

	base.AssertExpectations(t)
	tr.AssertExpectations(t)
}

func TestGetInfoBaseToLayerFailureReleasesEverything(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)

	baseHints := &fabric.Info{}
	baseInfo := verbsResult()

	tr.On("LayerToBase", mock.Anything).Return(baseHints, nil)
	tr.On("Release", baseHints).Return().Once()
	base.On("GetInfo", mock.Anything, baseHints).Return(baseInfo, nil)
	tr.On("BaseToLayer", baseInfo).Return(nil, fabric.ErrNoMemory)
	base.On("FreeInfo", baseInfo).Return().Once()

	info, err := l.GetInfo(Request{}, nil)
	assert.Nil(t, info)
	assert.ErrorIs(t, err, fabric.ErrNoMemory)

	base.AssertExpectations(t)
	tr.AssertExpectations(t)
}

func TestNewStampsProviderIdentity(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)
	assert.Equal(t, "rxm", l.info.Fabric.ProvName)
	assert.Equal(t, uint32(0x00010001), l.info.Fabric.ProvVersion)

	hints := &fabric.Info{Fabric: &fabric.FabricAttr{ProvName: "rxm", ProvVersion: 0x00010001}}
	tr.On("LayerToBase", hints).Return(&fabric.Info{}, nil)
	tr.On("Release", mock.Anything).Return()
	tr.On("BaseToLayer", mock.Anything).Return(rxmInfo(), nil)
	base.On("GetInfo", mock.Anything, mock.Anything).Return(verbsResult(), nil)
	base.On("FreeInfo", mock.Anything).Return()

	_, err := l.GetInfo(Request{}, hints)
	require.NoError(t, err)

	newer := &fabric.Info{Fabric: &fabric.FabricAttr{ProvVersion: 0x00010002}}
	_, err = l.GetInfo(Request{}, newer)
	require.Error(t, err)
}

func TestGetInfoForwardsGeneratedNegotiationID(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	logger := &recordingLogger{}
	l := newStubLayer(t, base, tr, logger)

	baseHints := &fabric.Info{}
	tr.On("LayerToBase", mock.Anything).Return(baseHints, nil)
	tr.On("Release", baseHints).Return()
	base.On("GetInfo", mock.MatchedBy(func(r Request) bool {
		return r.NegotiationID != ""
	}), baseHints).Return(verbsResult(), nil).Once()
	tr.On("BaseToLayer", mock.Anything).Return(rxmInfo(), nil)
	base.On("FreeInfo", mock.Anything).Return()

	_, err := l.GetInfo(Request{}, nil)
	require.NoError(t, err)
	base.AssertExpectations(t)

	forwarded := base.Calls[0].Arguments.Get(0).(Request)
	require.NotEmpty(t, logger.events)
	for _, ev := range logger.events {
		assert.Equal(t, forwarded.NegotiationID, ev.NegotiationID)
	}
}

func TestGetInfoPassesRequestThrough(t *testing.T) {
	base := &stubProvider{}
	tr := &stubTranslator{}
	l := newStubLayer(t, base, tr, nil)

	req := Request{
		Version:       0x00010005,
		Node:          "10.0.0.1",
		Service:       "7471",
		Flags:         0x4,
		ReturnBase:    true,
		NegotiationID: "neg-7",
	}
	want := req
	want.ReturnBase = false

	baseHints := &fabric.Info{}
	tr.On("LayerToBase", mock.Anything).Return(baseHints, nil)
	tr.On("Release", baseHints).Return()
	base.On("GetInfo", want, baseHints).Return(verbsResult(), nil).Once()

	_, err := l.GetInfo(req, nil)
	require.NoError(t, err)
	base.AssertExpectations(t)
}

func TestGetInfoAppliesAlteration(t *testing.T) {
	base := &stubProvider{}
	l := newStubLayer(t, base, nil, nil)

	baseInfo := verbsResult()
	baseInfo.Endpoint.TxCtxCnt = 1
	base.On("GetInfo", mock.Anything, mock.Anything).Return(baseInfo, nil)
	base.On("FreeInfo", baseInfo).Return()

	info, err := l.GetInfo(Request{}, &fabric.Info{
		Caps:     fabric.CapTagged,
		Endpoint: &fabric.EndpointAttr{TxCtxCnt: 8},
	})
	require.NoError(t, err)

	assert.Equal(t, fabric.CapTagged, info.Caps)
	assert.Equal(t, uint64(8), info.Endpoint.TxCtxCnt)
	assert.Equal(t, "rxm_verbs_IB-1234", info.FabricName())
	assert.Equal(t, "rxm_mlx5_0", info.DomainName())
	assert.Equal(t, "rxm", info.Fabric.ProvName)
	assert.Equal(t, uint32(0x00010001), info.Fabric.ProvVersion)

	// The base record is never modified.
	assert.Equal(t, "IB-1234", baseInfo.FabricName())
}

func TestGetInfoUsesFreshNegotiationIDs(t *testing.T) {
	logger := &recordingLogger{}
	l := newStubLayer(t, &stubProvider{}, &stubTranslator{}, logger)

	hints := &fabric.Info{Caps: fabric.CapAtomic}
	_, _ = l.GetInfo(Request{}, hints)
	_, _ = l.GetInfo(Request{}, hints)

	require.Len(t, logger.events, 2)
	assert.NotEqual(t, logger.events[0].NegotiationID, logger.events[1].NegotiationID)
}
