package alter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/layerfab/layerfab-go/pkg/fabric"
)

func providerInfo() *fabric.Info {
	return &fabric.Info{
		Caps:     fabric.CapMsg | fabric.CapTagged | fabric.CapRMA | fabric.CapMultiRecv | fabric.CapSource,
		Endpoint: &fabric.EndpointAttr{TxCtxCnt: 1, RxCtxCnt: 1, MaxMsgSize: 1 << 20},
		Rx: &fabric.RxAttr{
			Caps:              fabric.CapMsg | fabric.CapTagged | fabric.CapRecv | fabric.CapMultiRecv,
			OpFlags:           fabric.OpCompletion,
			TotalBufferedRecv: 4096,
			Size:              1024,
			IOVLimit:          4,
		},
		Tx: &fabric.TxAttr{
			Caps:        fabric.CapMsg | fabric.CapTagged | fabric.CapSend | fabric.CapFence,
			OpFlags:     fabric.OpCompletion,
			InjectSize:  64,
			Size:        512,
			IOVLimit:    4,
			RMAIOVLimit: 1,
		},
		Domain: &fabric.DomainAttr{Name: "mlx5_0"},
	}
}

func TestApplyNilHintsIsNoop(t *testing.T) {
	info := providerInfo()
	Apply(info, nil)
	assert.Equal(t, providerInfo(), info)
}

func TestApplyNilInfo(t *testing.T) {
	assert.NotPanics(t, func() { Apply(nil, providerInfo()) })
}

func TestApplyIsPure(t *testing.T) {
	hints := &fabric.Info{
		Caps: fabric.CapMsg,
		Rx:   &fabric.RxAttr{Caps: fabric.CapMsg | fabric.CapRecv, Size: 16},
	}

	a := providerInfo()
	b := providerInfo()
	Apply(a, hints.Clone())
	Apply(b, hints.Clone())
	assert.Equal(t, a, b)
}

func TestApplyTopLevelCaps(t *testing.T) {
	info := providerInfo()
	Apply(info, &fabric.Info{Caps: fabric.CapTagged | fabric.CapTrigger})

	// Secondary bits in the hint are ignored; the provider's are kept.
	assert.Equal(t, fabric.CapTagged|fabric.CapMultiRecv|fabric.CapSource, info.Caps)
}

func TestApplyEndpointCounts(t *testing.T) {
	info := providerInfo()
	Apply(info, &fabric.Info{Endpoint: &fabric.EndpointAttr{TxCtxCnt: 4}})

	assert.Equal(t, uint64(4), info.Endpoint.TxCtxCnt)
	assert.Equal(t, uint64(1), info.Endpoint.RxCtxCnt, "zero hint keeps provider value")
	assert.Equal(t, uint64(1<<20), info.Endpoint.MaxMsgSize)
}

func TestApplyWithoutContextHintsNarrowsToAcceptedCaps(t *testing.T) {
	info := providerInfo()
	Apply(info, &fabric.Info{Caps: fabric.CapMsg})

	assert.Equal(t, fabric.CapMsg|fabric.CapMultiRecv, info.Rx.Caps)
	assert.Equal(t, fabric.CapMsg|fabric.CapFence, info.Tx.Caps)
	assert.Equal(t, fabric.OpCompletion, info.Rx.OpFlags)
	assert.Equal(t, uint64(4096), info.Rx.TotalBufferedRecv)
}

func TestApplyRxHints(t *testing.T) {
	info := providerInfo()
	Apply(info, &fabric.Info{
		Caps: fabric.CapTagged,
		Rx: &fabric.RxAttr{
			Caps:    fabric.CapTagged | fabric.CapRecv | fabric.CapSource,
			OpFlags: fabric.OpMultiRecv,
			Size:    256,
		},
	})

	assert.Equal(t, fabric.CapTagged|fabric.CapRecv|fabric.CapMultiRecv, info.Rx.Caps)
	assert.Equal(t, fabric.OpMultiRecv, info.Rx.OpFlags)
	assert.Zero(t, info.Rx.TotalBufferedRecv, "buffered recv is copied verbatim")
	assert.Equal(t, uint64(256), info.Rx.Size)
	assert.Equal(t, uint64(4), info.Rx.IOVLimit)
}

func TestApplyTxHints(t *testing.T) {
	info := providerInfo()
	Apply(info, &fabric.Info{
		Tx: &fabric.TxAttr{
			Caps:        fabric.CapSend,
			InjectSize:  32,
			RMAIOVLimit: 0,
			IOVLimit:    2,
		},
	})

	assert.Equal(t, fabric.CapSend|fabric.CapFence, info.Tx.Caps)
	assert.Zero(t, info.Tx.OpFlags)
	assert.Equal(t, uint64(32), info.Tx.InjectSize)
	assert.Equal(t, uint64(512), info.Tx.Size)
	assert.Equal(t, uint64(2), info.Tx.IOVLimit)
	assert.Equal(t, uint64(1), info.Tx.RMAIOVLimit)
}

func TestApplyLeavesNegotiatedFieldsAlone(t *testing.T) {
	info := providerInfo()
	Apply(info, &fabric.Info{
		Domain:   &fabric.DomainAttr{Name: "other"},
		Endpoint: &fabric.EndpointAttr{MaxMsgSize: 1},
	})

	assert.Equal(t, "mlx5_0", info.Domain.Name)
	assert.Equal(t, uint64(1<<20), info.Endpoint.MaxMsgSize)
}

func TestApplyMissingInfoGroups(t *testing.T) {
	info := &fabric.Info{Caps: fabric.CapMsg}
	assert.NotPanics(t, func() {
		Apply(info, &fabric.Info{
			Caps:     fabric.CapMsg,
			Endpoint: &fabric.EndpointAttr{TxCtxCnt: 2},
			Rx:       &fabric.RxAttr{Size: 1},
			Tx:       &fabric.TxAttr{Size: 1},
		})
	})
	assert.Equal(t, fabric.CapMsg, info.Caps)
}
