package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerfab/layerfab-go/pkg/fabric"
)

func TestParseHints(t *testing.T) {
	hints, err := ParseHints([]byte(`
caps: [MSG, TAGGED]
mode: [CONTEXT]
fabric:
  name: rxm_verbs_IB-1234
  prov_version: "1.1"
domain:
  name: rxm_mlx5_0
  threading: DOMAIN
ep:
  type: RDM
  tx_ctx_cnt: 2
rx:
  op_flags: [MULTI_RECV]
  size: 128
`))
	require.NoError(t, err)

	assert.Equal(t, fabric.CapMsg|fabric.CapTagged, hints.Caps)
	assert.Equal(t, fabric.ModeContext, hints.Mode)
	assert.Equal(t, "rxm_verbs_IB-1234", hints.FabricName())
	assert.Equal(t, uint32(0x00010001), hints.Fabric.ProvVersion)
	assert.Equal(t, fabric.ThreadDomain, hints.Domain.Threading)
	assert.Equal(t, fabric.EPRDM, hints.Endpoint.Type)
	assert.Equal(t, uint64(2), hints.Endpoint.TxCtxCnt)
	assert.Equal(t, fabric.OpMultiRecv, hints.Rx.OpFlags)
	assert.Equal(t, uint64(128), hints.Rx.Size)
	assert.Nil(t, hints.Tx)
}

func TestParseHintsEmpty(t *testing.T) {
	hints, err := ParseHints(nil)
	require.NoError(t, err)
	assert.Nil(t, hints)

	hints, err = ParseHints([]byte("# nothing requested\n"))
	require.NoError(t, err)
	assert.Nil(t, hints)
}

func TestParseHintsErrors(t *testing.T) {
	_, err := ParseHints([]byte("caps: [TELEPORT]"))
	assert.Error(t, err)

	_, err = ParseHints([]byte("fabric: {prov_version: latest}"))
	assert.Error(t, err)

	_, err = ParseHints([]byte("caps: {"))
	assert.Error(t, err)
}

func TestLoadHints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("caps: [RMA]\n"), 0644))

	hints, err := LoadHints(path)
	require.NoError(t, err)
	assert.Equal(t, fabric.CapRMA, hints.Caps)

	_, err = LoadHints(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromInfoRoundTrip(t *testing.T) {
	p, err := Load("tcp")
	require.NoError(t, err)
	infos, err := p.FabricInfos()
	require.NoError(t, err)

	for _, want := range infos {
		data, err := Marshal(want)
		require.NoError(t, err)

		got, err := ParseHints(data)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFromInfoOmitsUnspecified(t *testing.T) {
	s := FromInfo(&fabric.Info{
		Domain:   &fabric.DomainAttr{Name: "lo"},
		Endpoint: &fabric.EndpointAttr{},
		Rx:       &fabric.RxAttr{CompOrder: fabric.OrderNone},
	})

	assert.Nil(t, s.Caps)
	assert.Empty(t, s.AddrFormat)
	assert.Empty(t, s.Domain.Threading)
	assert.Empty(t, s.Endpoint.Type)
	assert.Nil(t, s.Rx.CompOrder)
	assert.Nil(t, s.Fabric)
}

func TestFromInfoNil(t *testing.T) {
	assert.Nil(t, FromInfo(nil))
}
