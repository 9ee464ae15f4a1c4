package fabric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapsSubsetSuperset(t *testing.T) {
	provider := CapMsg | CapRMA | CapTagged

	assert.True(t, (CapMsg | CapRMA).IsSubsetOf(provider))
	assert.False(t, (CapMsg | CapAtomic).IsSubsetOf(provider))
	assert.True(t, Caps(0).IsSubsetOf(provider))
	assert.True(t, provider.IsSupersetOf(CapTagged))
	assert.False(t, provider.IsSupersetOf(CapAtomic|CapMsg))
}

func TestCapsPrimarySecondaryPartition(t *testing.T) {
	assert.Zero(t, PrimaryCaps&SecondaryCaps, "primary and secondary bits must not overlap")

	c := CapMsg | CapTagged | CapMultiRecv | CapSource
	assert.Equal(t, CapMsg|CapTagged, c.Primary())
	assert.Equal(t, CapMultiRecv|CapSource, c.Secondary())
}

func TestModeSuperset(t *testing.T) {
	required := ModeContext
	assert.True(t, (ModeContext | ModeLocalMR).IsSupersetOf(required))
	assert.False(t, ModeLocalMR.IsSupersetOf(required))
	assert.True(t, Mode(0).IsSupersetOf(0))
}

func TestCapsString(t *testing.T) {
	assert.Equal(t, "MSG | TAGGED", (CapMsg | CapTagged).String())
	assert.Equal(t, "0", Caps(0).String())
	assert.Equal(t, "MSG | 0x1", (CapMsg | 1).String())
}

func TestOrderString(t *testing.T) {
	assert.Equal(t, "NONE", OrderNone.String())
	assert.Equal(t, "RAW | SAS", (OrderRAW | OrderSAS).String())
}

func TestParseCaps(t *testing.T) {
	c, err := ParseCaps([]string{"msg", "FI_RMA", " tagged "})
	require.NoError(t, err)
	assert.Equal(t, CapMsg|CapRMA|CapTagged, c)

	_, err = ParseCaps([]string{"MSG", "WARP_DRIVE"})
	assert.ErrorContains(t, err, "WARP_DRIVE")
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder([]string{"NONE", "FI_ORDER_SAS", "raw"})
	require.NoError(t, err)
	assert.Equal(t, OrderSAS|OrderRAW, o)
}

func TestParseModeAndOpFlags(t *testing.T) {
	m, err := ParseMode([]string{"CONTEXT", "LOCAL_MR"})
	require.NoError(t, err)
	assert.Equal(t, ModeContext|ModeLocalMR, m)

	f, err := ParseOpFlags([]string{"COMPLETION", "INJECT"})
	require.NoError(t, err)
	assert.Equal(t, OpCompletion|OpInject, f)
	assert.Equal(t, "COMPLETION | INJECT", f.String())
}
