package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_MockKind(t *testing.T) {
	p, err := NewProvider(Config{Kind: "mock", Dimensions: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, p.EmbedDimensions())
}

func TestNewProvider_HTTPKindRequiresEndpoint(t *testing.T) {
	_, err := NewProvider(Config{Kind: "http"})
	assert.Error(t, err)

	_, err = NewProvider(Config{Kind: "", Endpoint: "http://127.0.0.1:8765/embed"})
	assert.NoError(t, err)
}

func TestNewProvider_UnsupportedKind(t *testing.T) {
	_, err := NewProvider(Config{Kind: "nonsense"})
	assert.Error(t, err)
}

func TestEmbed_LazilyInitializesGlobalProvider(t *testing.T) {
	Configure(Config{Kind: "mock", Dimensions: 4})
	defer CloseGlobal()

	vecs, err := Embed(context.Background(), []string{"hello"}, ModeQuery)
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Len(t, vecs[0], 4)
}

func TestCloseGlobal_NoProviderIsANoOp(t *testing.T) {
	globalHandle.mu.Lock()
	globalHandle.provider = nil
	globalHandle.mu.Unlock()
	assert.NoError(t, CloseGlobal())
}
