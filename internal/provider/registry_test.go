package provider

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
	"github.com/quorumfeed/marketdata/internal/urm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	closed atomic.Bool
}

func (p *fakeProvider) Close() error    { p.closed.Store(true); return nil }
func (p *fakeProvider) Closed() bool    { return p.closed.Load() }

func TestRegistry_GetProvider_ConcurrentCallersConstructExactlyOne(t *testing.T) {
	r := NewRegistry(urm.NewRegistry(time.Minute))
	var constructions int32
	ctor := func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (Provider, error) {
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&constructions, 1)
		return &fakeProvider{}, nil
	}
	require.NoError(t, r.Register("binance", ctor, []core.MarketType{core.MarketTypeSpot}, nil, nil))

	const k = 20
	var wg sync.WaitGroup
	instances := make([]Provider, k)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inst, err := r.GetProvider("binance", core.MarketTypeSpot, nil, "", "")
			require.NoError(t, err)
			instances[i] = inst
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, constructions)
	for i := 1; i < k; i++ {
		assert.Same(t, instances[0], instances[i])
	}
}

func TestRegistry_GetProvider_RebuildsAfterClosed(t *testing.T) {
	r := NewRegistry(urm.NewRegistry(time.Minute))
	var built []*fakeProvider
	ctor := func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (Provider, error) {
		p := &fakeProvider{}
		built = append(built, p)
		return p, nil
	}
	require.NoError(t, r.Register("binance", ctor, []core.MarketType{core.MarketTypeSpot}, nil, nil))

	first, err := r.GetProvider("binance", core.MarketTypeSpot, nil, "", "")
	require.NoError(t, err)
	first.Close()

	second, err := r.GetProvider("binance", core.MarketTypeSpot, nil, "", "")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Len(t, built, 2)
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry(urm.NewRegistry(time.Minute))
	ctor := func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (Provider, error) {
		return &fakeProvider{}, nil
	}
	require.NoError(t, r.Register("binance", ctor, []core.MarketType{core.MarketTypeSpot}, nil, nil))
	assert.Error(t, r.Register("binance", ctor, []core.MarketType{core.MarketTypeSpot}, nil, nil))
}

func TestRegistry_CloseAll_RejectsFurtherGetProvider(t *testing.T) {
	r := NewRegistry(urm.NewRegistry(time.Minute))
	ctor := func(mt core.MarketType, v *core.MarketVariant, apiKey, apiSecret string) (Provider, error) {
		return &fakeProvider{}, nil
	}
	require.NoError(t, r.Register("binance", ctor, []core.MarketType{core.MarketTypeSpot}, nil, nil))
	_, err := r.GetProvider("binance", core.MarketTypeSpot, nil, "", "")
	require.NoError(t, err)

	r.CloseAll()
	_, err = r.GetProvider("binance", core.MarketTypeSpot, nil, "", "")
	assert.Error(t, err)
}
