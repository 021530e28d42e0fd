package fetch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/market"
	"solana-token-scanner/internal/testutil"
)

const id = domain.AssetIdentifier(testutil.BonkMint)

func TestOrchestrator_Fetch_Success(t *testing.T) {
	client := &testutil.MockMarketClient{
		Security: testutil.CreateTestSecurity(),
		Overview: testutil.CreateTestOverview(),
	}
	o := NewOrchestrator(client, zap.NewNop())

	security, overview, err := o.Fetch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, client.Security, security)
	assert.Equal(t, client.Overview, overview)
	assert.Equal(t, 1, client.SecurityCalls)
	assert.Equal(t, 1, client.OverviewCalls)
}

func TestOrchestrator_Fetch_Concurrent(t *testing.T) {
	var inFlight, peak atomic.Int32
	track := func() {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		inFlight.Add(-1)
	}

	client := &testutil.MockMarketClient{
		TokenSecurityFunc: func(ctx context.Context, address string) (*domain.SecurityProfile, error) {
			track()
			return testutil.CreateTestSecurity(), nil
		},
		TokenOverviewFunc: func(ctx context.Context, address string) (*domain.MarketOverview, error) {
			track()
			return testutil.CreateTestOverview(), nil
		},
	}
	o := NewOrchestrator(client, zap.NewNop())

	_, _, err := o.Fetch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int32(2), peak.Load())
}

func TestOrchestrator_Fetch_Failures(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name        string
		securityErr error
		overviewErr error
		wantSources []string
	}{
		{"both fail", boom, boom, []string{market.SourceSecurity, market.SourceOverview}},
		{"security fails", boom, nil, []string{market.SourceSecurity}},
		{"overview fails", nil, boom, []string{market.SourceOverview}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &testutil.MockMarketClient{
				TokenSecurityFunc: func(ctx context.Context, address string) (*domain.SecurityProfile, error) {
					if tt.securityErr != nil {
						return nil, tt.securityErr
					}
					return testutil.CreateTestSecurity(), nil
				},
				TokenOverviewFunc: func(ctx context.Context, address string) (*domain.MarketOverview, error) {
					if tt.overviewErr != nil {
						return nil, tt.overviewErr
					}
					return testutil.CreateTestOverview(), nil
				},
			}
			o := NewOrchestrator(client, zap.NewNop())

			security, overview, err := o.Fetch(context.Background(), id)
			assert.Nil(t, security)
			assert.Nil(t, overview)

			var upstreamErr *domain.UpstreamFetchError
			require.True(t, errors.As(err, &upstreamErr))

			var sources []string
			for _, f := range upstreamErr.Failures {
				sources = append(sources, f.Source)
			}
			assert.Equal(t, tt.wantSources, sources)
			assert.True(t, errors.Is(err, boom))
		})
	}
}

func TestOrchestrator_Fetch_MissingData(t *testing.T) {
	client := &testutil.MockMarketClient{}
	o := NewOrchestrator(client, zap.NewNop())

	_, _, err := o.Fetch(context.Background(), id)

	var missing *domain.MissingDataError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, testutil.BonkMint, missing.Address)
}

func TestOrchestrator_Fetch_OneSideEmpty(t *testing.T) {
	client := &testutil.MockMarketClient{Overview: testutil.CreateTestOverview()}
	o := NewOrchestrator(client, zap.NewNop())

	security, overview, err := o.Fetch(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, security)
	assert.True(t, security.Renounced())
	assert.Nil(t, security.CreationTime)
	assert.Equal(t, "0", security.TransferFee)
	assert.Equal(t, "Bonk", overview.Name)
}

func TestOrchestrator_Fetch_UsesCache(t *testing.T) {
	client := &testutil.MockMarketClient{
		Security: testutil.CreateTestSecurity(),
		Overview: testutil.CreateTestOverview(),
	}
	cache := testutil.NewMockCache()
	o := NewOrchestrator(client, zap.NewNop(), WithCache(cache, time.Minute))

	first, _, err := o.Fetch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Keys())

	second, overview, err := o.Fetch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, client.SecurityCalls)
	assert.Equal(t, 1, client.OverviewCalls)
	assert.Equal(t, *first.Top10HolderPercent, *second.Top10HolderPercent)
	assert.Equal(t, "BONK", overview.Symbol)
}

func TestOrchestrator_Fetch_CacheFailureIgnored(t *testing.T) {
	client := &testutil.MockMarketClient{
		Security: testutil.CreateTestSecurity(),
		Overview: testutil.CreateTestOverview(),
	}
	cache := testutil.NewMockCache()
	cache.GetErr = errors.New("redis down")
	cache.SetErr = errors.New("redis down")
	o := NewOrchestrator(client, zap.NewNop(), WithCache(cache, time.Minute))

	_, overview, err := o.Fetch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Bonk", overview.Name)
}

func TestOrchestrator_Fetch_EmptyNotCached(t *testing.T) {
	client := &testutil.MockMarketClient{Overview: testutil.CreateTestOverview()}
	cache := testutil.NewMockCache()
	o := NewOrchestrator(client, zap.NewNop(), WithCache(cache, time.Minute))

	_, _, err := o.Fetch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Keys())
}
