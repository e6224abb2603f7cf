package secrets

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	vault "github.com/hashicorp/vault/api"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudedge-io/edgegate/internal/config"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/pkg/errors"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// fakeKVReader is a controllable stand-in for the Vault KV-v2 API.
type fakeKVReader struct {
	mu     sync.Mutex
	value  string
	err    error
	reads  int64
}

func (f *fakeKVReader) Get(ctx context.Context, path string) (*vault.KVSecret, error) {
	atomic.AddInt64(&f.reads, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &vault.KVSecret{Data: map[string]interface{}{"token": f.value}}, nil
}

func (f *fakeKVReader) set(value string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = value
	f.err = err
}

func newTestClient(reader *fakeKVReader) *VaultClient {
	cfg := config.VaultConfig{
		SecretPath:  "edgegate/gateway-token",
		SecretField: "token",
	}
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	return newVaultClient(reader, cfg, logger.NewNoopLogger(), metrics)
}

func TestVaultClient_FetchToken(t *testing.T) {
	reader := &fakeKVReader{value: "s3cret-token"}
	client := newTestClient(reader)

	tok, err := client.FetchToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3cret-token", tok)
}

func TestVaultClient_ServesCachedCopyWithoutStoreRoundTrip(t *testing.T) {
	reader := &fakeKVReader{value: "s3cret-token"}
	client := newTestClient(reader)

	_, err := client.FetchToken(context.Background())
	require.NoError(t, err)

	// Store outage after the first read: the cached copy keeps serving.
	reader.set("", fmt.Errorf("connection refused"))

	for i := 0; i < 5; i++ {
		tok, err := client.FetchToken(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "s3cret-token", tok)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&reader.reads))
}

func TestVaultClient_ColdCacheStoreFailure(t *testing.T) {
	reader := &fakeKVReader{err: fmt.Errorf("connection refused")}
	client := newTestClient(reader)

	_, err := client.FetchToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrSecretUnavailable)
}

func TestVaultClient_InvalidateForcesRefetch(t *testing.T) {
	reader := &fakeKVReader{value: "old-token"}
	client := newTestClient(reader)

	tok, err := client.FetchToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old-token", tok)

	// Out-of-band rotation is only observed after invalidation.
	reader.set("new-token", nil)

	tok, err = client.FetchToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "old-token", tok)

	client.Invalidate()

	tok, err = client.FetchToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-token", tok)
}

func TestVaultClient_ConcurrentColdFetchesCollapse(t *testing.T) {
	reader := &fakeKVReader{value: "s3cret-token"}
	client := newTestClient(reader)

	const callers = 32
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			tok, err := client.FetchToken(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "s3cret-token", tok)
		}()
	}
	wg.Wait()

	// Singleflight collapses the stampede; allow a small race margin.
	assert.LessOrEqual(t, atomic.LoadInt64(&reader.reads), int64(2))
}

func TestVaultClient_MissingFieldIsUnavailable(t *testing.T) {
	reader := &fakeKVReader{}
	client := newTestClient(reader)

	_, err := client.FetchToken(context.Background())
	assert.ErrorIs(t, err, errors.ErrSecretUnavailable)
}
