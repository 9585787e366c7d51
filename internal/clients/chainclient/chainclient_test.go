package chainclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
)

func newRPCServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= failures {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}

		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Method != "eth_blockNumber" {
			http.Error(w, "unexpected method", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"0x2a"}`, req.ID)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestChainClient_CurrentBlock(t *testing.T) {
	cfg := func(addr string) *config.ChainConfig {
		return &config.ChainConfig{
			Mode:          config.ChainModeRPC,
			RPCAddr:       addr,
			Timeout:       time.Second,
			MaxRetryTimes: 3,
			RetryInterval: time.Millisecond,
		}
	}

	t.Run("retries transient failures", func(t *testing.T) {
		srv, calls := newRPCServer(t, 2)

		client, err := NewChainClient(t.Context(), cfg(srv.URL))
		require.NoError(t, err)
		defer client.Close()

		height, err := NewChainClientWithMetrics(client).CurrentBlock(t.Context())
		require.NoError(t, err)
		assert.Equal(t, uint64(42), height)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		srv, calls := newRPCServer(t, 10)

		client, err := NewChainClient(t.Context(), cfg(srv.URL))
		require.NoError(t, err)
		defer client.Close()

		_, err = client.CurrentBlock(t.Context())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get block number")
		assert.Equal(t, int32(3), calls.Load())
	})
}
