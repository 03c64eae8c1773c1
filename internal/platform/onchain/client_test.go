package onchain

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/wallet-wrapped/internal/config"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xA92DE6E0C17D4D9F006804B73B7B9726F0EC3842"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.OnchainConfig{
		ReputationURL:  srv.URL + "/",
		APIKey:         "test-key",
		TimeoutSeconds: 5,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	c.retry = time.Millisecond
	return c
}

func TestNewClient_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewClient(config.OnchainConfig{}, logger)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewClient(config.OnchainConfig{ReputationURL: "https://example.com"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestReputation_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/networks/ethereum-mainnet/addresses/0xa92de6e0c17d4d9f006804b73b7b9726f0ec3842/reputation", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"score":42,"metadata":{"total_transactions":1234,"unique_days_active":88}}`)
	})

	meta, err := c.Reputation(context.Background(), testAddress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_transactions":1234,"unique_days_active":88}`, string(meta))
	assert.Contains(t, string(meta), "\n  \"total_transactions\"")
}

func TestReputation_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"metadata":{"total_transactions":1}}`)
	})

	_, err := c.Reputation(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestReputation_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Reputation(context.Background(), testAddress)
	assert.ErrorIs(t, err, generation.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReputation_GivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Reputation(context.Background(), testAddress)
	assert.ErrorIs(t, err, generation.ErrUpstream)
	assert.Equal(t, int32(maxRetries+1), calls.Load())
}

func TestReputation_MissingMetadata(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"score":1}`)
	})

	_, err := c.Reputation(context.Background(), testAddress)
	assert.ErrorIs(t, err, ErrNoMetadata)
}
