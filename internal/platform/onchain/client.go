// Package onchain fetches address reputation metadata from an HTTP
// reputation API for the account-metadata card.
package onchain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/phrazzld/wallet-wrapped/internal/config"
	"github.com/phrazzld/wallet-wrapped/internal/generation"
)

// Network is the network segment used in reputation requests.
const Network = "ethereum-mainnet"

const (
	maxRetries   = 3
	maxBodyBytes = 1 << 20
)

// ErrNoMetadata is returned when the API answers without reputation metadata.
var ErrNoMetadata = errors.New("reputation response has no metadata")

// Client calls GET <base>/networks/<network>/addresses/<address>/reputation.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	retry   time.Duration
	logger  *slog.Logger
}

// NewClient creates a Client from cfg. It fails when no reputation URL is
// configured.
func NewClient(cfg config.OnchainConfig, logger *slog.Logger) (*Client, error) {
	if cfg.ReputationURL == "" {
		return nil, fmt.Errorf("%w: reputation URL cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		return nil, fmt.Errorf("%w: logger cannot be nil", generation.ErrInvalidConfig)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.ReputationURL, "/"),
		apiKey:  cfg.APIKey,
		retry:   500 * time.Millisecond,
		logger:  logger.With("component", "onchain"),
	}, nil
}

type reputationResponse struct {
	Score    *int            `json:"score"`
	Metadata json.RawMessage `json:"metadata"`
}

// Reputation returns the pretty-printed reputation metadata of address.
func (c *Client) Reputation(ctx context.Context, address string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/addresses/%s/reputation",
		c.baseURL, Network, url.PathEscape(strings.ToLower(address)))

	var body []byte
	operation := func() error {
		var err error
		body, err = c.get(ctx, endpoint)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retry
	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "reputation request failed, retrying",
			"error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}

	var resp reputationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode reputation: %v", generation.ErrUpstream, err)
	}
	if len(resp.Metadata) == 0 || string(resp.Metadata) == "null" {
		return nil, ErrNoMetadata
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, resp.Metadata, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: format reputation: %v", generation.ErrUpstream, err)
	}
	return pretty.Bytes(), nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("%w: %v", generation.ErrTimeout, err))
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", generation.ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: reputation API status %d", generation.ErrUpstream, resp.StatusCode)
	default:
		return nil, backoff.Permanent(
			fmt.Errorf("%w: reputation API status %d", generation.ErrUpstream, resp.StatusCode))
	}
}
