// Package mintclient implements a stateless HTTP client for the
// quote/mint/swap/state endpoints of an external Cashu-style mint. The
// client never retains per-mint state beyond its base URL, and never
// alters proof or witness bytes on their way to the mint.
package mintclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pion/logging"

	"github.com/backkem/ecashswap/pkg/mintapi"
)

// DefaultRequestTimeout bounds a single HTTP round trip.
const DefaultRequestTimeout = 30 * time.Second

// DefaultRetryMaxElapsedTime bounds the total time spent retrying a
// request across transport failures.
const DefaultRetryMaxElapsedTime = 20 * time.Second

// Doer is satisfied by *http.Client and by test doubles.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	// BaseURL is the mint's root URL, e.g. "https://mint.example.com".
	// Required.
	BaseURL string

	// HTTPClient performs requests. Defaults to http.DefaultClient.
	HTTPClient Doer

	// Timeout bounds each individual HTTP round trip. Defaults to
	// DefaultRequestTimeout.
	Timeout time.Duration

	// RetryMaxElapsedTime bounds cumulative time retrying a request
	// across transport failures. Defaults to DefaultRetryMaxElapsedTime.
	RetryMaxElapsedTime time.Duration

	// LoggerFactory creates the client's logger. If nil, logging is
	// disabled.
	LoggerFactory logging.LoggerFactory
}

// Client is a stateless caller translating semantic mint operations
// into the mint's wire protocol.
type Client struct {
	baseURL             string
	httpClient          Doer
	timeout             time.Duration
	retryMaxElapsedTime time.Duration
	log                 logging.LeveledLogger
}

// New creates a Client for the mint at cfg.BaseURL.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	retryMaxElapsedTime := cfg.RetryMaxElapsedTime
	if retryMaxElapsedTime == 0 {
		retryMaxElapsedTime = DefaultRetryMaxElapsedTime
	}

	c := &Client{
		baseURL:             cfg.BaseURL,
		httpClient:          httpClient,
		timeout:             timeout,
		retryMaxElapsedTime: retryMaxElapsedTime,
	}
	if cfg.LoggerFactory != nil {
		c.log = cfg.LoggerFactory.NewLogger("mintclient")
	}
	return c
}

// doJSON performs a request with JSON body and decodes a JSON response,
// retrying transport failures and 5xx responses with exponential backoff
// and failing closed (non-retryable) on any other non-2xx response the
// mint returned. Each attempt is bounded by the client's timeout.
func (c *Client) doJSON(ctx context.Context, method, path string, reqBody, respBody interface{}) error {
	var bodyBytes []byte
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeResponse, err)
		}
		bodyBytes = b
	}

	var respBytes []byte
	var statusCode int

	op := func() error {
		var bodyReader io.Reader
		if bodyBytes != nil {
			bodyReader = bytes.NewReader(bodyBytes)
		}
		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return backoff.Permanent(err)
		}
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if c.log != nil {
				c.log.Warnf("mintclient: transport error calling %s: %v", path, err)
			}
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode
		respBytes, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		if statusCode >= 500 {
			return fmt.Errorf("%w: mint returned %d: %s", ErrTransport, statusCode, respBytes)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.retryMaxElapsedTime
	if err := backoff.Retry(op, b); err != nil {
		return err
	}

	if statusCode < 200 || statusCode >= 300 {
		return &MintError{StatusCode: statusCode, Detail: string(respBytes)}
	}

	if respBody != nil {
		if err := json.Unmarshal(respBytes, respBody); err != nil {
			return fmt.Errorf("%w: %v", ErrDecodeResponse, err)
		}
	}
	return nil
}

// GetInfo fetches GET /v1/info.
func (c *Client) GetInfo(ctx context.Context) (*mintapi.InfoResponse, error) {
	var resp mintapi.InfoResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/info", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetKeys fetches GET /v1/keys.
func (c *Client) GetKeys(ctx context.Context) (*mintapi.KeysResponse, error) {
	var resp mintapi.KeysResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/keys", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetKeysets fetches GET /v1/keysets.
func (c *Client) GetKeysets(ctx context.Context) (*mintapi.KeysetsResponse, error) {
	var resp mintapi.KeysetsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/keysets", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestMintQuote calls POST /v1/mint/quote/bolt11.
func (c *Client) RequestMintQuote(ctx context.Context, req mintapi.MintQuoteRequest) (*mintapi.MintQuoteResponse, error) {
	var resp mintapi.MintQuoteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/mint/quote/bolt11", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckMintQuote calls GET /v1/mint/quote/bolt11/{id}.
func (c *Client) CheckMintQuote(ctx context.Context, quoteID string) (*mintapi.MintQuoteResponse, error) {
	var resp mintapi.MintQuoteResponse
	path := "/v1/mint/quote/bolt11/" + quoteID
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestMeltQuote calls POST /v1/melt/quote/bolt11.
func (c *Client) RequestMeltQuote(ctx context.Context, req mintapi.MeltQuoteRequest) (*mintapi.MeltQuoteResponse, error) {
	var resp mintapi.MeltQuoteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/melt/quote/bolt11", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Mint calls POST /v1/mint/bolt11, exchanging blinded outputs for
// signatures once a mint quote has been paid.
func (c *Client) Mint(ctx context.Context, req mintapi.MintRequest) (*mintapi.MintResponse, error) {
	var resp mintapi.MintResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/mint/bolt11", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Swap calls POST /v1/swap, atomically retiring input proofs and
// minting output proofs. Input proof and witness bytes are forwarded
// verbatim.
func (c *Client) Swap(ctx context.Context, req mintapi.SwapRequest) (*mintapi.SwapResponse, error) {
	var resp mintapi.SwapResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/swap", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckProofStates calls POST /v1/checkstate.
func (c *Client) CheckProofStates(ctx context.Context, ys []string) (*mintapi.CheckStateResponse, error) {
	var resp mintapi.CheckStateResponse
	req := mintapi.CheckStateRequest{Ys: ys}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/checkstate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
