// Package client implements the consumer side of the protocol: it POSTs
// a run request to an agent endpoint and exposes the response's event
// stream as a lazy [agui.Stream].
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aguiproto/agui"
)

// Client issues runs against a single agent endpoint.
type Client struct {
	url        string
	header     http.Header
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithHeader adds a header to every request, such as an Authorization
// token. The protocol's own headers cannot be overridden.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Add(key, value) }
}

// New creates a [Client] for the agent endpoint at url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		header:     make(http.Header),
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run starts a run and returns the agent's event stream. The stream is
// lazy: the response body is read one chunk at a time as the caller
// pulls events, so a slow consumer throttles the connection rather than
// buffering the run. Cancelling ctx aborts both the request and the
// stream.
//
// A non-success status fails immediately with *agui.TransportError
// carrying the status; no stream is returned and the connection is
// released.
func (c *Client) Run(ctx context.Context, input agui.RunAgentInput) (agui.Stream, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, &agui.SerializationError{Type: "RunAgentInput", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &agui.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &agui.TransportError{Status: resp.StatusCode}
	}

	return newStream(ctx, resp.Body), nil
}
