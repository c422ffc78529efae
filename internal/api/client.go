// Package api is the client for the cluster dashboard's node list endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/rileyhilliard/raytop/internal/logger"
	"github.com/rileyhilliard/raytop/internal/nodes"
)

const (
	// DefaultTimeout bounds a single node list request.
	DefaultTimeout = 10 * time.Second

	// NodesPath is the dashboard route serving the node summary.
	NodesPath = "/nodes"

	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 32 << 20
)

// Response is the node list payload: {"result", "msg", "data": {"summary": [...]}}.
type Response struct {
	Result bool   `json:"result"`
	Msg    string `json:"msg"`
	Data   Data   `json:"data"`
}

// Data holds the node summary. Summary is nil when the field is absent.
type Data struct {
	Summary []nodes.RawNode `json:"summary"`
}

// DialContextFunc dials a network connection, matching net.Dialer.DialContext.
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDialContext routes connections through dial, e.g. an SSH tunnel.
func WithDialContext(dial DialContextFunc) Option {
	return func(c *Client) { c.dial = dial }
}

// WithHTTPClient replaces the underlying HTTP client. Timeout and dial
// options are ignored when set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client fetches the node list from a dashboard.
type Client struct {
	base    *url.URL
	timeout time.Duration
	dial    DialContextFunc
	http    *http.Client
	log     logger.Logger
}

// NewClient creates a client for the dashboard at address. A bare host:port
// gets an http:// scheme.
func NewClient(address string, opts ...Option) (*Client, error) {
	base, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base:    base,
		timeout: DefaultTimeout,
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if c.dial != nil {
			transport.DialContext = c.dial
			transport.Proxy = nil
		}
		c.http = &http.Client{Timeout: c.timeout, Transport: transport}
	}
	return c, nil
}

// ParseAddress validates a dashboard address and normalizes its scheme.
func ParseAddress(address string) (*url.URL, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.New(errors.ErrConfig,
			"No dashboard address configured",
			"Pass --address http://<head-node>:8265 or set address in .raytop.yaml")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a valid dashboard address", address),
			"Use a URL like http://127.0.0.1:8265")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported scheme '%s' in dashboard address", u.Scheme),
			"Use http:// or https://")
	}
	if u.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Dashboard address '%s' has no host", address),
			"Use a URL like http://127.0.0.1:8265")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// Address returns the normalized dashboard base URL.
func (c *Client) Address() string {
	return c.base.String()
}

// nodesURL builds {base}/nodes?view=summary.
func (c *Client) nodesURL() string {
	u := *c.base
	u.Path = c.base.Path + NodesPath
	u.RawQuery = url.Values{"view": []string{"summary"}}.Encode()
	return u.String()
}

// NodeList fetches the node summary.
func (c *Client) NodeList(ctx context.Context) (*Response, error) {
	target := c.nodesURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Couldn't build node list request",
			"Check the dashboard address")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("Can't reach the dashboard at %s", c.Address()),
			"Make sure the cluster is up and the dashboard port is reachable (default 8265)")
	}
	defer resp.Body.Close()
	c.log.Debug("GET %s -> %d in %s", target, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Couldn't read node list response",
			"The connection dropped mid-response; it usually recovers on the next refresh")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrAPI,
			fmt.Sprintf("Dashboard returned %s for %s", resp.Status, NodesPath),
			suggestionForStatus(resp.StatusCode, body))
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Couldn't decode node list response",
			"Is the address pointing at the cluster dashboard?")
	}
	return &out, nil
}

// FetchNodes implements nodes.Fetcher.
func (c *Client) FetchNodes(ctx context.Context) (nodes.Result, error) {
	resp, err := c.NodeList(ctx)
	if err != nil {
		return nodes.Result{}, err
	}
	return nodes.Result{Summary: resp.Data.Summary, Msg: resp.Msg}, nil
}

func suggestionForStatus(code int, body []byte) string {
	switch {
	case code == http.StatusNotFound:
		return "This server has no node list endpoint. Is the address pointing at the cluster dashboard?"
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return "The dashboard rejected the request. Check any proxy in front of it."
	case code >= 500:
		var r Response
		if json.Unmarshal(body, &r) == nil && r.Msg != "" {
			return "Dashboard said: " + r.Msg
		}
		return "The dashboard had an internal error; it usually recovers on the next refresh."
	}
	return "Unexpected response from the dashboard."
}
