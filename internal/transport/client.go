package transport

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/chriswill/rippled-network-crawler/internal/model"
	"golang.org/x/net/proxy"
)

// Default client parameters.
const (
	// DefaultTimeout bounds one complete fetch (dial, TLS handshake,
	// response body). The traversal relies on this bound for
	// termination: a fetch must resolve, never hang.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps how much of a /crawl response is read.
	// Documents from large nodes run tens of kilobytes; 5MB leaves
	// ample headroom while preventing memory exhaustion from a
	// misbehaving endpoint.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies the crawler in peer HTTP logs.
	DefaultUserAgent = "rippled-network-crawler/2.0"

	// crawlPath is the rippled peer-port endpoint serving the
	// status+peer-list document.
	crawlPath = "/crawl"
)

// Client fetches /crawl documents. It is safe for concurrent use; one
// client serves all fetches of a traversal.
type Client struct {
	httpClient  *http.Client
	userAgent   string
	maxBodySize int64
}

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	timeout      time.Duration
	maxBodySize  int64
	userAgent    string
	proxyAddress string
	httpClient   *http.Client
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithSOCKS5Proxy routes all fetches through a SOCKS5 proxy at the given
// "host:port" address.
func WithSOCKS5Proxy(address string) ClientOption {
	return func(c *clientConfig) {
		c.proxyAddress = address
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely. Intended
// for tests; it overrides the timeout and proxy options.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// NewClient creates a fetch client.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		transport := &http.Transport{
			// rippled peer ports use self-signed certificates; the node
			// public key, not the certificate chain, is the identity.
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, //nolint:gosec // Peer ports are self-signed by design
			},
			// Each fetched node is contacted once, so idle connections
			// have little reuse value.
			MaxIdleConns:        16,
			MaxIdleConnsPerHost: 1,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  true,
		}

		if cfg.proxyAddress != "" {
			if !isValidProxyAddress(cfg.proxyAddress) {
				return nil, ErrInvalidProxyAddress
			}
			dialer, err := proxy.SOCKS5("tcp", cfg.proxyAddress, nil, proxy.Direct)
			if err != nil {
				return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
			}
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			}
		}

		httpClient = &http.Client{
			Transport: transport,
			Timeout:   cfg.timeout,
		}
	}

	return &Client{
		httpClient:  httpClient,
		userAgent:   cfg.userAgent,
		maxBodySize: cfg.maxBodySize,
	}, nil
}

// Fetch performs one fetch-and-decode of the node's /crawl document.
// All failures are returned as *FetchError carrying the classification
// the session records; the traversal continues on other branches.
func (c *Client) Fetch(ctx context.Context, addr model.Address) (*model.CrawlDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+addr.String()+crawlPath, nil)
	if err != nil {
		return nil, &FetchError{Addr: addr, Code: model.ErrorCodeNetwork, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Addr: addr, Code: classify(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Addr: addr,
			Code: model.ErrorCodeHTTPStatus,
			Err:  fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	// Read one byte past the cap so truncation is detectable.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, &FetchError{Addr: addr, Code: classify(err), Err: err}
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, &FetchError{
			Addr: addr,
			Code: model.ErrorCodeDecode,
			Err:  fmt.Errorf("response body exceeds %d bytes", c.maxBodySize),
		}
	}

	var envelope struct {
		Overlay model.Overlay `json:"overlay"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &FetchError{Addr: addr, Code: model.ErrorCodeDecode, Err: err}
	}

	return &model.CrawlDocument{
		Raw:     model.RawResponse(body),
		Overlay: envelope.Overlay,
	}, nil
}

// isValidProxyAddress checks for "host:port" with a numeric port in
// range. net.SplitHostPort accepts bracketed IPv6 literals like
// "[::1]:1080" alongside plain host:port.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}

	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}
