package api

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/Commencement-Technology/mobile-ios-wireguard/configuration"
	"github.com/Commencement-Technology/mobile-ios-wireguard/version"
)

const (
	addKeyPath         = "/addKey"
	publicKeyParameter = "pubkey"
	authTokenParameter = "pt"
	maxResponseSize    = 64 * 1024
	defaultTimeout     = 15 * time.Second
)

var ErrUnexpectedStatus = errors.New("unexpected response code")

// Registration is the result of a successful /addKey call
type Registration struct {
	Keys     KeyPair
	Response *ServerResponse
}

// Client registers WireGuard public keys with PIA servers
type Client struct {
	rootCAs    *x509.CertPool
	httpClient *http.Client
	port       int
	newBackoff func(ctx context.Context) backoff.BackOff
	keyGen     func() (KeyPair, error)
}

// Option configures a Client
type Option func(*Client)

// WithRootCAs pins the certificate authority used to verify API servers
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *Client) {
		c.rootCAs = pool
	}
}

// WithHTTPClient replaces the HTTP client. Its transport is used as is, the
// pinned roots and server name are not applied to it.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithPort overrides the API port
func WithPort(port int) Option {
	return func(c *Client) {
		c.port = port
	}
}

// WithBackoff overrides the retry policy
func WithBackoff(fn func(ctx context.Context) backoff.BackOff) Option {
	return func(c *Client) {
		c.newBackoff = fn
	}
}

// NewClient creates an API client
func NewClient(opts ...Option) *Client {
	c := &Client{
		port:       configuration.RemotePort,
		newBackoff: defaultBackoff,
		keyGen:     GenerateKeyPair,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultBackoff(ctx context.Context) backoff.BackOff {
	return backoff.WithContext(backoff.WithMaxRetries(&backoff.ExponentialBackOff{
		InitialInterval:     500 * time.Millisecond,
		RandomizationFactor: 0.5,
		Multiplier:          1.7,
		MaxInterval:         5 * time.Second,
		MaxElapsedTime:      30 * time.Second,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}, 4), ctx)
}

// AddKey generates a key pair and registers its public key with the server at
// serverAddress. When cfg.UseIP is set, serverAddress is an IP and the server
// certificate is verified against cfg.CN.
func (c *Client) AddKey(ctx context.Context, serverAddress string, cfg *configuration.Configuration) (*Registration, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, configuration.ErrTokenNotFound
	}
	if serverAddress == "" {
		return nil, ErrRemoteAddressNotFound
	}

	keys, err := c.keyGen()
	if err != nil {
		return nil, err
	}

	reqURL := c.addKeyURL(serverAddress, keys.PublicKey.String(), cfg.Token)
	httpClient := c.client(cfg)

	var resp *ServerResponse
	operation := func() error {
		var opErr error
		resp, opErr = c.addKey(ctx, httpClient, reqURL)
		if opErr != nil {
			log.Warnf("addKey request to %s failed: %v", serverAddress, opErr)
		}
		return opErr
	}

	if err := backoff.Retry(operation, c.newBackoff(ctx)); err != nil {
		return nil, fmt.Errorf("add key to %s: %w", serverAddress, err)
	}

	log.Infof("public key registered with %s, tunnel address %s", serverAddress, resp.PeerIP)
	return &Registration{Keys: keys, Response: resp}, nil
}

func (c *Client) addKeyURL(serverAddress, publicKey, token string) string {
	query := url.Values{}
	query.Set(publicKeyParameter, publicKey)
	query.Set(authTokenParameter, token)

	u := url.URL{
		Scheme:   "https",
		Host:     net.JoinHostPort(serverAddress, strconv.Itoa(c.port)),
		Path:     addKeyPath,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func (c *Client) client(cfg *configuration.Configuration) *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}

	tlsConfig := &tls.Config{
		RootCAs:    c.rootCAs,
		MinVersion: tls.VersionTLS12,
	}
	if cfg.UseIP {
		tlsConfig.ServerName = cfg.CN
	}

	return &http.Client{
		Timeout: defaultTimeout,
		Transport: &http.Transport{
			TLSClientConfig:     tlsConfig,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

func (c *Client) addKey(ctx context.Context, httpClient *http.Client, reqURL string) (*ServerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", version.UserAgent())

	httpResp, err := httpClient.Do(req)
	if err != nil {
		if isCertificateError(err) {
			return nil, backoff.Permanent(fmt.Errorf("certificate validation: %w", err))
		}
		return nil, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d", ErrUnexpectedStatus, httpResp.StatusCode)
		if httpResp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	resp := &ServerResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("unable to parse data %q: %w", string(body), err))
	}

	if err := resp.Validate(); err != nil {
		return nil, backoff.Permanent(err)
	}

	return resp, nil
}

func isCertificateError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError
	var verification *tls.CertificateVerificationError
	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid) ||
		errors.As(err, &verification)
}
