package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	browser "github.com/EDDYCJY/fake-useragent"
	"go.uber.org/zap"

	"linkscout/internal/pkg/types"
)

const (
	maxBodySize      = 2 * 1024 * 1024 // 2 MB
	defaultUserAgent = "Mozilla/5.0 (compatible; linkscout/1.0)"
)

// Options configures a Provider.
type Options struct {
	// Timeout bounds a single page fetch end to end.
	Timeout time.Duration
	// RequestsPerSecond caps the per-host fetch rate. Zero disables
	// rate limiting (used by tests against local servers).
	RequestsPerSecond float64
	// Burst is the rate limiter burst size.
	Burst int
	// UserAgent overrides the rotating user agent when non-empty.
	UserAgent string
	// Logger receives per-fetch diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
}

// Provider fetches URLs and turns them into PageSnapshots. It is
// caller-owned with an explicit Open/Close lifecycle; fetching before
// Open or after Close fails. Nothing in this package holds
// process-global state, so independent crawls can run concurrently
// with independent Providers.
type Provider struct {
	client  *http.Client
	limiter *hostLimiter
	origin  *url.URL
	opts    Options
	logger  *zap.Logger
	open    bool
}

// NewProvider builds a Provider scoped to the given seed origin. Only
// links sharing the origin's host survive extraction.
func NewProvider(origin *url.URL, opts Options) *Provider {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 5 * time.Second,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &Provider{
		client:  client,
		limiter: newHostLimiter(opts.RequestsPerSecond, opts.Burst),
		origin:  origin,
		opts:    opts,
		logger:  logger,
	}
}

// Open prepares the Provider for fetching. It warms the user-agent
// cache so the first page fetch does not pay for it.
func (p *Provider) Open() error {
	if p.open {
		return errors.New("provider already open")
	}
	if p.opts.UserAgent == "" {
		// fake-useragent lazily populates its cache on first call;
		// an empty result falls back to the static default per fetch.
		_ = browser.Random()
	}
	p.open = true
	return nil
}

// Close releases idle connections. The Provider must not be used
// afterward.
func (p *Provider) Close() {
	p.open = false
	if transport, ok := p.client.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

// Origin returns the seed origin this Provider is scoped to.
func (p *Provider) Origin() *url.URL { return p.origin }

var errNotOpen = errors.New("provider is not open")

// Fetch retrieves one URL and extracts a PageSnapshot from it.
// Failures are always typed *FetchError so callers can log and skip.
func (p *Provider) Fetch(ctx context.Context, pageURL string) (*types.PageSnapshot, error) {
	if !p.open {
		return nil, newFetchError(KindNetworkError, pageURL, errNotOpen)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, newFetchError(KindNetworkError, pageURL, err)
	}

	if err := p.limiter.wait(ctx, parsed.Host); err != nil {
		return nil, newFetchError(KindTimeout, pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, newFetchError(KindNetworkError, pageURL, err)
	}
	req.Header.Set("User-Agent", p.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(pageURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, newFetchError(KindNotFound, pageURL, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, newFetchError(KindNetworkError, pageURL, fmt.Errorf("status %d", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !isHTMLContentType(contentType) {
		return nil, newFetchError(KindNonHTML, pageURL, fmt.Errorf("content-type %q", contentType))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransportError(pageURL, err)
	}
	if len(body) == maxBodySize {
		p.logger.Warn("response truncated",
			zap.String("url", pageURL),
			zap.Int("limit_bytes", maxBodySize))
	}

	snapshot, err := extractSnapshot(string(body), pageURL, p.origin)
	if err != nil {
		return nil, newFetchError(KindNonHTML, pageURL, err)
	}
	snapshot.FetchedAt = time.Now()

	p.logger.Debug("fetched page",
		zap.String("url", pageURL),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("outbound_links", len(snapshot.OutboundLinks)))

	return snapshot, nil
}

// FetchText retrieves one URL as plain text without snapshot
// extraction. Used by the sitemap reader, which needs the raw body.
func (p *Provider) FetchText(ctx context.Context, textURL string) (string, error) {
	if !p.open {
		return "", newFetchError(KindNetworkError, textURL, errNotOpen)
	}

	parsed, err := url.Parse(textURL)
	if err != nil {
		return "", newFetchError(KindNetworkError, textURL, err)
	}
	if err := p.limiter.wait(ctx, parsed.Host); err != nil {
		return "", newFetchError(KindTimeout, textURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textURL, nil)
	if err != nil {
		return "", newFetchError(KindNetworkError, textURL, err)
	}
	req.Header.Set("User-Agent", p.userAgent())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", classifyTransportError(textURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := KindNetworkError
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		return "", newFetchError(kind, textURL, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", classifyTransportError(textURL, err)
	}
	return string(body), nil
}

func (p *Provider) userAgent() string {
	if p.opts.UserAgent != "" {
		return p.opts.UserAgent
	}
	if ua := browser.Random(); ua != "" {
		return ua
	}
	return defaultUserAgent
}

func classifyTransportError(pageURL string, err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newFetchError(KindTimeout, pageURL, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newFetchError(KindTimeout, pageURL, err)
	}
	return newFetchError(KindNetworkError, pageURL, err)
}

func isHTMLContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml")
}
