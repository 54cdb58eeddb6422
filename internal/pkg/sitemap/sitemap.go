package sitemap

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"linkscout/internal/pkg/urlutil"
)

// Fetcher is the raw-text capability the reader consumes. Sitemaps
// are not HTML, so the snapshot path does not apply.
type Fetcher interface {
	FetchText(ctx context.Context, textURL string) (string, error)
}

// candidates are tried in order; the first successful fetch wins.
var candidates = []string{"/sitemap.xml", "/sitemap_index.xml"}

// Reader extracts canonical URLs from an origin's sitemap. A missing
// or malformed sitemap is expected, not exceptional: the reader
// returns an empty slice rather than an error.
type Reader struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// New builds a Reader.
func New(f Fetcher, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{fetcher: f, logger: logger}
}

// Read fetches the origin's sitemap and returns every same-origin
// <loc> entry, normalized and deduplicated, in document order.
func (r *Reader) Read(ctx context.Context, origin *url.URL) []string {
	for _, path := range candidates {
		sitemapURL := origin.Scheme + "://" + origin.Host + path
		body, err := r.fetcher.FetchText(ctx, sitemapURL)
		if err != nil {
			r.logger.Debug("sitemap candidate unavailable",
				zap.String("url", sitemapURL),
				zap.Error(err))
			continue
		}
		urls := extractLocEntries(body, origin)
		r.logger.Info("sitemap read",
			zap.String("url", sitemapURL),
			zap.Int("entries", len(urls)))
		return urls
	}
	return nil
}

// extractLocEntries scans for literal <loc>...</loc> spans. Real-world
// sitemaps are frequently malformed, so this deliberately avoids a
// strict XML parser.
func extractLocEntries(body string, origin *url.URL) []string {
	var urls []string
	seen := make(map[string]struct{})

	rest := body
	for {
		start := strings.Index(rest, "<loc>")
		if start < 0 {
			break
		}
		rest = rest[start+len("<loc>"):]
		end := strings.Index(rest, "</loc>")
		if end < 0 {
			break
		}
		raw := strings.TrimSpace(rest[:end])
		rest = rest[end+len("</loc>"):]

		// CDATA wrapping shows up in generated sitemaps.
		raw = strings.TrimPrefix(raw, "<![CDATA[")
		raw = strings.TrimSuffix(raw, "]]>")
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		canonical, err := urlutil.Normalize(raw, nil)
		if err != nil {
			continue
		}
		if !urlutil.SameOrigin(canonical, origin) {
			continue
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		urls = append(urls, canonical)
	}
	return urls
}
